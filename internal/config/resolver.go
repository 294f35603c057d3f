package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

// Resolver resolves a network name to its endpoint and signing configuration.
// Resolution is a pure function of the profiles and the env mapping passed in.
type Resolver struct {
	builtins []config.NetworkProfile
	file     *config.DeployerFile
}

// NewResolver creates a resolver over the built-in profiles and the optional deployer.toml
func NewResolver(file *config.DeployerFile) *Resolver {
	return &Resolver{
		builtins: BuiltinProfiles(),
		file:     file,
	}
}

// ProvideResolver creates a Resolver for Wire dependency injection
func ProvideResolver(cfg *config.RuntimeConfig) *Resolver {
	return NewResolver(cfg.DeployerFile)
}

// Profiles returns every known profile, sorted by name. URLs are left unexpanded.
func (r *Resolver) Profiles() []config.NetworkProfile {
	return mergeProfiles(r.builtins, r.file)
}

// Resolve builds the network and account configuration for network
func (r *Resolver) Resolve(network string, env map[string]string) (*config.NetworkConfig, *config.AccountConfig, error) {
	if network == "" {
		network = DefaultNetwork
	}

	profiles := mergeProfiles(r.builtins, r.file)
	profile, ok := lo.Find(profiles, func(p config.NetworkProfile) bool { return p.Name == network })
	if !ok {
		names := lo.Map(profiles, func(p config.NetworkProfile, _ int) string { return p.Name })
		return nil, nil, domain.NewConfigError("network",
			"unknown network '"+network+"' (known: "+strings.Join(names, ", ")+")")
	}

	url := lookup(env, profile.URLEnv)
	if url == "" {
		url = profile.DefaultURL
	}
	url = os.Expand(url, func(key string) string { return env[key] })
	if url == "" {
		key := "url"
		if profile.URLEnv != "" {
			key = profile.URLEnv
		}
		return nil, nil, domain.NewConfigError(key, "no RPC URL configured for network '"+network+"'")
	}

	chainID := profile.ChainID
	if raw := lookup(env, profile.ChainIDEnv); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, nil, &domain.ConfigError{
				Key:    profile.ChainIDEnv,
				Reason: "malformed chain id '" + raw + "'",
				Err:    err,
			}
		}
		chainID = &id
	}

	networkCfg := &config.NetworkConfig{
		Name:                       profile.Name,
		URL:                        url,
		ChainID:                    chainID,
		AllowUnlimitedContractSize: profile.AllowUnlimitedContractSize,
	}

	accountCfg := &config.AccountConfig{}
	if key := lookup(env, profile.KeyEnv); key != "" {
		accountCfg.SigningKeys = []string{key}
	}

	return networkCfg, accountCfg, nil
}

// lookup returns the trimmed value of key, or "" when key is empty or unset
func lookup(env map[string]string, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(env[key])
}
