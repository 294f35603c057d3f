package config

import (
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

const (
	// DefaultNetwork is selected when no network is given
	DefaultNetwork = "localhost"

	// PrivateKeyEnv holds the signing key for every built-in profile
	PrivateKeyEnv = "PRIVATE_KEY"
)

// BuiltinProfiles returns the network profiles known without any project file
func BuiltinProfiles() []config.NetworkProfile {
	return []config.NetworkProfile{
		{
			Name:       "ropsten",
			URLEnv:     "ROPSTEN_URL",
			ChainIDEnv: ChainIDEnvName("ropsten"),
			KeyEnv:     PrivateKeyEnv,
		},
		{
			Name:                       "bobaRinkeby",
			DefaultURL:                 "https://rinkeby.boba.network",
			ChainID:                    lo.ToPtr(uint64(28)),
			ChainIDEnv:                 ChainIDEnvName("bobaRinkeby"),
			AllowUnlimitedContractSize: true,
			KeyEnv:                     PrivateKeyEnv,
		},
		{
			Name:       "localhost",
			URLEnv:     "LOCALHOST_URL",
			DefaultURL: "http://127.0.0.1:8545",
			ChainID:    lo.ToPtr(uint64(31337)),
			ChainIDEnv: ChainIDEnvName("localhost"),
			KeyEnv:     PrivateKeyEnv,
		},
	}
}

// ChainIDEnvName returns the variable that overrides a profile's chain ID.
// Examples: ropsten -> ROPSTEN_CHAIN_ID, bobaRinkeby -> BOBA_RINKEBY_CHAIN_ID
func ChainIDEnvName(profile string) string {
	return upperSnake(profile) + "_CHAIN_ID"
}

func upperSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '-' || r == '.' || r == ' ':
			b.WriteRune('_')
			continue
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			b.WriteRune('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// mergeProfiles overlays file profiles on the built-ins; file profiles win on name clashes.
// The result is sorted by name.
func mergeProfiles(builtins []config.NetworkProfile, file *config.DeployerFile) []config.NetworkProfile {
	byName := lo.SliceToMap(builtins, func(p config.NetworkProfile) (string, config.NetworkProfile) {
		return p.Name, p
	})

	if file != nil {
		for name, fp := range file.Networks {
			keyEnv := fp.KeyEnv
			if keyEnv == "" {
				keyEnv = PrivateKeyEnv
			}
			byName[name] = config.NetworkProfile{
				Name:                       name,
				URLEnv:                     fp.URLEnv,
				DefaultURL:                 fp.URL,
				ChainID:                    fp.ChainID,
				ChainIDEnv:                 ChainIDEnvName(name),
				AllowUnlimitedContractSize: fp.AllowUnlimitedContractSize,
				KeyEnv:                     keyEnv,
			}
		}
	}

	profiles := lo.Values(byName)
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles
}
