package config

// NetworkConfig is the resolved endpoint configuration for the selected network
type NetworkConfig struct {
	Name                       string  `json:"name"`
	URL                        string  `json:"url"`
	ChainID                    *uint64 `json:"chainId,omitempty"`
	AllowUnlimitedContractSize bool    `json:"allowUnlimitedContractSize"`
}

// HasChainID reports whether a chain ID was configured
func (n *NetworkConfig) HasChainID() bool {
	return n != nil && n.ChainID != nil
}

// AccountConfig holds the signing credentials, in order. It may be empty.
type AccountConfig struct {
	SigningKeys []string `json:"-"`
}

// Empty reports whether no signing key is configured
func (a *AccountConfig) Empty() bool {
	return a == nil || len(a.SigningKeys) == 0
}

// NetworkProfile is a named network definition from which a NetworkConfig is resolved
type NetworkProfile struct {
	Name string

	// URLEnv names the variable that provides the URL; DefaultURL applies when it is unset or empty
	URLEnv     string
	DefaultURL string

	ChainID *uint64

	// ChainIDEnv names the variable that may override ChainID
	ChainIDEnv string

	AllowUnlimitedContractSize bool

	// KeyEnv names the variable that holds the signing key
	KeyEnv string
}

// DeployerFile represents the optional deployer.toml project file
type DeployerFile struct {
	Artifacts string                        `toml:"artifacts"`
	Plan      string                        `toml:"plan"`
	Network   string                        `toml:"network"`
	Networks  map[string]NetworkFileProfile `toml:"networks"`
}

// NetworkFileProfile is a [networks.<name>] section of deployer.toml
type NetworkFileProfile struct {
	URL                        string  `toml:"url"`
	URLEnv                     string  `toml:"url_env"`
	ChainID                    *uint64 `toml:"chain_id"`
	AllowUnlimitedContractSize bool    `toml:"allow_unlimited_contract_size"`
	KeyEnv                     string  `toml:"key_env"`
}
