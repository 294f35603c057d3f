package config

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		network     string
		env         map[string]string
		file        *config.DeployerFile
		wantURL     string
		wantChainID *uint64
		wantKeys    []string
		wantUnlim   bool
		wantErr     string
	}{
		{
			name:    "ropsten with url and key",
			network: "ropsten",
			env: map[string]string{
				"ROPSTEN_URL": "https://ropsten.example",
				"PRIVATE_KEY": "0xabc",
			},
			wantURL:  "https://ropsten.example",
			wantKeys: []string{"0xabc"},
		},
		{
			name:    "ropsten without url",
			network: "ropsten",
			env:     map[string]string{"PRIVATE_KEY": "0xabc"},
			wantErr: "ROPSTEN_URL",
		},
		{
			name:        "boba rinkeby has fixed url and chain id",
			network:     "bobaRinkeby",
			env:         map[string]string{},
			wantURL:     "https://rinkeby.boba.network",
			wantChainID: lo.ToPtr(uint64(28)),
			wantUnlim:   true,
		},
		{
			name:        "blank private key yields empty accounts",
			network:     "bobaRinkeby",
			env:         map[string]string{"PRIVATE_KEY": "   "},
			wantURL:     "https://rinkeby.boba.network",
			wantChainID: lo.ToPtr(uint64(28)),
			wantUnlim:   true,
		},
		{
			name:        "empty network selects localhost",
			network:     "",
			env:         map[string]string{},
			wantURL:     "http://127.0.0.1:8545",
			wantChainID: lo.ToPtr(uint64(31337)),
		},
		{
			name:        "localhost url override",
			network:     "localhost",
			env:         map[string]string{"LOCALHOST_URL": "http://node:8545"},
			wantURL:     "http://node:8545",
			wantChainID: lo.ToPtr(uint64(31337)),
		},
		{
			name:    "chain id override",
			network: "ropsten",
			env: map[string]string{
				"ROPSTEN_URL":      "https://ropsten.example",
				"ROPSTEN_CHAIN_ID": "3",
			},
			wantURL:     "https://ropsten.example",
			wantChainID: lo.ToPtr(uint64(3)),
		},
		{
			name:    "malformed chain id",
			network: "bobaRinkeby",
			env:     map[string]string{"BOBA_RINKEBY_CHAIN_ID": "twenty-eight"},
			wantErr: "malformed chain id",
		},
		{
			name:    "unknown network",
			network: "mainnet",
			env:     map[string]string{},
			wantErr: "unknown network 'mainnet'",
		},
		{
			name:    "file profile with env expansion",
			network: "sepolia",
			env: map[string]string{
				"ALCHEMY_KEY": "secret",
				"DEPLOY_KEY":  "0xdef",
			},
			file: &config.DeployerFile{
				Networks: map[string]config.NetworkFileProfile{
					"sepolia": {
						URL:     "https://eth-sepolia.example/v2/${ALCHEMY_KEY}",
						ChainID: lo.ToPtr(uint64(11155111)),
						KeyEnv:  "DEPLOY_KEY",
					},
				},
			},
			wantURL:     "https://eth-sepolia.example/v2/secret",
			wantChainID: lo.ToPtr(uint64(11155111)),
			wantKeys:    []string{"0xdef"},
		},
		{
			name:    "file profile overrides builtin",
			network: "localhost",
			env:     map[string]string{"PRIVATE_KEY": "0x01"},
			file: &config.DeployerFile{
				Networks: map[string]config.NetworkFileProfile{
					"localhost": {URL: "http://127.0.0.1:9545"},
				},
			},
			wantURL:  "http://127.0.0.1:9545",
			wantKeys: []string{"0x01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(tt.file)

			network, account, err := resolver.Resolve(tt.network, tt.env)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, domain.ErrConfig))

				var cfgErr *domain.ConfigError
				assert.True(t, errors.As(err, &cfgErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, network.URL)
			assert.Equal(t, tt.wantChainID, network.ChainID)
			assert.Equal(t, tt.wantUnlim, network.AllowUnlimitedContractSize)
			if tt.wantKeys == nil {
				assert.True(t, account.Empty())
			} else {
				assert.Equal(t, tt.wantKeys, account.SigningKeys)
			}
		})
	}
}

func TestResolver_ResolveIsDeterministic(t *testing.T) {
	resolver := NewResolver(nil)
	env := map[string]string{"PRIVATE_KEY": "0xabc"}

	n1, a1, err := resolver.Resolve("bobaRinkeby", env)
	require.NoError(t, err)
	n2, a2, err := resolver.Resolve("bobaRinkeby", env)
	require.NoError(t, err)

	assert.Equal(t, n1, n2)
	assert.Equal(t, a1, a2)
}

func TestResolver_Profiles(t *testing.T) {
	resolver := NewResolver(&config.DeployerFile{
		Networks: map[string]config.NetworkFileProfile{
			"anvil": {URL: "http://127.0.0.1:8546"},
		},
	})

	names := lo.Map(resolver.Profiles(), func(p config.NetworkProfile, _ int) string { return p.Name })
	assert.Equal(t, []string{"anvil", "bobaRinkeby", "localhost", "ropsten"}, names)
}

func TestChainIDEnvName(t *testing.T) {
	tests := map[string]string{
		"ropsten":      "ROPSTEN_CHAIN_ID",
		"bobaRinkeby":  "BOBA_RINKEBY_CHAIN_ID",
		"celo-sepolia": "CELO_SEPOLIA_CHAIN_ID",
		"base2Mainnet": "BASE2_MAINNET_CHAIN_ID",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ChainIDEnvName(in))
		})
	}
}
