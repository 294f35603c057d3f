package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

// ListAccountsParams contains parameters for listing signing accounts
type ListAccountsParams struct {
	Network string // empty selects the configured network
}

// ListAccountsResult contains the addresses derived from the configured keys
type ListAccountsResult struct {
	Network   string
	Addresses []common.Address
}

// ListAccounts prints the accounts a deployment would sign with
type ListAccounts struct {
	config   *config.RuntimeConfig
	resolver NetworkConfigResolver
	signers  SignerProvider
}

// NewListAccounts creates a new ListAccounts use case
func NewListAccounts(cfg *config.RuntimeConfig, resolver NetworkConfigResolver, signers SignerProvider) *ListAccounts {
	return &ListAccounts{
		config:   cfg,
		resolver: resolver,
		signers:  signers,
	}
}

// Run derives the account addresses without touching the network
func (uc *ListAccounts) Run(ctx context.Context, params ListAccountsParams) (*ListAccountsResult, error) {
	networkName := params.Network
	if networkName == "" {
		networkName = uc.config.Network
	}

	network, account, err := uc.resolver.Resolve(networkName, uc.config.Env)
	if err != nil {
		return nil, err
	}

	addresses, err := uc.signers.Addresses(account)
	if err != nil {
		return nil, err
	}

	return &ListAccountsResult{
		Network:   network.Name,
		Addresses: addresses,
	}, nil
}
