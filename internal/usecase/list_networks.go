package usecase

import (
	"context"

	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Currently no parameters, but we keep the struct for future extensibility
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the resolved state of a network profile
type NetworkStatus struct {
	Name                       string
	URL                        string
	ChainID                    *uint64
	AllowUnlimitedContractSize bool
	HasSigningKey              bool
	Error                      error
}

// Usable reports whether a deployment could run against the network
func (s NetworkStatus) Usable() bool {
	return s.Error == nil && s.HasSigningKey
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkConfigResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkConfigResolver) *ListNetworks {
	return &ListNetworks{
		config:   cfg,
		resolver: resolver,
	}
}

// Run executes the use case. It performs no network I/O.
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	profiles := uc.resolver.Profiles()

	networks := make([]NetworkStatus, 0, len(profiles))
	for _, profile := range profiles {
		status := NetworkStatus{
			Name: profile.Name,
		}

		network, account, err := uc.resolver.Resolve(profile.Name, uc.config.Env)
		if err != nil {
			status.Error = err
		} else {
			status.URL = network.URL
			status.ChainID = network.ChainID
			status.AllowUnlimitedContractSize = network.AllowUnlimitedContractSize
			status.HasSigningKey = !account.Empty()
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.config.Network,
	}, nil
}
