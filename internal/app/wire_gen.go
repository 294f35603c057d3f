// Injector for the provider sets in wire.go. Keep in step with wire.go by hand.

//go:build !wireinject
// +build !wireinject

package app

import (
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/abi"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/artifacts"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/fs"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/signer"
	"github.com/trebuchet-org/treb-deployer/internal/config"
	"github.com/trebuchet-org/treb-deployer/internal/logging"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// Injectors from wire.go:

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	runtimeConfig, err := config.Provider(v)
	if err != nil {
		return nil, err
	}
	resolver := config.ProvideResolver(runtimeConfig)
	logger := logging.NewLogger(runtimeConfig)
	dialer := blockchain.NewDialer(logger)
	provider := signer.NewProvider()
	store := artifacts.ProvideStore(runtimeConfig, logger)
	encoder := abi.NewEncoder()
	factoryProvider := artifacts.NewFactoryProvider(store, encoder, logger)
	registryStore := fs.ProvideRegistryStore(runtimeConfig)
	runDeployment := usecase.NewRunDeployment(runtimeConfig, resolver, dialer, provider, factoryProvider, registryStore, sink, logger)
	listAccounts := usecase.NewListAccounts(runtimeConfig, resolver, provider)
	listNetworks := usecase.NewListNetworks(runtimeConfig, resolver)
	showConfig := usecase.NewShowConfig(runtimeConfig, resolver, store)
	listDeployments := usecase.NewListDeployments(runtimeConfig, registryStore, sink)
	app, err := NewApp(runtimeConfig, logger, sink, runDeployment, listAccounts, listNetworks, showConfig, listDeployments)
	if err != nil {
		return nil, err
	}
	return app, nil
}
