//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-deployer/internal/adapters"
	"github.com/trebuchet-org/treb-deployer/internal/config"
	"github.com/trebuchet-org/treb-deployer/internal/logging"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewRunDeployment,
		usecase.NewListAccounts,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewListDeployments,

		// App
		NewApp,
	)
	return nil, nil
}
