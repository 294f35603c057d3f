package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Progress usecase.ProgressSink

	// Use cases
	RunDeployment   *usecase.RunDeployment
	ListAccounts    *usecase.ListAccounts
	ListNetworks    *usecase.ListNetworks
	ShowConfig      *usecase.ShowConfig
	ListDeployments *usecase.ListDeployments
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	progress usecase.ProgressSink,
	runDeployment *usecase.RunDeployment,
	listAccounts *usecase.ListAccounts,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	listDeployments *usecase.ListDeployments,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		Progress:        progress,
		RunDeployment:   runDeployment,
		ListAccounts:    listAccounts,
		ListNetworks:    listNetworks,
		ShowConfig:      showConfig,
		ListDeployments: listDeployments,
	}, nil
}
