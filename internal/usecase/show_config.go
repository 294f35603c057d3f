package usecase

import (
	"context"
	"path/filepath"
	"time"

	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

// ShowConfigResult contains the effective runtime configuration
type ShowConfigResult struct {
	ProjectRoot         string
	Network             string
	NetworkURL          string
	ChainID             *uint64
	ArtifactsDir        string
	ArtifactCount       int
	PlanFile            string // empty when the built-in plan is used
	ConfirmationTimeout time.Duration
	ReportGas           bool
	ExplorerAPIKeySet   bool
	DeployerFilePath    string // empty when deployer.toml is absent
	NetworkError        error
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config    *config.RuntimeConfig
	resolver  NetworkConfigResolver
	artifacts ArtifactStore
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig, resolver NetworkConfigResolver, artifacts ArtifactStore) *ShowConfig {
	return &ShowConfig{
		config:    cfg,
		resolver:  resolver,
		artifacts: artifacts,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	result := &ShowConfigResult{
		ProjectRoot:         uc.config.ProjectRoot,
		Network:             uc.config.Network,
		ArtifactsDir:        uc.config.ArtifactsDir,
		ArtifactCount:       len(uc.artifacts.Names(ctx)),
		PlanFile:            uc.config.PlanFile,
		ConfirmationTimeout: uc.config.ConfirmationTimeout,
		ReportGas:           uc.config.ReportGas,
		ExplorerAPIKeySet:   uc.config.ExplorerAPIKey != "",
	}

	if uc.config.DeployerFile != nil {
		result.DeployerFilePath = filepath.Join(uc.config.ProjectRoot, "deployer.toml")
	}

	// an unresolvable network is reported, not fatal
	network, _, err := uc.resolver.Resolve(uc.config.Network, uc.config.Env)
	if err != nil {
		result.NetworkError = err
	} else {
		result.NetworkURL = network.URL
		result.ChainID = network.ChainID
	}

	return result, nil
}
