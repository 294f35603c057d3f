package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string

	// Context settings
	Network string // Selected network profile name

	// Inputs
	ArtifactsDir string
	PlanFile     string // empty selects the built-in plan

	// Execution settings
	Debug               bool
	Timeout             time.Duration
	ConfirmationTimeout time.Duration

	// Reporting
	ReportGas      bool
	ExplorerAPIKey string

	// Env is the environment snapshot the configuration resolver reads from.
	// It is captured once, after .env files have been loaded.
	Env map[string]string

	// Resolved configurations
	DeployerFile *DeployerFile // nil when deployer.toml is absent
}
