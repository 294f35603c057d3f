package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

// projectMarkers identify a project root, in order of preference
var projectMarkers = []string{
	DeployerFileName,
	"hardhat.config.ts",
	"hardhat.config.js",
	"foundry.toml",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env files must be loaded before anything reads the environment
	loadDotEnv(projectRoot)

	deployerFile, err := LoadDeployerFile(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployer config: %w", err)
	}

	env := EnvSnapshot()

	cfg := &config.RuntimeConfig{
		ProjectRoot:         projectRoot,
		Network:             v.GetString("network"),
		ArtifactsDir:        v.GetString("artifacts"),
		PlanFile:            v.GetString("plan"),
		Debug:               v.GetBool("debug"),
		Timeout:             v.GetDuration("timeout"),
		ConfirmationTimeout: v.GetDuration("confirmation-timeout"),
		ReportGas:           env["REPORT_GAS"] != "",
		ExplorerAPIKey:      env["ETHERSCAN_API_KEY"],
		Env:                 env,
		DeployerFile:        deployerFile,
	}

	if deployerFile != nil {
		if cfg.Network == "" {
			cfg.Network = deployerFile.Network
		}
		if !v.IsSet("artifacts") && deployerFile.Artifacts != "" {
			cfg.ArtifactsDir = deployerFile.Artifacts
		}
		if cfg.PlanFile == "" {
			cfg.PlanFile = deployerFile.Plan
		}
	}

	if cfg.Network == "" {
		cfg.Network = DefaultNetwork
	}
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = "artifacts"
	}
	if !filepath.IsAbs(cfg.ArtifactsDir) {
		cfg.ArtifactsDir = filepath.Join(projectRoot, cfg.ArtifactsDir)
	}
	if cfg.PlanFile != "" && !filepath.IsAbs(cfg.PlanFile) {
		cfg.PlanFile = filepath.Join(projectRoot, cfg.PlanFile)
	}

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to the first directory
// holding a project marker. Falls back to the current directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("DEPLOYER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("confirmation-timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(err)
		}
	})

	return v
}

// loadDotEnv loads .env then .env.local. Variables already set in the process win.
func loadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// EnvSnapshot captures the process environment as a map
func EnvSnapshot() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}
	return env
}
