package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	collectionName   = "Real World Collectibles"
	collectionSymbol = "REAL"
)

// PlanFile is the YAML form of a deployment plan
type PlanFile struct {
	Deployments []PlanEntry `yaml:"deployments"`
}

// PlanEntry is a single deployment in a plan file
type PlanEntry struct {
	Contract      string `yaml:"contract"`
	Args          []any  `yaml:"args"`
	Proxy         string `yaml:"proxy,omitempty"`
	Initializer   string `yaml:"initializer,omitempty"`
	ProxyArtifact string `yaml:"proxy_artifact,omitempty"`
}

// DefaultPlan deploys the collectibles contract twice: once behind a UUPS proxy, once plain
func DefaultPlan() []domain.DeploymentSpec {
	uups := domain.ProxyKindUUPS
	return []domain.DeploymentSpec{
		{
			Contract: "RealWorldCollectiblesUpgradeable",
			Args:     []any{collectionName, collectionSymbol},
			Proxy:    &uups,
		},
		{
			Contract: "RealWorldCollectibles",
			Args:     []any{collectionName, collectionSymbol},
		},
	}
}

// LoadPlan returns the plan at path, or the default plan when path is empty
func LoadPlan(path string) ([]domain.DeploymentSpec, error) {
	if path == "" {
		return DefaultPlan(), nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewConfigError("plan", "plan file not found: "+absPath)
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	return ParsePlan(data)
}

// ParsePlan parses a YAML plan into deployment specs
func ParsePlan(data []byte) ([]domain.DeploymentSpec, error) {
	var file PlanFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &domain.ConfigError{Key: "plan", Reason: "failed to parse YAML", Err: err}
	}

	if len(file.Deployments) == 0 {
		return nil, domain.NewConfigError("plan", "no deployments defined")
	}

	specs := make([]domain.DeploymentSpec, 0, len(file.Deployments))
	for i, entry := range file.Deployments {
		if entry.Contract == "" {
			return nil, domain.NewConfigError(fmt.Sprintf("deployments[%d].contract", i), "contract is required")
		}

		spec := domain.DeploymentSpec{
			Contract:      entry.Contract,
			Args:          entry.Args,
			Initializer:   entry.Initializer,
			ProxyArtifact: entry.ProxyArtifact,
		}

		if entry.Proxy != "" {
			kind, err := domain.ParseProxyKind(entry.Proxy)
			if err != nil {
				return nil, &domain.ConfigError{Key: fmt.Sprintf("deployments[%d].proxy", i), Reason: "invalid proxy kind", Err: err}
			}
			spec.Proxy = &kind
		} else if entry.Initializer != "" || entry.ProxyArtifact != "" {
			return nil, domain.NewConfigError(fmt.Sprintf("deployments[%d]", i), "initializer and proxy_artifact require proxy")
		}

		specs = append(specs, spec)
	}

	return specs, nil
}
