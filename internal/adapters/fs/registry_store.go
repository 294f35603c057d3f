package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// DeploymentsDir is the registry directory, relative to the project root
const DeploymentsDir = "deployments"

// RegistryStore keeps one JSON file per network under <root>/deployments,
// holding the latest record for every contract deployed there.
type RegistryStore struct {
	rootDir string
	now     func() time.Time
	mu      sync.Mutex
}

// NewRegistryStore creates a registry store rooted at rootDir
func NewRegistryStore(rootDir string) *RegistryStore {
	return &RegistryStore{
		rootDir: rootDir,
		now:     time.Now,
	}
}

// ProvideRegistryStore creates a RegistryStore for Wire dependency injection
func ProvideRegistryStore(cfg *config.RuntimeConfig) *RegistryStore {
	return NewRegistryStore(cfg.ProjectRoot)
}

// Path returns the registry file for a network
func (s *RegistryStore) Path(network string) string {
	return filepath.Join(s.rootDir, DeploymentsDir, network+".json")
}

// Record upserts the deployment of result.Contract on network
func (s *RegistryStore) Record(ctx context.Context, network *config.NetworkConfig, chainID uint64, deployer common.Address, result *domain.DeploymentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deployments, err := s.Load(network.Name)
	if err != nil {
		return err
	}

	deployment := toDeployment(network.Name, chainID, deployer, result)
	deployment.CreatedAt = s.now().UTC()
	deployments[deployment.ID] = deployment

	return s.save(network.Name, deployments)
}

// Load reads the registry file of a network. A missing file is an empty registry.
func (s *RegistryStore) Load(network string) (map[string]*models.Deployment, error) {
	deployments := make(map[string]*models.Deployment)

	data, err := os.ReadFile(s.Path(network))
	if err != nil {
		if os.IsNotExist(err) {
			return deployments, nil
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	if err := json.Unmarshal(data, &deployments); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", s.Path(network), err)
	}
	return deployments, nil
}

// ListDeployments returns the records of filter.Network matching the filter
func (s *RegistryStore) ListDeployments(ctx context.Context, filter usecase.DeploymentFilter) ([]*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deployments, err := s.Load(filter.Network)
	if err != nil {
		return nil, err
	}

	return lo.Filter(lo.Values(deployments), func(dep *models.Deployment, _ int) bool {
		if filter.ContractName != "" && !strings.EqualFold(dep.ContractName, filter.ContractName) {
			return false
		}
		if filter.Type != "" && dep.Type != filter.Type {
			return false
		}
		return true
	}), nil
}

func (s *RegistryStore) save(network string, deployments map[string]*models.Deployment) error {
	path := s.Path(network)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := json.MarshalIndent(deployments, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func toDeployment(network string, chainID uint64, deployer common.Address, result *domain.DeploymentResult) *models.Deployment {
	deployment := &models.Deployment{
		ID:           models.DeploymentID(chainID, result.Contract),
		Network:      network,
		ChainID:      chainID,
		ContractName: result.Contract,
		Address:      result.Address,
		Type:         models.SingletonDeployment,
		TxHash:       result.TransactionHash,
		Deployer:     deployer.Hex(),
	}

	if result.Kind == domain.DeploymentKindProxy {
		deployment.Type = models.ProxyDeployment
		deployment.ProxyInfo = &models.ProxyInfo{
			Type:           strings.ToLower(string(result.ProxyKind)),
			Implementation: result.Implementation,
			Beacon:         result.Beacon,
			Admin:          result.Admin,
		}
	}

	return deployment
}

// Ensure the adapter implements the interfaces
var (
	_ usecase.DeploymentRecorder = (*RegistryStore)(nil)
	_ usecase.DeploymentStore    = (*RegistryStore)(nil)
)
