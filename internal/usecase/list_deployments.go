package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	Network      string // empty selects the configured network
	ContractName string
	Type         models.DeploymentType
}

// DeploymentListResult contains the recorded deployments of a network
type DeploymentListResult struct {
	Network     string
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary counts the listed deployments
type DeploymentSummary struct {
	Total   int
	ByChain map[uint64]int
	ByType  map[models.DeploymentType]int
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	store  DeploymentStore
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, store DeploymentStore, sink ProgressSink) *ListDeployments {
	if sink == nil {
		sink = NopProgress{}
	}
	return &ListDeployments{
		config: cfg,
		store:  store,
		sink:   sink,
	}
}

// Run reads the registry of the selected network. It performs no network I/O.
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	network := params.Network
	if network == "" {
		network = uc.config.Network
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	deployments, err := uc.store.ListDeployments(ctx, DeploymentFilter{
		Network:      network,
		ContractName: params.ContractName,
		Type:         params.Type,
	})
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Network:     network,
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts deployments by chain, then contract name
func sortDeployments(deployments []*models.Deployment) {
	sort.Slice(deployments, func(i, j int) bool {
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		return deployments[i].ContractName < deployments[j].ContractName
	})
}

// calculateSummary calculates summary statistics for deployments
func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:   len(deployments),
		ByChain: make(map[uint64]int),
		ByType:  make(map[models.DeploymentType]int),
	}

	for _, dep := range deployments {
		summary.ByChain[dep.ChainID]++
		summary.ByType[dep.Type]++
	}

	return summary
}
