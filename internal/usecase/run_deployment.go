package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

// RunDeploymentParams contains parameters for a deployment run
type RunDeploymentParams struct {
	Network string // empty selects the configured network
	Specs   []domain.DeploymentSpec
}

// RunDeploymentResult carries everything deployed before the run ended
type RunDeploymentResult struct {
	Network   *config.NetworkConfig
	ChainID   uint64
	Deployer  common.Address
	Completed []*domain.DeploymentResult
	Failure   *domain.DeploymentFailure
}

// RunDeployment deploys a plan of specs in order, stopping at the first failure
type RunDeployment struct {
	config    *config.RuntimeConfig
	resolver  NetworkConfigResolver
	dialer    TransportDialer
	signers   SignerProvider
	factories ContractFactoryProvider
	recorder  DeploymentRecorder
	progress  ProgressSink
	log       *slog.Logger
}

// NewRunDeployment creates a new RunDeployment use case
func NewRunDeployment(
	cfg *config.RuntimeConfig,
	resolver NetworkConfigResolver,
	dialer TransportDialer,
	signers SignerProvider,
	factories ContractFactoryProvider,
	recorder DeploymentRecorder,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeployment {
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &RunDeployment{
		config:    cfg,
		resolver:  resolver,
		dialer:    dialer,
		signers:   signers,
		factories: factories,
		recorder:  recorder,
		progress:  progress,
		log:       log,
	}
}

// Run resolves configuration once, then deploys each spec in order.
// Configuration problems are returned before any chain I/O. When a spec fails the
// returned result holds the specs completed so far and the error is its *domain.DeploymentFailure.
func (uc *RunDeployment) Run(ctx context.Context, params RunDeploymentParams) (*RunDeploymentResult, error) {
	networkName := params.Network
	if networkName == "" {
		networkName = uc.config.Network
	}

	network, account, err := uc.resolver.Resolve(networkName, uc.config.Env)
	if err != nil {
		return nil, err
	}

	if account.Empty() {
		return nil, &domain.ConfigError{
			Key:    "signingKeys",
			Reason: fmt.Sprintf("network '%s' requires a signing key (set PRIVATE_KEY)", network.Name),
			Err:    domain.ErrNoSigningKey,
		}
	}

	if len(params.Specs) == 0 {
		return nil, domain.NewConfigError("plan", "no deployments to run")
	}

	uc.log.Debug("connecting", "network", network.Name, "url", network.URL)
	transport, err := uc.dialer.Dial(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}
	defer transport.Close()

	chainID, err := transport.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID from %s: %w", network.Name, err)
	}
	if network.HasChainID() && *network.ChainID != chainID.Uint64() {
		return nil, &domain.ConfigError{
			Key:    "chainId",
			Reason: fmt.Sprintf("network '%s' is configured for chain %d but the node reports %d", network.Name, *network.ChainID, chainID.Uint64()),
			Err:    domain.ErrNetworkMismatch,
		}
	}

	signer, err := uc.signers.NewSigner(ctx, account, chainID, transport)
	if err != nil {
		return nil, err
	}

	result := &RunDeploymentResult{
		Network:  network,
		ChainID:  chainID.Uint64(),
		Deployer: signer.Address(),
	}

	opts := DriverOptions{
		AllowUnlimitedContractSize: network.AllowUnlimitedContractSize,
		ConfirmationTimeout:        uc.config.ConfirmationTimeout,
	}
	plain := NewPlainDeployer(transport, uc.progress, uc.log, opts)
	proxies := NewProxyDeployer(transport, uc.factories, uc.progress, uc.log, opts)

	for i, spec := range params.Specs {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   string(domain.StageFactoryResolution),
			Current: i + 1,
			Total:   len(params.Specs),
			Message: fmt.Sprintf("Deploying %s", spec.Contract),
			Spinner: true,
		})

		deployed, err := uc.deploySpec(ctx, spec, signer, plain, proxies)
		if err != nil {
			var failure *domain.DeploymentFailure
			if !errors.As(err, &failure) {
				failure = domain.NewDeploymentFailure(spec.Contract, domain.StageFactoryResolution, err)
			}
			result.Failure = failure
			uc.log.Debug("deployment failed", "contract", spec.Contract, "stage", failure.Stage, "error", failure.Cause)
			return result, failure
		}

		result.Completed = append(result.Completed, deployed)

		if uc.recorder != nil {
			if err := uc.recorder.Record(ctx, network, result.ChainID, result.Deployer, deployed); err != nil {
				uc.log.Warn("failed to record deployment", "contract", deployed.Contract, "error", err)
			}
		}
	}

	return result, nil
}

func (uc *RunDeployment) deploySpec(ctx context.Context, spec domain.DeploymentSpec, signer Signer, plain *PlainDeployer, proxies *ProxyDeployer) (*domain.DeploymentResult, error) {
	factory, err := uc.factories.GetFactory(ctx, spec.Contract, signer)
	if err != nil {
		return nil, domain.NewDeploymentFailure(spec.Contract, domain.StageFactoryResolution, err)
	}

	if !spec.IsUpgradeable() {
		return plain.DeployPlain(ctx, factory, spec.Args)
	}

	return proxies.DeployUpgradeable(ctx, factory, spec.Args, ProxyOptions{
		Kind:          *spec.Proxy,
		Initializer:   spec.InitializerName(),
		ProxyArtifact: spec.ProxyArtifact,
	})
}
