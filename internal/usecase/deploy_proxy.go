package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trebuchet-org/treb-deployer/internal/domain"
)

// Proxy contract identifiers looked up in the artifact store, per kind
const (
	ERC1967ProxyArtifact      = "ERC1967Proxy"
	TransparentProxyArtifact  = "TransparentUpgradeableProxy"
	UpgradeableBeaconArtifact = "UpgradeableBeacon"
	BeaconProxyArtifact       = "BeaconProxy"

	// ProxyAdminArtifact is deployed ahead of a transparent proxy that does not create its own admin
	ProxyAdminArtifact = "ProxyAdmin"
)

// Constructor shapes the deployer knows how to fill
const (
	sigLogicData       = "(address,bytes)"
	sigLogicAdminData  = "(address,address,bytes)"
	sigBeaconWithOwner = "(address,address)"
	sigBeacon          = "(address)"
	sigAdminWithOwner  = "(address)"
	sigAdmin           = "()"
)

// errProxyDeniedAdminAccess only exists on transparent proxies that deploy their own ProxyAdmin
const errProxyDeniedAdminAccess = "ProxyDeniedAdminAccess"

// ProxyOptions select the proxy topology for an upgradeable deployment
type ProxyOptions struct {
	Kind        domain.ProxyKind
	Initializer string

	// ProxyArtifact replaces the default proxy contract for Kind.
	// For beacon deployments it replaces BeaconProxy; the beacon itself is unaffected.
	ProxyArtifact string
}

// ProxyDeployer installs an implementation behind a freshly deployed proxy
type ProxyDeployer struct {
	submitter *submitter
	factories ContractFactoryProvider
}

// NewProxyDeployer creates a proxy deployment driver
func NewProxyDeployer(transport Transport, factories ContractFactoryProvider, progress ProgressSink, log *slog.Logger, opts DriverOptions) *ProxyDeployer {
	return &ProxyDeployer{
		submitter: newSubmitter(transport, progress, log, opts),
		factories: factories,
	}
}

// proxyPlan is the set of factories and calldata needed before anything is submitted
type proxyPlan struct {
	proxy    *ContractFactory
	beacon   *ContractFactory // beacon kind only
	admin    *ContractFactory // transparent kind with an external admin only
	initData []byte

	beaconTakesOwner bool
	adminTakesOwner  bool
}

// DeployUpgradeable deploys the implementation, then the proxy, then calls the
// initializer through the proxy. Each step is confirmed before the next one is built.
// A non-nil error is always a *domain.DeploymentFailure.
func (d *ProxyDeployer) DeployUpgradeable(ctx context.Context, factory *ContractFactory, initArgs []any, opts ProxyOptions) (*domain.DeploymentResult, error) {
	name := factory.Name()

	plan, err := d.prepare(ctx, factory, initArgs, opts)
	if err != nil {
		return nil, err
	}

	result := &domain.DeploymentResult{
		Contract:  name,
		Kind:      domain.DeploymentKindProxy,
		ProxyKind: opts.Kind,
	}

	// 1. implementation, unconstructed
	impl, record, err := deployContract(ctx, d.submitter, name, name+" implementation", domain.StageImplementationDeploy, factory, nil)
	if err != nil {
		return nil, err
	}
	result.Implementation = impl.Hex()
	result.Transactions = append(result.Transactions, *record)

	// 2. proxy pointing at the implementation
	signer := factory.Signer.Address()
	var proxyArgs []any
	switch opts.Kind {
	case domain.ProxyKindUUPS:
		proxyArgs = []any{impl, []byte{}}
	case domain.ProxyKindTransparent:
		owner := signer
		if plan.admin != nil {
			var adminArgs []any
			if plan.adminTakesOwner {
				adminArgs = []any{signer}
			}
			admin, record, err := deployContract(ctx, d.submitter, name, name+" proxy admin", domain.StageProxyDeploy, plan.admin, adminArgs)
			if err != nil {
				return nil, err
			}
			result.Admin = admin.Hex()
			result.Transactions = append(result.Transactions, *record)
			owner = admin
		}
		proxyArgs = []any{impl, owner, []byte{}}
	case domain.ProxyKindBeacon:
		beaconArgs := []any{impl}
		if plan.beaconTakesOwner {
			beaconArgs = append(beaconArgs, signer)
		}
		beacon, record, err := deployContract(ctx, d.submitter, name, name+" beacon", domain.StageProxyDeploy, plan.beacon, beaconArgs)
		if err != nil {
			return nil, err
		}
		result.Beacon = beacon.Hex()
		result.Transactions = append(result.Transactions, *record)
		proxyArgs = []any{beacon, []byte{}}
	}

	proxy, record, err := deployContract(ctx, d.submitter, name, name+" proxy", domain.StageProxyDeploy, plan.proxy, proxyArgs)
	if err != nil {
		return nil, err
	}
	result.Address = proxy.Hex()
	result.TransactionHash = record.Hash
	result.Transactions = append(result.Transactions, *record)

	// 3. initializer through the proxy so it writes proxy storage
	_, record, err = d.submitter.submit(ctx, name, name+" "+initializerName(opts), domain.StageInitializerCall, factory.Signer, TxRequest{
		To:   &proxy,
		Data: plan.initData,
	})
	if err != nil {
		return nil, err
	}
	result.Transactions = append(result.Transactions, *record)

	return result, nil
}

// prepare resolves the proxy factories, checks their constructors against the
// arguments the kind supplies and encodes the initializer call. It submits nothing.
func (d *ProxyDeployer) prepare(ctx context.Context, factory *ContractFactory, initArgs []any, opts ProxyOptions) (*proxyPlan, error) {
	name := factory.Name()
	plan := &proxyPlan{}

	var proxyID string
	switch opts.Kind {
	case domain.ProxyKindUUPS:
		proxyID = ERC1967ProxyArtifact
	case domain.ProxyKindTransparent:
		proxyID = TransparentProxyArtifact
	case domain.ProxyKindBeacon:
		proxyID = BeaconProxyArtifact
		beacon, err := d.factories.GetFactory(ctx, UpgradeableBeaconArtifact, factory.Signer)
		if err != nil {
			return nil, domain.NewDeploymentFailure(name, domain.StageFactoryResolution, err)
		}
		switch beacon.ConstructorSignature() {
		case sigBeaconWithOwner:
			plan.beaconTakesOwner = true
		case sigBeacon:
		default:
			return nil, incompatible(name, beacon, sigBeaconWithOwner, sigBeacon)
		}
		plan.beacon = beacon
	default:
		return nil, domain.NewDeploymentFailure(name, domain.StageProxyDeploy, fmt.Errorf("unsupported proxy kind %q", opts.Kind))
	}
	if opts.ProxyArtifact != "" {
		proxyID = opts.ProxyArtifact
	}

	proxy, err := d.factories.GetFactory(ctx, proxyID, factory.Signer)
	if err != nil {
		return nil, domain.NewDeploymentFailure(name, domain.StageFactoryResolution, err)
	}
	plan.proxy = proxy

	switch opts.Kind {
	case domain.ProxyKindUUPS, domain.ProxyKindBeacon:
		if proxy.ConstructorSignature() != sigLogicData {
			return nil, incompatible(name, proxy, sigLogicData)
		}
	case domain.ProxyKindTransparent:
		if proxy.ConstructorSignature() != sigLogicAdminData {
			return nil, incompatible(name, proxy, sigLogicAdminData)
		}
		if _, ownsAdmin := proxy.ABI.Errors[errProxyDeniedAdminAccess]; !ownsAdmin {
			admin, err := d.factories.GetFactory(ctx, ProxyAdminArtifact, factory.Signer)
			if err != nil {
				return nil, domain.NewDeploymentFailure(name, domain.StageFactoryResolution, fmt.Errorf("%s takes an admin address: %w", proxy.Name(), err))
			}
			switch admin.ConstructorSignature() {
			case sigAdminWithOwner:
				plan.adminTakesOwner = true
			case sigAdmin:
			default:
				return nil, incompatible(name, admin, sigAdminWithOwner, sigAdmin)
			}
			plan.admin = admin
		}
	}

	initData, err := factory.CallData(initializerName(opts), initArgs)
	if err != nil {
		return nil, domain.NewDeploymentFailure(name, domain.StageInitializerCall, fmt.Errorf("failed to encode initializer: %w", err))
	}
	plan.initData = initData

	return plan, nil
}

func incompatible(contract string, f *ContractFactory, want ...string) error {
	return domain.NewDeploymentFailure(contract, domain.StageFactoryResolution,
		fmt.Errorf("%w: %s constructor is %s, want %s", domain.ErrIncompatibleProxy, f.Name(), f.ConstructorSignature(), strings.Join(want, " or ")))
}

func initializerName(opts ProxyOptions) string {
	if opts.Initializer == "" {
		return domain.DefaultInitializer
	}
	return opts.Initializer
}
