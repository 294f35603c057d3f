package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/abi"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/artifacts"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/fs"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/signer"
	"github.com/trebuchet-org/treb-deployer/internal/config"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.ProvideRegistryStore,
	wire.Bind(new(usecase.DeploymentRecorder), new(*fs.RegistryStore)),
	wire.Bind(new(usecase.DeploymentStore), new(*fs.RegistryStore)),
)

// ArtifactSet provides the compiled-contract store and the factories built from it
var ArtifactSet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.ABIEncoder), new(*abi.Encoder)),

	artifacts.ProvideStore,
	wire.Bind(new(usecase.ArtifactStore), new(*artifacts.Store)),

	artifacts.NewFactoryProvider,
	wire.Bind(new(usecase.ContractFactoryProvider), new(*artifacts.FactoryProvider)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideResolver,
	wire.Bind(new(usecase.NetworkConfigResolver), new(*config.Resolver)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewDialer,
	wire.Bind(new(usecase.TransportDialer), new(*blockchain.Dialer)),

	signer.NewProvider,
	wire.Bind(new(usecase.SignerProvider), new(*signer.Provider)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ArtifactSet,
	ConfigSet,
	BlockchainSet,
)
