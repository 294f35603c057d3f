package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
)

// NetworkConfigResolver turns a network name and an environment snapshot into
// network and account configuration. It never performs network I/O.
type NetworkConfigResolver interface {
	Resolve(network string, env map[string]string) (*config.NetworkConfig, *config.AccountConfig, error)
	Profiles() []config.NetworkProfile
}

// ArtifactStore provides access to compiled contracts
type ArtifactStore interface {
	Get(ctx context.Context, identifier string) (*models.Artifact, error)
	Names(ctx context.Context) []string
}

// ContractFactoryProvider binds compiled artifacts to a signer
type ContractFactoryProvider interface {
	GetFactory(ctx context.Context, identifier string, signer Signer) (*ContractFactory, error)
}

// ABIEncoder encodes deployment payloads and calls from loosely typed arguments
type ABIEncoder interface {
	EncodeConstructor(contractABI *abi.ABI, bytecode []byte, args []any) ([]byte, error)
	EncodeCall(contractABI *abi.ABI, method string, args []any) ([]byte, error)
	DecodeCall(contractABI *abi.ABI, data []byte) (string, []any, error)
}

// ChainState exposes the read-only node calls a signer needs to build transactions
type ChainState interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// Transport submits signed transactions and observes their confirmation
type Transport interface {
	ChainState
	ChainID(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	// WaitForReceipt blocks until the transaction is mined or ctx is done
	WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	Close()
}

// TransportDialer connects to the RPC endpoint of a network
type TransportDialer interface {
	Dial(ctx context.Context, network *config.NetworkConfig) (Transport, error)
}

// TxRequest is an unsigned transaction intent. To is nil for contract creation.
type TxRequest struct {
	To    *common.Address
	Data  []byte
	Value *big.Int
}

// Signer signs transactions for a single account and owns its nonce sequence
type Signer interface {
	Address() common.Address
	SignTransaction(ctx context.Context, req TxRequest) (*types.Transaction, error)
}

// SignerProvider builds a Signer from account configuration
type SignerProvider interface {
	NewSigner(ctx context.Context, account *config.AccountConfig, chainID *big.Int, chain ChainState) (Signer, error)
	Addresses(account *config.AccountConfig) ([]common.Address, error)
}

// DeploymentRecorder persists successful deployments
type DeploymentRecorder interface {
	Record(ctx context.Context, network *config.NetworkConfig, chainID uint64, deployer common.Address, result *domain.DeploymentResult) error
}

// DeploymentFilter selects registry records. Empty fields match everything.
type DeploymentFilter struct {
	Network      string
	ContractName string
	Type         models.DeploymentType
}

// DeploymentStore reads back recorded deployments
type DeploymentStore interface {
	ListDeployments(ctx context.Context, filter DeploymentFilter) ([]*models.Deployment, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
