package usecase_test

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	abiadapter "github.com/trebuchet-org/treb-deployer/internal/adapters/abi"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

const (
	devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	collectiblesABI = `[{"type":"constructor","inputs":[{"name":"name_","type":"string"},{"name":"symbol_","type":"string"}],"stateMutability":"nonpayable"}]`
	upgradeableABI  = `[{"type":"function","name":"initialize","inputs":[{"name":"name_","type":"string"},{"name":"symbol_","type":"string"}],"outputs":[],"stateMutability":"nonpayable"},
		{"type":"function","name":"initializeV2","inputs":[{"name":"owner","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}]`
	erc1967ProxyABI     = `[{"type":"constructor","inputs":[{"name":"implementation","type":"address"},{"name":"_data","type":"bytes"}],"stateMutability":"payable"}]`
	transparentProxyABI = `[{"type":"constructor","inputs":[{"name":"_logic","type":"address"},{"name":"initialOwner","type":"address"},{"name":"_data","type":"bytes"}],"stateMutability":"payable"},
		{"type":"error","name":"ProxyDeniedAdminAccess","inputs":[]}]`
	beaconABI      = `[{"type":"constructor","inputs":[{"name":"implementation_","type":"address"},{"name":"initialOwner","type":"address"}],"stateMutability":"nonpayable"}]`
	beaconProxyABI = `[{"type":"constructor","inputs":[{"name":"beacon","type":"address"},{"name":"data","type":"bytes"}],"stateMutability":"payable"}]`

	// OpenZeppelin 4.x shapes: the beacon is owned by its deployer and the
	// transparent proxy is administered by a separately deployed ProxyAdmin
	beaconV4ABI           = `[{"type":"constructor","inputs":[{"name":"implementation_","type":"address"}],"stateMutability":"nonpayable"}]`
	transparentProxyV4ABI = `[{"type":"constructor","inputs":[{"name":"_logic","type":"address"},{"name":"admin_","type":"address"},{"name":"_data","type":"bytes"}],"stateMutability":"payable"}]`
	proxyAdminV4ABI       = `[{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}]`
	proxyAdminOwnedABI    = `[{"type":"constructor","inputs":[{"name":"initialOwner","type":"address"}],"stateMutability":"nonpayable"}]`
)

var (
	deployerAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	oneGwei         = big.NewInt(1_000_000_000)
)

// fakeSigner produces unsigned legacy transactions with sequential nonces
type fakeSigner struct {
	mu    sync.Mutex
	nonce uint64
	err   error
}

func (s *fakeSigner) Address() common.Address { return deployerAddress }

func (s *fakeSigner) SignTransaction(ctx context.Context, req usecase.TxRequest) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    s.nonce,
		To:       req.To,
		Data:     req.Data,
		Gas:      5_000_000,
		GasPrice: oneGwei,
	})
	s.nonce++
	return tx, nil
}

// fakeChain mines every transaction instantly, deriving contract addresses the
// way the EVM does for CREATE
type fakeChain struct {
	chainID *big.Int

	// indexes of submissions whose receipt reverts or never arrives
	revertAt  map[int]bool
	timeoutAt map[int]bool
	sendErr   error

	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	closed   bool
}

func newFakeChain(chainID uint64) *fakeChain {
	return &fakeChain{
		chainID:   new(big.Int).SetUint64(chainID),
		revertAt:  map[int]bool{},
		timeoutAt: map[int]bool{},
		receipts:  map[common.Hash]*types.Receipt{},
	}
}

func (c *fakeChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return uint64(len(c.sent)), nil
}

func (c *fakeChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) { return oneGwei, nil }

func (c *fakeChain) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 1_000_000, nil
}

func (c *fakeChain) ChainID(ctx context.Context) (*big.Int, error) { return c.chainID, nil }

func (c *fakeChain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	index := len(c.sent)
	c.sent = append(c.sent, tx)

	receipt := &types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		TxHash:            tx.Hash(),
		GasUsed:           uint64(100_000 * (index + 1)),
		EffectiveGasPrice: oneGwei,
		BlockNumber:       big.NewInt(int64(index + 1)),
	}
	if tx.To() == nil {
		receipt.ContractAddress = crypto.CreateAddress(deployerAddress, tx.Nonce())
	}
	if c.revertAt[index] {
		receipt.Status = types.ReceiptStatusFailed
	}
	if !c.timeoutAt[index] {
		c.receipts[tx.Hash()] = receipt
	}
	return nil
}

func (c *fakeChain) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, ok := c.receipts[hash]
	if !ok {
		return nil, fmt.Errorf("%w: no receipt for %s", domain.ErrConfirmationTimeout, hash.Hex())
	}
	return receipt, nil
}

func (c *fakeChain) Close() { c.closed = true }

// createdAt returns the address created by the i-th submission
func (c *fakeChain) createdAt(i int) common.Address {
	return crypto.CreateAddress(deployerAddress, c.sent[i].Nonce())
}

// MockDialer is a mock implementation of TransportDialer
type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) Dial(ctx context.Context, network *config.NetworkConfig) (usecase.Transport, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.Transport), args.Error(1)
}

// MockSignerProvider is a mock implementation of SignerProvider
type MockSignerProvider struct {
	mock.Mock
}

func (m *MockSignerProvider) NewSigner(ctx context.Context, account *config.AccountConfig, chainID *big.Int, chain usecase.ChainState) (usecase.Signer, error) {
	args := m.Called(ctx, account, chainID, chain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.Signer), args.Error(1)
}

func (m *MockSignerProvider) Addresses(account *config.AccountConfig) ([]common.Address, error) {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]common.Address), args.Error(1)
}

// MockRecorder is a mock implementation of DeploymentRecorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, network *config.NetworkConfig, chainID uint64, deployer common.Address, result *domain.DeploymentResult) error {
	args := m.Called(ctx, network, chainID, deployer, result)
	return args.Error(0)
}

// fakeArtifact is an in-memory compiled contract
type fakeArtifact struct {
	abi      string
	bytecode []byte
}

// fakeFactories builds contract factories from in-memory artifacts and records lookups
type fakeFactories struct {
	t         *testing.T
	artifacts map[string]fakeArtifact
	requested []string
}

func newFakeFactories(t *testing.T) *fakeFactories {
	return &fakeFactories{
		t: t,
		artifacts: map[string]fakeArtifact{
			"RealWorldCollectibles":            {collectiblesABI, []byte{0x60, 0x80, 0x60, 0x01}},
			"RealWorldCollectiblesUpgradeable": {upgradeableABI, []byte{0x60, 0x80, 0x60, 0x02}},
			usecase.ERC1967ProxyArtifact:       {erc1967ProxyABI, []byte{0x60, 0x80, 0x60, 0x03}},
			usecase.TransparentProxyArtifact:   {transparentProxyABI, []byte{0x60, 0x80, 0x60, 0x04}},
			usecase.UpgradeableBeaconArtifact:  {beaconABI, []byte{0x60, 0x80, 0x60, 0x05}},
			usecase.BeaconProxyArtifact:        {beaconProxyABI, []byte{0x60, 0x80, 0x60, 0x06}},
		},
	}
}

func (f *fakeFactories) GetFactory(ctx context.Context, identifier string, signer usecase.Signer) (*usecase.ContractFactory, error) {
	f.requested = append(f.requested, identifier)

	artifact, ok := f.artifacts[identifier]
	if !ok {
		return nil, &domain.FactoryError{Identifier: identifier, Err: domain.ErrArtifactNotFound}
	}

	parsed, err := abi.JSON(strings.NewReader(artifact.abi))
	require.NoError(f.t, err)

	return usecase.NewContractFactory(identifier, &models.Artifact{
		Name:     identifier,
		ABI:      []byte(artifact.abi),
		Bytecode: artifact.bytecode,
	}, &parsed, signer, abiadapter.NewEncoder()), nil
}

// factory returns a factory for identifier bound to signer
func (f *fakeFactories) factory(identifier string, signer usecase.Signer) *usecase.ContractFactory {
	factory, err := f.GetFactory(context.Background(), identifier, signer)
	require.NoError(f.t, err)
	f.requested = nil
	return factory
}

// constructorArgs decodes the constructor arguments appended to identifier's bytecode in data
func (f *fakeFactories) constructorArgs(identifier string, data []byte) []any {
	artifact := f.artifacts[identifier]
	require.GreaterOrEqual(f.t, len(data), len(artifact.bytecode))
	require.Equal(f.t, artifact.bytecode, data[:len(artifact.bytecode)])

	parsed, err := abi.JSON(strings.NewReader(artifact.abi))
	require.NoError(f.t, err)

	values, err := parsed.Constructor.Inputs.Unpack(data[len(artifact.bytecode):])
	require.NoError(f.t, err)
	return values
}

func testRuntimeConfig(env map[string]string) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network: "localhost",
		Env:     env,
	}
}
