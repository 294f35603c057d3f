package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// DefaultPollInterval is how often a pending transaction's receipt is requested
const DefaultPollInterval = time.Second

// Client is the subset of ethclient.Client the transport uses
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// Transport implements usecase.Transport over a JSON-RPC client
type Transport struct {
	client       Client
	pollInterval time.Duration
	log          *slog.Logger
}

// NewTransport wraps client
func NewTransport(client Client, pollInterval time.Duration, log *slog.Logger) *Transport {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Transport{
		client:       client,
		pollInterval: pollInterval,
		log:          log,
	}
}

func (t *Transport) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := t.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: eth_chainId: %v", domain.ErrTransaction, err)
	}
	return id, nil
}

func (t *Transport) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return t.client.PendingNonceAt(ctx, account)
}

func (t *Transport) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return t.client.SuggestGasPrice(ctx)
}

func (t *Transport) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := t.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, classifyError(err)
	}
	return gas, nil
}

// SendTransaction submits tx, classifying node rejections
func (t *Transport) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := t.client.SendTransaction(ctx, tx); err != nil {
		return classifyError(err)
	}
	return nil
}

// WaitForReceipt polls for the receipt of hash until it exists or ctx is done.
// Lookup errors other than "not found" are logged and retried.
func (t *Transport) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := t.client.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil {
			t.log.Debug("receipt lookup failed", "hash", hash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: no receipt for %s", domain.ErrConfirmationTimeout, hash.Hex())
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (t *Transport) Close() {
	t.client.Close()
}

// classifyError maps node rejections onto the domain taxonomy
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return fmt.Errorf("%w: %v", domain.ErrSigning, err)
	case strings.Contains(msg, "max initcode size exceeded"):
		return fmt.Errorf("%w: %v", domain.ErrContractTooLarge, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrTransaction, err)
	}
}

// Dialer connects to a network's RPC endpoint with ethclient
type Dialer struct {
	pollInterval time.Duration
	log          *slog.Logger
}

// NewDialer creates a new Dialer
func NewDialer(log *slog.Logger) *Dialer {
	return &Dialer{
		pollInterval: DefaultPollInterval,
		log:          log,
	}
}

// Dial opens a client for network
func (d *Dialer) Dial(ctx context.Context, network *config.NetworkConfig) (usecase.Transport, error) {
	client, err := ethclient.DialContext(ctx, network.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return NewTransport(client, d.pollInterval, d.log), nil
}

// Ensure the adapters implement the interfaces
var (
	_ usecase.Transport       = (*Transport)(nil)
	_ usecase.TransportDialer = (*Dialer)(nil)
)
