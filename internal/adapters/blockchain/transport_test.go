package blockchain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
)

// MockClient is a mock implementation of Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ChainID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

func (m *MockClient) Close() {
	m.Called()
}

func TestTransport_WaitForReceipt(t *testing.T) {
	hash := common.HexToHash("0x01")

	t.Run("polls until mined", func(t *testing.T) {
		client := new(MockClient)
		receipt := &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(7)}
		client.On("TransactionReceipt", mock.Anything, hash).Return(nil, ethereum.NotFound).Twice()
		client.On("TransactionReceipt", mock.Anything, hash).Return(receipt, nil).Once()

		transport := NewTransport(client, time.Millisecond, nil)
		got, err := transport.WaitForReceipt(context.Background(), hash)

		require.NoError(t, err)
		assert.Same(t, receipt, got)
		client.AssertNumberOfCalls(t, "TransactionReceipt", 3)
	})

	t.Run("deadline becomes confirmation timeout", func(t *testing.T) {
		client := new(MockClient)
		client.On("TransactionReceipt", mock.Anything, hash).Return(nil, ethereum.NotFound)

		transport := NewTransport(client, time.Millisecond, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := transport.WaitForReceipt(ctx, hash)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConfirmationTimeout))
	})

	t.Run("cancellation is returned as is", func(t *testing.T) {
		client := new(MockClient)
		client.On("TransactionReceipt", mock.Anything, hash).Return(nil, ethereum.NotFound)

		transport := NewTransport(client, time.Millisecond, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := transport.WaitForReceipt(ctx, hash)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, domain.ErrConfirmationTimeout))
	})
}

func TestTransport_SendTransactionClassifiesErrors(t *testing.T) {
	tests := []struct {
		name    string
		nodeErr error
		want    error
	}{
		{"insufficient funds", errors.New("insufficient funds for gas * price + value"), domain.ErrSigning},
		{"nonce too low", errors.New("nonce too low"), domain.ErrTransaction},
		{"init code", errors.New("max initcode size exceeded"), domain.ErrContractTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockClient)
			tx := types.NewTx(&types.LegacyTx{Nonce: 1})
			client.On("SendTransaction", mock.Anything, tx).Return(tt.nodeErr)

			err := NewTransport(client, 0, nil).SendTransaction(context.Background(), tx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			assert.Contains(t, err.Error(), tt.nodeErr.Error())
		})
	}
}
