package signer

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// well-known local development keys
const (
	devKey0 = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devKey1 = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

var (
	devAddr0 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	devAddr1 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type fakeChain struct {
	pendingNonce uint64
	gasPrice     *big.Int
	gas          uint64
	nonceErr     error
	gasPriceErr  error
	estimateErr  error
	lastCall     ethereum.CallMsg
}

func (c *fakeChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return c.pendingNonce, c.nonceErr
}

func (c *fakeChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.gasPrice, c.gasPriceErr
}

func (c *fakeChain) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	c.lastCall = msg
	return c.gas, c.estimateErr
}

func TestKeyedSigner_SignTransaction(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{pendingNonce: 5, gasPrice: big.NewInt(2_000_000_000), gas: 100_000}

	s, err := NewKeyedSigner(devKey0, big.NewInt(31337), chain)
	require.NoError(t, err)
	assert.Equal(t, devAddr0, s.Address())

	data := []byte{0x60, 0x80}
	tx, err := s.SignTransaction(ctx, usecase.TxRequest{Data: data})
	require.NoError(t, err)

	assert.Equal(t, uint64(5), tx.Nonce())
	assert.Nil(t, tx.To())
	assert.Equal(t, data, tx.Data())
	assert.Equal(t, uint64(120_000), tx.Gas())
	assert.Equal(t, big.NewInt(2_000_000_000), tx.GasPrice())
	assert.Equal(t, big.NewInt(31337), tx.ChainId())
	assert.Equal(t, devAddr0, chain.lastCall.From)

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(31337)), tx)
	require.NoError(t, err)
	assert.Equal(t, devAddr0, sender)

	// the node has not seen the first transaction yet; the nonce still advances
	to := common.HexToAddress("0x01")
	next, err := s.SignTransaction(ctx, usecase.TxRequest{To: &to, Data: data})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), next.Nonce())
	assert.Equal(t, &to, next.To())
}

func TestKeyedSigner_Errors(t *testing.T) {
	_, err := NewKeyedSigner("0xnot-a-key", big.NewInt(1), &fakeChain{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSigning))
	assert.NotContains(t, err.Error(), "not-a-key")

	estimateErr := errors.New("execution reverted")
	s, err := NewKeyedSigner(devKey0, big.NewInt(1), &fakeChain{gasPrice: big.NewInt(1), estimateErr: estimateErr})
	require.NoError(t, err)

	_, err = s.SignTransaction(context.Background(), usecase.TxRequest{Data: []byte{0x00}})
	assert.ErrorIs(t, err, estimateErr)
}

func TestProvider(t *testing.T) {
	p := NewProvider()

	t.Run("addresses in key order", func(t *testing.T) {
		addrs, err := p.Addresses(&config.AccountConfig{SigningKeys: []string{devKey0, devKey1}})
		require.NoError(t, err)
		assert.Equal(t, []common.Address{devAddr0, devAddr1}, addrs)
	})

	t.Run("no keys", func(t *testing.T) {
		addrs, err := p.Addresses(&config.AccountConfig{})
		require.NoError(t, err)
		assert.Empty(t, addrs)

		_, err = p.NewSigner(context.Background(), &config.AccountConfig{}, big.NewInt(1), &fakeChain{})
		assert.ErrorIs(t, err, domain.ErrNoSigningKey)
	})

	t.Run("signer uses first key", func(t *testing.T) {
		s, err := p.NewSigner(context.Background(), &config.AccountConfig{SigningKeys: []string{devKey1, devKey0}}, big.NewInt(1), &fakeChain{})
		require.NoError(t, err)
		assert.Equal(t, devAddr1, s.Address())
	})
}

func TestKeyedSigner_NodeFailures(t *testing.T) {
	rpcErr := errors.New("connection refused")

	tests := []struct {
		name  string
		chain *fakeChain
	}{
		{name: "nonce lookup", chain: &fakeChain{nonceErr: rpcErr}},
		{name: "gas price lookup", chain: &fakeChain{gasPriceErr: rpcErr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewKeyedSigner(devKey0, big.NewInt(1), tt.chain)
			require.NoError(t, err)

			_, err = s.SignTransaction(context.Background(), usecase.TxRequest{Data: []byte{0x00}})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrTransaction)
			assert.ErrorIs(t, err, rpcErr)
			assert.NotErrorIs(t, err, domain.ErrSigning)
		})
	}
}
