package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// gasBufferPercent is added on top of the node's gas estimate
const gasBufferPercent = 20

// KeyedSigner signs legacy (EIP-155) transactions with an in-memory private key
type KeyedSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	chain   usecase.ChainState

	mu        sync.Mutex
	nextNonce uint64
}

// NewKeyedSigner creates a signer for hexKey on chainID
func NewKeyedSigner(hexKey string, chainID *big.Int, chain usecase.ChainState) (*KeyedSigner, error) {
	key, err := parseKey(hexKey)
	if err != nil {
		return nil, err
	}

	return &KeyedSigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).Set(chainID),
		chain:   chain,
	}, nil
}

// Address returns the signer's address
func (s *KeyedSigner) Address() common.Address {
	return s.address
}

// SignTransaction fills nonce, gas price and gas limit from the chain and signs req.
// Nonces are handed out under a lock and never reused within the signer.
func (s *KeyedSigner) SignTransaction(ctx context.Context, req usecase.TxRequest) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.chain.PendingNonceAt(ctx, s.address)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get nonce: %w", domain.ErrTransaction, err)
	}
	nonce := max(pending, s.nextNonce)

	gasPrice, err := s.chain.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get gas price: %w", domain.ErrTransaction, err)
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	gas, err := s.chain.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.address,
		To:    req.To,
		Value: value,
		Data:  req.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gas += gas * gasBufferPercent / 100

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       req.To,
		Value:    value,
		Data:     req.Data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSigning, err)
	}

	s.nextNonce = nonce + 1
	return signed, nil
}

// Provider builds keyed signers from account configuration
type Provider struct{}

// NewProvider creates a new signer provider
func NewProvider() *Provider {
	return &Provider{}
}

// NewSigner returns a signer for the first configured key
func (p *Provider) NewSigner(ctx context.Context, account *config.AccountConfig, chainID *big.Int, chain usecase.ChainState) (usecase.Signer, error) {
	if account.Empty() {
		return nil, domain.ErrNoSigningKey
	}
	return NewKeyedSigner(account.SigningKeys[0], chainID, chain)
}

// Addresses derives the address of every configured key, in order
func (p *Provider) Addresses(account *config.AccountConfig) ([]common.Address, error) {
	if account.Empty() {
		return nil, nil
	}

	addresses := make([]common.Address, 0, len(account.SigningKeys))
	for i, hexKey := range account.SigningKeys {
		key, err := parseKey(hexKey)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		addresses = append(addresses, crypto.PubkeyToAddress(key.PublicKey))
	}
	return lo.Uniq(addresses), nil
}

// parseKey never includes the key material in its error
func parseKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid private key", domain.ErrSigning)
	}
	return key, nil
}

// Ensure the adapters implement the interfaces
var (
	_ usecase.Signer         = (*KeyedSigner)(nil)
	_ usecase.SignerProvider = (*Provider)(nil)
)
