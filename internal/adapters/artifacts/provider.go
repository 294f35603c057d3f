package artifacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

const maxSuggestions = 3

// FactoryProvider binds artifacts from the store to a signer
type FactoryProvider struct {
	store   usecase.ArtifactStore
	encoder usecase.ABIEncoder
	log     *slog.Logger
}

// NewFactoryProvider creates a new contract factory provider
func NewFactoryProvider(store usecase.ArtifactStore, encoder usecase.ABIEncoder, log *slog.Logger) *FactoryProvider {
	if log == nil {
		log = slog.Default()
	}
	return &FactoryProvider{
		store:   store,
		encoder: encoder,
		log:     log,
	}
}

// GetFactory resolves identifier to a deployable contract bound to signer
func (p *FactoryProvider) GetFactory(ctx context.Context, identifier string, signer usecase.Signer) (*usecase.ContractFactory, error) {
	if signer == nil {
		return nil, &domain.FactoryError{Identifier: identifier, Err: domain.ErrNoSigningKey}
	}

	artifact, err := p.store.Get(ctx, identifier)
	if err != nil {
		factoryErr := &domain.FactoryError{Identifier: identifier, Err: err}
		if errors.Is(err, domain.ErrArtifactNotFound) {
			factoryErr.Suggestions = p.suggest(ctx, identifier)
		}
		return nil, factoryErr
	}

	if !artifact.Deployable() {
		return nil, &domain.FactoryError{Identifier: identifier, Err: domain.ErrArtifactNotDeployable}
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, &domain.FactoryError{Identifier: identifier, Err: fmt.Errorf("invalid ABI in %s: %w", artifact.Path, err)}
	}

	p.log.Debug("resolved contract factory", "contract", identifier, "artifact", artifact.Path, "format", artifact.Format)
	return usecase.NewContractFactory(identifier, artifact, &parsed, signer, p.encoder), nil
}

// suggest returns up to three known names close to identifier
func (p *FactoryProvider) suggest(ctx context.Context, identifier string) []string {
	names := p.store.Names(ctx)
	if len(names) == 0 {
		return nil
	}

	_, name, found := strings.Cut(identifier, ":")
	if !found {
		name = identifier
	}

	suggestions := lo.Map(fuzzy.Find(name, names), func(m fuzzy.Match, _ int) string { return m.Str })

	// names that are a subsequence of the identifier, e.g. "Token" for "TokenV2"
	for _, candidate := range names {
		if len(fuzzy.Find(candidate, []string{name})) > 0 {
			suggestions = append(suggestions, candidate)
		}
	}

	suggestions = lo.Uniq(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
