package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

func TestPlainDeployer_DeployPlain(t *testing.T) {
	chain := newFakeChain(31337)
	factories := newFakeFactories(t)
	factory := factories.factory("RealWorldCollectibles", &fakeSigner{})

	result, err := usecase.NewPlainDeployer(chain, nil, nil, usecase.DriverOptions{}).DeployPlain(context.Background(), factory, initArgs)
	require.NoError(t, err)
	require.Len(t, chain.sent, 1)

	assert.Equal(t, "RealWorldCollectibles", result.Contract)
	assert.Equal(t, domain.DeploymentKindPlain, result.Kind)
	assert.Equal(t, chain.createdAt(0).Hex(), result.Address)
	assert.Equal(t, chain.sent[0].Hash().Hex(), result.TransactionHash)
	assert.Empty(t, result.Implementation)

	require.Len(t, result.Transactions, 1)
	record := result.Transactions[0]
	assert.Equal(t, uint64(100_000), record.GasUsed)
	assert.Equal(t, uint64(1), record.BlockNumber)
	assert.Equal(t, "100000000000000", record.Cost().String())

	assert.Equal(t, initArgs, factories.constructorArgs("RealWorldCollectibles", chain.sent[0].Data()))
}

func TestPlainDeployer_Failures(t *testing.T) {
	tests := []struct {
		name      string
		args      []any
		setup     func(chain *fakeChain)
		wantStage domain.Stage
		wantErr   error
		wantSent  int
	}{
		{
			name:      "constructor arguments do not encode",
			args:      []any{"only one"},
			wantStage: domain.StageImplementationDeploy,
			wantSent:  0,
		},
		{
			name:      "reverted",
			args:      initArgs,
			setup:     func(chain *fakeChain) { chain.revertAt[0] = true },
			wantStage: domain.StageImplementationDeploy,
			wantErr:   domain.ErrTransactionReverted,
			wantSent:  1,
		},
		{
			name:      "confirmation timeout",
			args:      initArgs,
			setup:     func(chain *fakeChain) { chain.timeoutAt[0] = true },
			wantStage: domain.StageConfirmation,
			wantErr:   domain.ErrConfirmationTimeout,
			wantSent:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := newFakeChain(31337)
			if tt.setup != nil {
				tt.setup(chain)
			}
			factory := newFakeFactories(t).factory("RealWorldCollectibles", &fakeSigner{})

			result, err := usecase.NewPlainDeployer(chain, nil, nil, usecase.DriverOptions{}).DeployPlain(context.Background(), factory, tt.args)
			require.Error(t, err)
			assert.Nil(t, result)

			var failure *domain.DeploymentFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.wantStage, failure.Stage)
			assert.Equal(t, "RealWorldCollectibles", failure.Contract)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			assert.Len(t, chain.sent, tt.wantSent)
		})
	}
}

func TestPlainDeployer_ContractSizeLimit(t *testing.T) {
	factories := newFakeFactories(t)
	factories.artifacts["Huge"] = fakeArtifact{`[]`, make([]byte, params.MaxInitCodeSize+1)}

	t.Run("rejected before submission", func(t *testing.T) {
		chain := newFakeChain(31337)
		factory := factories.factory("Huge", &fakeSigner{})

		_, err := usecase.NewPlainDeployer(chain, nil, nil, usecase.DriverOptions{}).DeployPlain(context.Background(), factory, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrContractTooLarge))
		assert.Empty(t, chain.sent)
	})

	t.Run("allowed on unlimited networks", func(t *testing.T) {
		chain := newFakeChain(28)
		factory := factories.factory("Huge", &fakeSigner{})

		result, err := usecase.NewPlainDeployer(chain, nil, nil, usecase.DriverOptions{AllowUnlimitedContractSize: true}).DeployPlain(context.Background(), factory, nil)
		require.NoError(t, err)
		assert.Equal(t, chain.createdAt(0).Hex(), result.Address)
	})
}
