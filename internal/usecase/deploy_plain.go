package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
)

// DriverOptions are the network-dependent knobs shared by both deployment drivers
type DriverOptions struct {
	AllowUnlimitedContractSize bool
	ConfirmationTimeout        time.Duration
}

// PlainDeployer deploys a contract with its constructor arguments in a single transaction
type PlainDeployer struct {
	submitter *submitter
}

// NewPlainDeployer creates a plain deployment driver over transport
func NewPlainDeployer(transport Transport, progress ProgressSink, log *slog.Logger, opts DriverOptions) *PlainDeployer {
	return &PlainDeployer{
		submitter: newSubmitter(transport, progress, log, opts),
	}
}

// DeployPlain submits the creation transaction and waits for it to be mined.
// A non-nil error is always a *domain.DeploymentFailure.
func (d *PlainDeployer) DeployPlain(ctx context.Context, factory *ContractFactory, args []any) (*domain.DeploymentResult, error) {
	name := factory.Name()

	address, record, err := deployContract(ctx, d.submitter, name, name, domain.StageImplementationDeploy, factory, args)
	if err != nil {
		return nil, err
	}

	return &domain.DeploymentResult{
		Contract:        name,
		Address:         address.Hex(),
		TransactionHash: record.Hash,
		Kind:            domain.DeploymentKindPlain,
		Transactions:    []domain.TransactionRecord{*record},
	}, nil
}

// deployContract encodes and submits a creation transaction for factory
func deployContract(ctx context.Context, s *submitter, contract, label string, stage domain.Stage, factory *ContractFactory, args []any) (common.Address, *domain.TransactionRecord, error) {
	data, err := factory.DeployData(args)
	if err != nil {
		return common.Address{}, nil, domain.NewDeploymentFailure(contract, stage, fmt.Errorf("failed to encode constructor of %s: %w", factory.Name(), err))
	}

	receipt, record, err := s.submit(ctx, contract, label, stage, factory.Signer, TxRequest{Data: data})
	if err != nil {
		return common.Address{}, nil, err
	}

	if receipt.ContractAddress == (common.Address{}) {
		return common.Address{}, nil, domain.NewDeploymentFailure(contract, stage,
			fmt.Errorf("%w: receipt for %s has no contract address", domain.ErrTransaction, record.Hash))
	}

	return receipt.ContractAddress, record, nil
}
