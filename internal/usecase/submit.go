package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/treb-deployer/internal/domain"
)

// submitter signs, sends and confirms one transaction at a time
type submitter struct {
	transport           Transport
	progress            ProgressSink
	log                 *slog.Logger
	allowUnlimited      bool
	confirmationTimeout time.Duration
}

func newSubmitter(transport Transport, progress ProgressSink, log *slog.Logger, opts DriverOptions) *submitter {
	if progress == nil {
		progress = NopProgress{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &submitter{
		transport:           transport,
		progress:            progress,
		log:                 log,
		allowUnlimited:      opts.AllowUnlimitedContractSize,
		confirmationTimeout: opts.ConfirmationTimeout,
	}
}

// submit sends req and blocks until it is mined. Failures before the receipt is
// requested are attributed to stage; failures while waiting to StageConfirmation.
func (s *submitter) submit(ctx context.Context, contract, label string, stage domain.Stage, signer Signer, req TxRequest) (*types.Receipt, *domain.TransactionRecord, error) {
	fail := func(st domain.Stage, err error) (*types.Receipt, *domain.TransactionRecord, error) {
		s.progress.Error(fmt.Sprintf("%s: %v", label, err))
		return nil, nil, domain.NewDeploymentFailure(contract, st, err)
	}

	if req.To == nil && !s.allowUnlimited && len(req.Data) > params.MaxInitCodeSize {
		return fail(stage, fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrContractTooLarge, len(req.Data), params.MaxInitCodeSize))
	}

	s.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(stage),
		Message: fmt.Sprintf("Submitting %s", label),
		Spinner: true,
	})

	tx, err := signer.SignTransaction(ctx, req)
	if err != nil {
		return fail(stage, err)
	}

	if err := s.transport.SendTransaction(ctx, tx); err != nil {
		return fail(stage, err)
	}
	s.log.Debug("transaction sent", "label", label, "hash", tx.Hash().Hex(), "nonce", tx.Nonce())

	s.progress.OnProgress(ctx, ProgressEvent{
		Stage:   string(domain.StageConfirmation),
		Message: fmt.Sprintf("Waiting for %s (%s)", label, tx.Hash().Hex()),
		Spinner: true,
	})

	waitCtx := ctx
	if s.confirmationTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.confirmationTimeout)
		defer cancel()
	}

	receipt, err := s.transport.WaitForReceipt(waitCtx, tx.Hash())
	if err != nil {
		return fail(domain.StageConfirmation, fmt.Errorf("transaction %s: %w", tx.Hash().Hex(), err))
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return fail(stage, fmt.Errorf("transaction %s: %w", tx.Hash().Hex(), domain.ErrTransactionReverted))
	}

	record := &domain.TransactionRecord{
		Label:             label,
		Hash:              tx.Hash().Hex(),
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
	}
	if receipt.BlockNumber != nil {
		record.BlockNumber = receipt.BlockNumber.Uint64()
	}

	s.log.Debug("transaction confirmed", "label", label, "hash", record.Hash, "block", record.BlockNumber, "gasUsed", record.GasUsed)
	s.progress.Info(fmt.Sprintf("%s confirmed in block %d", label, record.BlockNumber))

	return receipt, record, nil
}
