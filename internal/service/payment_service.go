package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/marketpay/internal/config"
	"github.com/nurpe/marketpay/internal/model"
)

// PaymentService moves money between a client's balance and their jobs.
// Every mutating operation runs as one transaction against the store, so
// a failure on any step leaves nothing committed.
type PaymentService struct {
	store    LedgerStore
	capRatio float64
}

func NewPaymentService(store LedgerStore, cfg *config.Config) *PaymentService {
	return &PaymentService{
		store:    store,
		capRatio: cfg.Ledger.DepositCapRatio,
	}
}

type PayJobInput struct {
	CallerID uuid.UUID
	JobID    uuid.UUID
}

type PayJobResult struct {
	Job     model.Job
	Balance float64
}

// PayJob debits the caller's balance by the job price and marks the job
// paid. The job must be unpaid and belong to one of the caller's
// contracts; anything else is reported as ErrNotFound so a caller cannot
// probe jobs that are not theirs.
func (s *PaymentService) PayJob(ctx context.Context, input PayJobInput) (*PayJobResult, error) {
	if input.CallerID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller id is required", ErrInvalidInput)
	}
	if input.JobID == uuid.Nil {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidInput)
	}

	var result *PayJobResult
	err := s.store.Atomically(ctx, func(tx LedgerStore) error {
		job, err := tx.GetUnpaidJobForClient(ctx, input.JobID, input.CallerID)
		if err != nil {
			return err
		}

		profile, err := tx.GetProfile(ctx, input.CallerID)
		if err != nil {
			return err
		}

		if job.Price > profile.Balance {
			return fmt.Errorf("%w: balance %.2f is below job price %.2f", ErrInsufficientFunds, profile.Balance, job.Price)
		}

		balance := profile.Balance - job.Price
		if err := tx.UpdateBalance(ctx, profile.ID, balance); err != nil {
			return err
		}

		paidAt := time.Now().UTC()
		if err := tx.MarkJobPaid(ctx, job.ID, paidAt); err != nil {
			return err
		}

		paid := true
		job.Paid = &paid
		job.PaymentDate = &paidAt
		result = &PayJobResult{Job: *job, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type DepositInput struct {
	ClientID uuid.UUID
	Amount   float64
}

type DepositResult struct {
	Balance float64
}

// Deposit credits the client's balance. The amount is admitted only up
// to a configured share of the client's outstanding unpaid total; with
// nothing outstanding every positive deposit is rejected. The cap
// computation and the credit share one transaction, so the outstanding
// total cannot move between the check and the write.
func (s *PaymentService) Deposit(ctx context.Context, input DepositInput) (*DepositResult, error) {
	if input.ClientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	var result *DepositResult
	err := s.store.Atomically(ctx, func(tx LedgerStore) error {
		profile, err := tx.GetProfile(ctx, input.ClientID)
		if err != nil {
			return err
		}

		outstanding, err := tx.SumUnpaidForClient(ctx, input.ClientID)
		if err != nil {
			return err
		}

		admissible := s.capRatio * outstanding
		if input.Amount > admissible {
			return fmt.Errorf("%w: amount %.2f exceeds cap %.2f", ErrDepositCapExceeded, input.Amount, admissible)
		}

		balance := profile.Balance + input.Amount
		if err := tx.UpdateBalance(ctx, profile.ID, balance); err != nil {
			return err
		}

		result = &DepositResult{Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
