package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/marketpay/internal/model"
)

// LedgerStore is the transactional surface the payment operations run on.
// Implementations must report a missing or foreign row as ErrNotFound, a
// lost commit race as ErrConflict and any other storage failure as
// ErrStoreUnavailable. Inside Atomically the point reads must take row
// locks so that concurrent balance mutations for one profile serialize.
type LedgerStore interface {
	// Atomically runs fn inside a single transaction and rolls back
	// every write if fn returns an error.
	Atomically(ctx context.Context, fn func(tx LedgerStore) error) error

	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	// GetUnpaidJobForClient returns the job only when it is unpaid and
	// its contract belongs to the given client.
	GetUnpaidJobForClient(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, error)
	SumUnpaidForClient(ctx context.Context, clientID uuid.UUID) (float64, error)
	UpdateBalance(ctx context.Context, profileID uuid.UUID, balance float64) error
	MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) error
}

type ContractStore interface {
	// GetContractForProfile returns the contract only when the profile
	// is its client or contractor.
	GetContractForProfile(ctx context.Context, contractID, profileID uuid.UUID) (*model.Contract, error)
	ListContractsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error)
	ListUnpaidJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Job, error)
}

type ReportStore interface {
	ProfessionTotals(ctx context.Context, start, end time.Time) ([]model.ProfessionTotal, error)
	// ClientTotals returns client payment totals in descending order;
	// limit <= 0 means no limit.
	ClientTotals(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error)
	GetClient(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	ListPaidJobsForClient(ctx context.Context, clientID uuid.UUID, start, end time.Time) ([]model.StatementLine, error)
}
