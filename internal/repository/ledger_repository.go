package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/marketpay/internal/model"
	"github.com/nurpe/marketpay/internal/service"
)

// LedgerRepository implements service.LedgerStore and
// service.ContractStore on top of postgres. Instances handed to an
// Atomically callback are bound to the transaction and append FOR UPDATE
// to their point reads, so the balance read-check-write sequences of
// concurrent payments against one profile serialize on the row lock.
type LedgerRepository struct {
	db      *gorm.DB
	locking bool
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Atomically(ctx context.Context, fn func(tx service.LedgerStore) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{db: tx, locking: true})
	})
	return translateError(err)
}

func (r *LedgerRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, first_name, last_name, profession, role, balance, created_at
		FROM profiles
		WHERE id = ?
	`
	if r.locking {
		query += " FOR UPDATE"
	}

	var profile model.Profile
	if err := r.db.WithContext(ctx).Raw(query, id).Scan(&profile).Error; err != nil {
		return nil, translateError(err)
	}
	if profile.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &profile, nil
}

func (r *LedgerRepository) GetUnpaidJobForClient(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, error) {
	query := `
		SELECT j.id, j.contract_id, j.description, j.price, j.paid, j.payment_date, j.created_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = ?
			AND c.client_id = ?
			AND j.paid IS NOT TRUE
	`
	if r.locking {
		query += " FOR UPDATE OF j"
	}

	var job model.Job
	if err := r.db.WithContext(ctx).Raw(query, jobID, clientID).Scan(&job).Error; err != nil {
		return nil, translateError(err)
	}
	if job.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &job, nil
}

func (r *LedgerRepository) SumUnpaidForClient(ctx context.Context, clientID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(j.price), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = ?
			AND j.paid IS NOT TRUE
	`, clientID).Scan(&total).Error
	if err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func (r *LedgerRepository) UpdateBalance(ctx context.Context, profileID uuid.UUID, balance float64) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE profiles SET balance = ? WHERE id = ?
	`, balance, profileID)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (r *LedgerRepository) MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE jobs SET paid = TRUE, payment_date = ? WHERE id = ? AND paid IS NOT TRUE
	`, paidAt, jobID)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

func (r *LedgerRepository) GetContractForProfile(ctx context.Context, contractID, profileID uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, contractor_id, terms, status, created_at
		FROM contracts
		WHERE id = ?
			AND (client_id = ? OR contractor_id = ?)
	`, contractID, profileID, profileID).Scan(&contract).Error
	if err != nil {
		return nil, translateError(err)
	}
	if contract.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &contract, nil
}

func (r *LedgerRepository) ListContractsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, contractor_id, terms, status, created_at
		FROM contracts
		WHERE (client_id = ? OR contractor_id = ?)
			AND status <> 'terminated'
		ORDER BY created_at ASC
	`, profileID, profileID).Scan(&contracts).Error
	if err != nil {
		return nil, translateError(err)
	}
	return contracts, nil
}

func (r *LedgerRepository) ListUnpaidJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).Raw(`
		SELECT j.id, j.contract_id, j.description, j.price, j.paid, j.payment_date, j.created_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE (c.client_id = ? OR c.contractor_id = ?)
			AND c.status = 'in_progress'
			AND j.paid IS NOT TRUE
		ORDER BY j.created_at ASC
	`, profileID, profileID).Scan(&jobs).Error
	if err != nil {
		return nil, translateError(err)
	}
	return jobs, nil
}
