package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/marketpay/internal/model"
	"github.com/nurpe/marketpay/internal/service"
)

// ReportRepository implements service.ReportStore. All queries are plain
// reads over paid jobs; no locking is taken.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProfessionTotals groups paid jobs in the window by the contractor's
// profession. Groups come back ordered by their first payment in the
// window, which fixes the iteration order the best-profession tie rule
// depends on.
func (r *ReportRepository) ProfessionTotals(ctx context.Context, start, end time.Time) ([]model.ProfessionTotal, error) {
	var totals []model.ProfessionTotal
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.profession AS profession,
			SUM(j.price) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE
			AND j.payment_date >= ?
			AND j.payment_date <= ?
		GROUP BY p.profession
		ORDER BY MIN(j.payment_date) ASC
	`, start, end).Scan(&totals).Error
	if err != nil {
		return nil, translateError(err)
	}
	return totals, nil
}

func (r *ReportRepository) ClientTotals(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error) {
	query := `
		SELECT
			p.id AS id,
			p.first_name || ' ' || p.last_name AS full_name,
			SUM(j.price) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE
			AND j.payment_date >= ?
			AND j.payment_date <= ?
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY total DESC, full_name ASC
	`
	args := []interface{}{start, end}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var totals []model.ClientTotal
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&totals).Error; err != nil {
		return nil, translateError(err)
	}
	return totals, nil
}

func (r *ReportRepository) GetClient(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name, profession, role, balance, created_at
		FROM profiles
		WHERE id = ?
			AND role = 'client'
	`, id).Scan(&profile).Error
	if err != nil {
		return nil, translateError(err)
	}
	if profile.ID == uuid.Nil {
		return nil, service.ErrNotFound
	}
	return &profile, nil
}

func (r *ReportRepository) ListPaidJobsForClient(ctx context.Context, clientID uuid.UUID, start, end time.Time) ([]model.StatementLine, error) {
	var lines []model.StatementLine
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id AS job_id,
			j.description AS description,
			p.first_name || ' ' || p.last_name AS contractor_name,
			j.price AS price,
			j.payment_date AS paid_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE c.client_id = ?
			AND j.paid = TRUE
			AND j.payment_date >= ?
			AND j.payment_date <= ?
		ORDER BY j.payment_date ASC
	`, clientID, start, end).Scan(&lines).Error
	if err != nil {
		return nil, translateError(err)
	}
	return lines, nil
}
