package model

import (
	"time"

	"github.com/google/uuid"
)

// Job is a billable unit of work under a contract. Paid is NULL until the
// job has been paid, so a freshly created job never collides with an
// explicit "not paid" state written by a rolled-back payment.
type Job struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Description string
	Price       float64
	Paid        *bool
	PaymentDate *time.Time
	CreatedAt   time.Time
}

func (j *Job) IsPaid() bool {
	return j.Paid != nil && *j.Paid
}
