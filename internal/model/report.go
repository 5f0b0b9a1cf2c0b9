package model

import (
	"time"

	"github.com/google/uuid"
)

type ProfessionTotal struct {
	Profession string
	Total      float64
}

type ClientTotal struct {
	ID       uuid.UUID
	FullName string
	Total    float64
}

type PaymentsReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Professions []ProfessionTotal
	Clients     []ClientTotal
}

type StatementLine struct {
	JobID          uuid.UUID
	Description    string
	ContractorName string
	Price          float64
	PaidAt         time.Time
}

type Statement struct {
	Client      Profile
	PeriodStart time.Time
	PeriodEnd   time.Time
	Lines       []StatementLine
	TotalPaid   float64
}
