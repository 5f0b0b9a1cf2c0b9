package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleContractor Role = "contractor"
)

type Profile struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Profession string
	Role       Role
	Balance    float64
	CreatedAt  time.Time
}

func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
