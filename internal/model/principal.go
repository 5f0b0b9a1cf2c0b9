package model

import "github.com/google/uuid"

// RoleAdmin only exists in access tokens, never on a profile row.
const RoleAdmin = "admin"

type Principal struct {
	ProfileID uuid.UUID
	Role      string
}

func (p Principal) IsClient() bool {
	return p.Role == string(RoleClient)
}

func (p Principal) IsContractor() bool {
	return p.Role == string(RoleContractor)
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
