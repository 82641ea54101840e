package entity

import "github.com/google/uuid"

// Principal is the request identity, refreshed from the users table on
// every authenticated request.
type Principal struct {
	UserID      uuid.UUID
	Email       string
	Name        string
	Image       string
	Phone       *string
	Role        Role
	IsOnboarded bool
	TokenID     string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Principal) IsDoctor() bool {
	return p != nil && p.Role == RoleDoctor
}

// AccessState is the per-request authorization classification
type AccessState int

const (
	StateUnauthenticated AccessState = iota
	StateNotOnboarded
	StateOnboardedPatient
	StateOnboardedDoctor
	StateOnboardedAdmin
)

func (s AccessState) String() string {
	switch s {
	case StateNotOnboarded:
		return "AuthenticatedNotOnboarded"
	case StateOnboardedPatient:
		return "AuthenticatedOnboardedPatient"
	case StateOnboardedDoctor:
		return "AuthenticatedOnboardedDoctor"
	case StateOnboardedAdmin:
		return "AuthenticatedOnboardedAdmin"
	default:
		return "Unauthenticated"
	}
}

// ClassifyState maps a principal (nil when unauthenticated) to its access state
func ClassifyState(p *Principal) AccessState {
	if p == nil {
		return StateUnauthenticated
	}
	if !p.IsOnboarded {
		return StateNotOnboarded
	}
	switch p.Role {
	case RoleAdmin:
		return StateOnboardedAdmin
	case RoleDoctor:
		return StateOnboardedDoctor
	default:
		return StateOnboardedPatient
	}
}
