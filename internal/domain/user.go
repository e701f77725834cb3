package domain

import "time"

// Role determines the authorization scope of an account.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSupportAgent Role = "support_agent"
	RoleUser         Role = "user"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupportAgent, RoleUser:
		return true
	}
	return false
}

// User is the domain model for every account: end-users who submit
// tickets, support agents, and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
