package domain

import "time"

// Role enumerates the closed set of actor roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
)

// IsStaff reports whether the role grants staff-level access.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleAgent
}

// Valid reports whether the role belongs to the known set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// User models any actor in the system; the role decides what they may do.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CompanyID    *string
	Phone        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserDisplay is the subset of a user safe to embed in API responses,
// e.g. as the resolved sender of a chat message.
type UserDisplay struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Display projects the user onto its public fields.
func (u *User) Display() UserDisplay {
	return UserDisplay{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
