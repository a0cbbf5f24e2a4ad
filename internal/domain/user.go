package domain

import "time"

// Role enumerates access levels for accounts.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the domain model for registered accounts. Role is assigned at
// registration and never changes afterwards.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Caller identifies the authenticated subject a manager method acts for.
// Service methods that need authorization receive one explicitly.
type Caller struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
