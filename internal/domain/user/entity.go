package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Sees daily summaries of every employee
	RoleEmployee Role = "employee" // Records own attendance
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	LastLoginAt  *time.Time
	LastLogoutAt *time.Time
	LoginCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Caller is the authenticated principal of a request as read from its access token.
type Caller struct {
	UserID string
	Role   Role
	Name   string
}
