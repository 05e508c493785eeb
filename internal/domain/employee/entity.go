package employee

import (
	"strings"
	"time"
)

// Employee is the canonical attendance subject. Every attendance record
// references an employee id, never an account id.
type Employee struct {
	ID        string
	Name      string
	Email     string
	Role      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
