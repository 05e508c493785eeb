package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	// EnsureByEmail returns the employee registered under email, creating it
	// in the same statement when absent. Repeated calls yield the same id.
	EnsureByEmail(ctx context.Context, name, email, role string) (Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
}
