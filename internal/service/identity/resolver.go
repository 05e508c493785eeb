package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/seunits/attendance-backend-go/internal/domain/employee"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
)

// Resolver maps request identifiers to canonical employees. Lookups run in a
// fixed order: employee id, then account id, then the authenticated caller.
// Accounts without an employee profile get one on first reference.
type Resolver struct {
	employees employee.EmployeeRepository
	users     user.UserRepository
}

func NewResolver(employees employee.EmployeeRepository, users user.UserRepository) *Resolver {
	return &Resolver{employees: employees, users: users}
}

// Resolve implements employee.IdentityResolver.
func (r *Resolver) Resolve(ctx context.Context, requestedID string, caller *user.Caller) (employee.Employee, error) {
	requestedID = strings.TrimSpace(requestedID)

	if requestedID != "" {
		emp, found, err := r.byRequestedID(ctx, requestedID)
		if err != nil || found {
			return emp, err
		}
		slog.Debug("Requested id matched no employee or account, using caller", "requested_id", requestedID)
	}

	if caller == nil || caller.UserID == "" {
		return employee.Employee{}, employee.ErrIdentityNotFound
	}
	if _, err := uuid.Parse(caller.UserID); err != nil {
		return employee.Employee{}, employee.ErrIdentityNotFound
	}

	account, err := r.users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return employee.Employee{}, employee.ErrIdentityNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to load caller account: %w", err)
	}
	return r.ensureFor(ctx, account)
}

// byRequestedID tries the id as an employee id and then as an account id.
// Ids that are not UUIDs cannot name either and are skipped.
func (r *Resolver) byRequestedID(ctx context.Context, id string) (employee.Employee, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, false, nil
	}

	emp, err := r.employees.GetByID(ctx, id)
	if err == nil {
		return emp, true, nil
	}
	if !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.Employee{}, false, fmt.Errorf("failed to look up employee: %w", err)
	}

	account, err := r.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return employee.Employee{}, false, nil
		}
		return employee.Employee{}, false, fmt.Errorf("failed to look up account: %w", err)
	}

	emp, err = r.ensureFor(ctx, account)
	return emp, err == nil, err
}

func (r *Resolver) ensureFor(ctx context.Context, account user.User) (employee.Employee, error) {
	role := string(account.Role)
	if role == "" {
		role = string(user.RoleEmployee)
	}
	emp, err := r.employees.EnsureByEmail(ctx, account.Name, account.Email, role)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to ensure employee profile: %w", err)
	}
	return emp, nil
}

var _ employee.IdentityResolver = (*Resolver)(nil)
