package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/seunits/attendance-backend-go/internal/domain/employee"
	"github.com/seunits/attendance-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.Role,
		&emp.Status,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, name, email, role, status, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}
	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, name, email, role, status, created_at, updated_at
		FROM employees
		WHERE email = $1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, employee.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return emp, nil
}

// EnsureByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) EnsureByEmail(ctx context.Context, name, email, role string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	email = employee.NormalizeEmail(email)
	if email == "" {
		return employee.Employee{}, employee.ErrEmailRequired
	}
	if role == "" {
		role = "employee"
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO employees (name, email, role, status)
		VALUES ($1, $2, $3, 'Active')
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, name, email, role, status, created_at, updated_at
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, name, email, role))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to ensure employee for %s: %w", email, err)
	}
	return emp, nil
}

// ListByIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return []employee.Employee{}, nil
	}

	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, name, email, role, status, created_at, updated_at
		FROM employees
		WHERE id = ANY($1::text[]::uuid[])
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0, len(ids))
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}
