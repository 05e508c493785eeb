package attendance

import (
	"context"

	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
)

// AttendanceRepository is the persistence boundary of the attendance store.
// Writes are single conditional operations; implementations must never turn a
// lost race into a second row.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, day civil.Date) (Attendance, error)

	// Create inserts a new record with version 1. A record that already exists
	// for (employee, day) yields ErrStoreConflict.
	Create(ctx context.Context, newAttendance Attendance) (Attendance, error)

	// CompareAndSwap replaces the record only if its stored version still
	// equals att.Version, bumping the version. A stale version yields ErrStoreConflict.
	CompareAndSwap(ctx context.Context, att Attendance) (Attendance, error)

	// ListByEmployee returns all records of an employee ordered by date ascending.
	ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)

	// ListByDate returns all records of a civil day.
	ListByDate(ctx context.Context, day civil.Date) ([]Attendance, error)

	// BackfillStatus stores status on att only while the stored status is still empty.
	BackfillStatus(ctx context.Context, att Attendance, status Status) error
}
