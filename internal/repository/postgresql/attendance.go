package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
	"github.com/seunits/attendance-backend-go/internal/pkg/database"
)

const attendanceColumns = `
	id, employee_id, work_date, status, check_in_time, check_out_time,
	overtime_minutes, version, created_at, updated_at
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// dateParam encodes a civil day for a DATE column. pgx reads the Y/M/D of the
// value in its own location, so UTC midnight maps to the same day.
func dateParam(d civil.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att      attendance.Attendance
		workDate time.Time
		status   *string
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &workDate, &status, &att.CheckInTime, &att.CheckOutTime,
		&att.OvertimeMinutes, &att.Version, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.WorkDate = civil.DateOf(workDate)
	if status != nil {
		att.Status = attendance.Status(*status)
	}
	return att, nil
}

func nullableStatus(s attendance.Status) *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, day civil.Date) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND work_date = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, dateParam(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, work_date, status, check_in_time, check_out_time, overtime_minutes, version
		) VALUES ($1, $2, $3, $4, $5, $6, 1)
		ON CONFLICT ON CONSTRAINT attendances_employee_day_key DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		dateParam(newAttendance.WorkDate),
		nullableStatus(newAttendance.Status),
		newAttendance.CheckInTime,
		newAttendance.CheckOutTime,
		newAttendance.OvertimeMinutes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrStoreConflict
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// CompareAndSwap implements attendance.AttendanceRepository.
func (a *attendanceRepository) CompareAndSwap(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET status = $3,
			check_in_time = $4,
			check_out_time = $5,
			overtime_minutes = $6,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		att.ID,
		att.Version,
		nullableStatus(att.Status),
		att.CheckInTime,
		att.CheckOutTime,
		att.OvertimeMinutes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrStoreConflict
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance %s: %w", att.ID, err)
	}
	return updated, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		ORDER BY work_date ASC
	`
	return a.list(ctx, query, employeeID)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, day civil.Date) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE work_date = $1
		ORDER BY check_in_time ASC NULLS LAST, created_at ASC
	`
	return a.list(ctx, query, dateParam(day))
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

// BackfillStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) BackfillStatus(ctx context.Context, att attendance.Attendance, status attendance.Status) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status IS NULL
	`
	if _, err := q.Exec(ctx, query, att.ID, string(status)); err != nil {
		return fmt.Errorf("failed to backfill status of attendance %s: %w", att.ID, err)
	}
	return nil
}
