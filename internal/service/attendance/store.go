package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
)

// maxConflictRetries bounds how often a write that lost a race is re-read and
// re-applied before ErrStoreConflict reaches the caller.
const maxConflictRetries = 8

// Store applies attendance events to the single (employee, day) record. Every
// write goes through one conditional repository primitive, Create or
// CompareAndSwap, so concurrent writers can never produce a second record.
// A lost race is resolved by re-reading and re-applying the event: the last
// committed status wins and the first admitted check-in time is kept.
type Store struct {
	repo  attendance.AttendanceRepository
	clock *civil.Clock
}

func NewStore(repo attendance.AttendanceRepository, clock *civil.Clock) *Store {
	return &Store{repo: repo, clock: clock}
}

// UpsertCheckIn records a check-in at instant at on the given day.
func (s *Store) UpsertCheckIn(ctx context.Context, employeeID string, day civil.Date, at time.Time) (attendance.Attendance, error) {
	m := s.clock.TimeOfDayMinutes(at)
	if err := attendance.CheckInAdmitted(m); err != nil {
		return attendance.Attendance{}, err
	}
	checkInTime := s.clock.TimeString(at)

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		current, err := s.repo.GetByEmployeeAndDate(ctx, employeeID, day)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			created, err := s.repo.Create(ctx, attendance.NewCheckIn(employeeID, day, checkInTime, m))
			if errors.Is(err, attendance.ErrStoreConflict) {
				continue
			}
			return created, err
		}
		if err != nil {
			return attendance.Attendance{}, err
		}

		next, err := current.WithCheckIn(checkInTime, m)
		if err != nil {
			return attendance.Attendance{}, err
		}
		updated, err := s.repo.CompareAndSwap(ctx, next)
		if errors.Is(err, attendance.ErrStoreConflict) {
			continue
		}
		return updated, err
	}

	slog.Warn("Attendance check-in conflict retries exhausted",
		"employee_id", employeeID,
		"date", day.String(),
		"attempts", maxConflictRetries,
	)
	return attendance.Attendance{}, attendance.ErrStoreConflict
}

// ApplyCheckOut records the single checkout of the day.
func (s *Store) ApplyCheckOut(ctx context.Context, employeeID string, day civil.Date, at time.Time) (attendance.Attendance, error) {
	m := s.clock.TimeOfDayMinutes(at)
	if err := attendance.CheckOutAdmitted(m); err != nil {
		return attendance.Attendance{}, err
	}
	checkOutTime := s.clock.TimeString(at)

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		current, err := s.repo.GetByEmployeeAndDate(ctx, employeeID, day)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrNoCheckInFound
		}
		if err != nil {
			return attendance.Attendance{}, err
		}

		next, err := current.WithCheckOut(checkOutTime, m)
		if err != nil {
			return attendance.Attendance{}, err
		}
		updated, err := s.repo.CompareAndSwap(ctx, next)
		if errors.Is(err, attendance.ErrStoreConflict) {
			continue
		}
		return updated, err
	}

	slog.Warn("Attendance checkout conflict retries exhausted",
		"employee_id", employeeID,
		"date", day.String(),
		"attempts", maxConflictRetries,
	)
	return attendance.Attendance{}, attendance.ErrStoreConflict
}

// BackfillStatus classifies a legacy record that has no status. The derived
// status is returned even when persisting it fails; the next read derives the
// same value again.
func (s *Store) BackfillStatus(ctx context.Context, rec attendance.Attendance) attendance.Attendance {
	if rec.Status != "" {
		return rec
	}

	status := attendance.BackfillStatus(rec.CheckInTime)
	if err := s.repo.BackfillStatus(ctx, rec, status); err != nil {
		slog.Warn("Failed to persist backfilled attendance status",
			"attendance_id", rec.ID,
			"status", string(status),
			"error", err,
		)
	}
	rec.Status = status
	return rec
}
