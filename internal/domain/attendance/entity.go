package attendance

import (
	"time"

	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusAbsent  Status = "Absent"
)

// IsKnown reports whether s is one of the three recorded statuses.
func (s Status) IsKnown() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Attendance is the single record of an employee on a civil day.
type Attendance struct {
	ID              string
	EmployeeID      string
	WorkDate        civil.Date
	Status          Status // empty only on legacy rows awaiting backfill
	CheckInTime     *string
	CheckOutTime    *string
	OvertimeMinutes int
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName  *string
	EmployeeEmail *string
}

func (a Attendance) HasCheckedIn() bool {
	return a.CheckInTime != nil && *a.CheckInTime != ""
}

func (a Attendance) HasCheckedOut() bool {
	return a.CheckOutTime != nil && *a.CheckOutTime != ""
}

// NewCheckIn builds the record created by the first admitted check-in of a day.
func NewCheckIn(employeeID string, day civil.Date, checkInTime string, m int) Attendance {
	return Attendance{
		EmployeeID:  employeeID,
		WorkDate:    day,
		Status:      DeriveStatus(m),
		CheckInTime: &checkInTime,
	}
}

// WithCheckIn applies a repeated admitted check-in to an existing record. The
// status is always refreshed; the check-in time only moves when it is missing
// or when an early (pre 07:00) time is corrected by an admitted one.
func (a Attendance) WithCheckIn(checkInTime string, m int) (Attendance, error) {
	if a.HasCheckedOut() {
		return a, ErrAlreadyCheckedOut
	}

	a.Status = DeriveStatus(m)
	if !a.HasCheckedIn() {
		a.CheckInTime = &checkInTime
		return a, nil
	}

	existing, err := civil.ParseTimeOfDay(*a.CheckInTime)
	if err != nil {
		// An unreadable stored time cannot be a valid check-in.
		a.CheckInTime = &checkInTime
		return a, nil
	}
	if existing < CheckInOpensAt && m >= CheckInOpensAt {
		a.CheckInTime = &checkInTime
	}
	return a, nil
}

// WithCheckOut sets the single checkout of the record.
func (a Attendance) WithCheckOut(checkOutTime string, m int) (Attendance, error) {
	if !a.HasCheckedIn() {
		return a, ErrNoCheckInFound
	}
	if a.HasCheckedOut() {
		return a, ErrAlreadyCheckedOut
	}
	a.CheckOutTime = &checkOutTime
	a.OvertimeMinutes = OvertimeMinutes(m)
	return a, nil
}
