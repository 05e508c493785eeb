package attendance

import "github.com/seunits/attendance-backend-go/internal/pkg/civil"

// Policy boundaries, in minutes since local midnight.
const (
	CheckInOpensAt   = 7 * 60  // 07:00
	LateAfter        = 11 * 60 // 11:00
	CheckOutOpensAt  = 19 * 60 // 19:00
	OvertimeCutoff   = 20 * 60 // 20:00
	AttendanceClosed = 21 * 60 // 21:00, last admitted minute for both events
)

// CheckInAdmitted returns nil when a check-in at minute m is inside 07:00–21:00.
func CheckInAdmitted(m int) error {
	switch {
	case m < CheckInOpensAt:
		return ErrCheckInTooEarly
	case m > AttendanceClosed:
		return ErrCheckInTooLate
	}
	return nil
}

// DeriveStatus classifies a check-in: anything after 11:00 is late.
func DeriveStatus(m int) Status {
	if m > LateAfter {
		return StatusLate
	}
	return StatusPresent
}

// CheckOutAdmitted returns nil when a checkout at minute m is inside 19:00–21:00.
func CheckOutAdmitted(m int) error {
	switch {
	case m < CheckOutOpensAt:
		return ErrCheckOutTooEarly
	case m > AttendanceClosed:
		return ErrCheckOutTooLate
	}
	return nil
}

// OvertimeMinutes counts the minutes worked between 19:00 and 20:00, capped at 60.
func OvertimeMinutes(m int) int {
	return max(0, min(m, OvertimeCutoff)-CheckOutOpensAt)
}

// BackfillStatus derives a status for a legacy record from its check-in time alone.
func BackfillStatus(checkInTime *string) Status {
	if checkInTime == nil || *checkInTime == "" {
		return StatusAbsent
	}
	m, err := civil.ParseTimeOfDay(*checkInTime)
	if err != nil {
		return StatusAbsent
	}
	return DeriveStatus(m)
}
