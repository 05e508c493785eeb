package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrPolicyViolation   = errors.New("outside the admitted attendance window")
	ErrCheckInTooEarly   = fmt.Errorf("%w: check-in allowed after 7:00 AM", ErrPolicyViolation)
	ErrCheckInTooLate    = fmt.Errorf("%w: check-in disabled after 9:00 PM", ErrPolicyViolation)
	ErrCheckOutTooEarly  = fmt.Errorf("%w: checkout allowed after 7:00 PM", ErrPolicyViolation)
	ErrCheckOutTooLate   = fmt.Errorf("%w: checkout disabled after 9:00 PM", ErrPolicyViolation)
	ErrNoCheckInFound    = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut = errors.New("already checked out")

	// ErrStoreConflict reports a lost race on the (employee, day) record. The
	// store retries it internally and only surfaces it once retries run out.
	ErrStoreConflict      = errors.New("attendance record changed concurrently")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
