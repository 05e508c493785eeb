package attendance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
	"github.com/seunits/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckInRequest marks the caller (or the given employee/account) present.
// Date only selects the partition day; the time of day is always the server's.
type CheckInRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
}

func (r *CheckInRequest) Validate() error {
	return validateEventRequest(r.EmployeeID, r.Date)
}

type CheckOutRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
}

func (r *CheckOutRequest) Validate() error {
	return validateEventRequest(r.EmployeeID, r.Date)
}

func validateEventRequest(employeeID, date string) error {
	var errs validator.ValidationErrors

	if len(employeeID) > 64 {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId must not exceed 64 characters",
		})
	}

	if date != "" && !validator.IsValidDayOrInstant(date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD or an RFC3339 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryRequest struct {
	Date string
}

func (r *SummaryRequest) Validate() error {
	if r.Date != "" && !validator.IsValidDayOrInstant(r.Date) {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be YYYY-MM-DD or an RFC3339 timestamp",
		}}
	}
	return nil
}

type EmployeeAttendanceRequest struct {
	EmployeeID string
}

func (r *EmployeeAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId is required",
		})
	} else if _, err := uuid.Parse(strings.TrimSpace(r.EmployeeID)); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "employeeId",
			Message: "employeeId must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employeeId"`
	EmployeeName    *string `json:"employeeName,omitempty"`
	EmployeeEmail   *string `json:"employeeEmail,omitempty"`
	Date            string  `json:"date"`
	Status          Status  `json:"status"`
	CheckInTime     *string `json:"checkInTime"`
	CheckOutTime    *string `json:"checkOutTime"`
	OvertimeMinutes int     `json:"overtimeMinutes"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// Summary holds the per-status counts of a day. Unclassified counts records
// whose status is outside the three known values; they are never coerced.
type Summary struct {
	Present      int `json:"Present"`
	Late         int `json:"Late"`
	Absent       int `json:"Absent"`
	Unclassified int `json:"-"`
}

type DailySummaryResponse struct {
	Date    civil.Date           `json:"date"`
	Summary Summary              `json:"summary"`
	Records []AttendanceResponse `json:"records"`
}
