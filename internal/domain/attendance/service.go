package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn creates or refreshes the caller's record for the day
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the day's record
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// DailySummary counts the day's records per status (admin)
	DailySummary(ctx context.Context, req SummaryRequest) (DailySummaryResponse, error)

	// ListEmployeeAttendance lists an employee's records, backfilling missing statuses
	ListEmployeeAttendance(ctx context.Context, req EmployeeAttendanceRequest) ([]AttendanceResponse, error)
}
