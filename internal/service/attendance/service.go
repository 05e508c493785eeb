package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/domain/employee"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
	"github.com/seunits/attendance-backend-go/internal/pkg/jwt"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	resolver employee.IdentityResolver
	store    *Store
	clock    *civil.Clock
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	resolver employee.IdentityResolver,
	clock *civil.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		resolver:             resolver,
		store:                NewStore(attendanceRepository, clock),
		clock:                clock,
	}
}

// callerFromContext returns the authenticated caller, or nil for anonymous contexts.
func callerFromContext(ctx context.Context) *user.Caller {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return nil
	}
	return &caller
}

// eventDay picks the partition day of an event: the requested day when given,
// otherwise the civil day of the event itself.
func (a *AttendanceServiceImpl) eventDay(raw string, at time.Time) (civil.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return a.clock.DayKey(at), nil
	}
	return a.clock.ResolveDay(raw)
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.resolver.Resolve(ctx, req.EmployeeID, callerFromContext(ctx))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	day, err := a.eventDay(req.Date, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.store.UpsertCheckIn(ctx, emp.ID, day, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance check-in recorded",
		"employee_id", emp.ID,
		"date", day.String(),
		"status", string(rec.Status),
		"check_in_time", derefString(rec.CheckInTime),
	)

	return toResponse(withEmployee(rec, emp)), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.resolver.Resolve(ctx, req.EmployeeID, callerFromContext(ctx))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	day, err := a.eventDay(req.Date, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.store.ApplyCheckOut(ctx, emp.ID, day, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance checkout recorded",
		"employee_id", emp.ID,
		"date", day.String(),
		"check_out_time", derefString(rec.CheckOutTime),
		"overtime_minutes", rec.OvertimeMinutes,
	)

	return toResponse(withEmployee(rec, emp)), nil
}

// DailySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DailySummary(ctx context.Context, req attendance.SummaryRequest) (attendance.DailySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DailySummaryResponse{}, err
	}

	day, err := a.clock.ResolveDay(req.Date)
	if err != nil {
		return attendance.DailySummaryResponse{}, err
	}

	records, err := a.AttendanceRepository.ListByDate(ctx, day)
	if err != nil {
		return attendance.DailySummaryResponse{}, fmt.Errorf("failed to list attendances for %s: %w", day, err)
	}

	records, err = a.enrich(ctx, records)
	if err != nil {
		return attendance.DailySummaryResponse{}, err
	}

	summary := Summarize(day, records)
	if summary.Unclassified > 0 {
		slog.Warn("Daily summary skipped records with unknown status",
			"date", day.String(),
			"count", summary.Unclassified,
		)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toResponse(rec))
	}

	return attendance.DailySummaryResponse{
		Date:    day,
		Summary: summary,
		Records: responses,
	}, nil
}

// ListEmployeeAttendance implements attendance.AttendanceService. Callers
// without the view-all permission may only list their own records.
func (a *AttendanceServiceImpl) ListEmployeeAttendance(ctx context.Context, req attendance.EmployeeAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	employeeID := strings.TrimSpace(req.EmployeeID)

	if caller := callerFromContext(ctx); caller != nil && !user.HasPermission(caller.Role, user.PermissionAttendanceViewAll) {
		own, err := a.resolver.Resolve(ctx, "", caller)
		if err != nil {
			return nil, err
		}
		if own.ID != employeeID {
			return nil, user.ErrInsufficientRole
		}
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances of employee %s: %w", employeeID, err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toResponse(a.store.BackfillStatus(ctx, rec)))
	}
	return responses, nil
}

// enrich attaches employee name and email to each record.
func (a *AttendanceServiceImpl) enrich(ctx context.Context, records []attendance.Attendance) ([]attendance.Attendance, error) {
	if len(records) == 0 {
		return records, nil
	}

	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.EmployeeID]; ok {
			continue
		}
		seen[rec.EmployeeID] = struct{}{}
		ids = append(ids, rec.EmployeeID)
	}

	employees, err := a.EmployeeRepository.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	out := make([]attendance.Attendance, len(records))
	for i, rec := range records {
		if emp, ok := byID[rec.EmployeeID]; ok {
			rec = withEmployee(rec, emp)
		}
		out[i] = rec
	}
	return out, nil
}

func withEmployee(rec attendance.Attendance, emp employee.Employee) attendance.Attendance {
	name, email := emp.Name, emp.Email
	rec.EmployeeName = &name
	rec.EmployeeEmail = &email
	return rec
}

func toResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		EmployeeName:    rec.EmployeeName,
		EmployeeEmail:   rec.EmployeeEmail,
		Date:            rec.WorkDate.String(),
		Status:          rec.Status,
		CheckInTime:     rec.CheckInTime,
		CheckOutTime:    rec.CheckOutTime,
		OvertimeMinutes: rec.OvertimeMinutes,
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.Format(time.RFC3339),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
