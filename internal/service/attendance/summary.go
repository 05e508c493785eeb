package attendance

import (
	"log/slog"

	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
)

// Summarize counts the records of day per status. Every bucket starts at zero.
// Records with a status outside Present, Late and Absent are counted as
// Unclassified and logged, never folded into a known bucket. Records that
// belong to another day are ignored.
func Summarize(day civil.Date, records []attendance.Attendance) attendance.Summary {
	summary := attendance.Summary{}

	for _, rec := range records {
		if rec.WorkDate != day {
			continue
		}
		switch rec.Status {
		case attendance.StatusPresent:
			summary.Present++
		case attendance.StatusLate:
			summary.Late++
		case attendance.StatusAbsent:
			summary.Absent++
		default:
			summary.Unclassified++
			slog.Warn("Attendance record has unknown status",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"date", day.String(),
				"status", string(rec.Status),
			)
		}
	}

	return summary
}
