package dynamodb

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *AttendanceRepository {
	t.Helper()

	endpoint := os.Getenv("TEST_DYNAMO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_DYNAMO_ENDPOINT not set")
	}

	repo, err := NewAttendanceRepository(context.Background(), Config{
		Mode:            ModeLocal,
		Endpoint:        endpoint,
		Region:          "ap-south-1",
		AttendanceTable: "attendance-test-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)
	return repo
}

func TestAttendanceRepository_CreateAndCompareAndSwap(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	employeeID := uuid.NewString()
	day := civil.Date{Year: 2024, Month: time.May, Day: 6}

	created, err := repo.Create(ctx, attendance.NewCheckIn(employeeID, day, "09:00:00", 540))
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, attendance.NewCheckIn(employeeID, day, "09:01:00", 541))
	assert.ErrorIs(t, err, attendance.ErrStoreConflict)

	next, err := created.WithCheckIn("11:05:00", 665)
	require.NoError(t, err)
	swapped, err := repo.CompareAndSwap(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, 2, swapped.Version)

	_, err = repo.CompareAndSwap(ctx, next)
	assert.ErrorIs(t, err, attendance.ErrStoreConflict)

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, got.Status)
	assert.Equal(t, "09:00:00", *got.CheckInTime)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByEmployeeAndDate(ctx, employeeID, day.AddDays(1))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ConcurrentCreate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	employeeID := uuid.NewString()
	day := civil.Date{Year: 2024, Month: time.May, Day: 7}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(ctx, attendance.NewCheckIn(employeeID, day, "08:00:00", 480)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestAttendanceRepository_ListsAndBackfill(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()
	d1 := civil.Date{Year: 2024, Month: time.June, Day: 1}
	d2 := d1.AddDays(1)

	_, err := repo.Create(ctx, attendance.NewCheckIn(a, d2, "09:00:00", 540))
	require.NoError(t, err)
	legacyTime := "12:30"
	legacy, err := repo.Create(ctx, attendance.Attendance{EmployeeID: a, WorkDate: d1, CheckInTime: &legacyTime})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.NewCheckIn(b, d2, "11:30:00", 690))
	require.NoError(t, err)

	mine, err := repo.ListByEmployee(ctx, a)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, d1, mine[0].WorkDate)
	assert.Equal(t, d2, mine[1].WorkDate)

	day, err := repo.ListByDate(ctx, d2)
	require.NoError(t, err)
	assert.Len(t, day, 2)

	require.NoError(t, repo.BackfillStatus(ctx, legacy, attendance.StatusLate))
	require.NoError(t, repo.BackfillStatus(ctx, legacy, attendance.StatusPresent))

	got, err := repo.GetByEmployeeAndDate(ctx, a, d1)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, got.Status)
	assert.Equal(t, 2, got.Version)
}

func TestItemConversion(t *testing.T) {
	in := "07:30:00"
	att := attendance.Attendance{
		ID:          "id-1",
		EmployeeID:  "emp-1",
		WorkDate:    civil.Date{Year: 2025, Month: time.January, Day: 9},
		Status:      attendance.StatusPresent,
		CheckInTime: &in,
		Version:     3,
	}

	item := toItem(att)
	assert.Equal(t, "2025-01-09", item.WorkDate)

	back, err := item.toAttendance()
	require.NoError(t, err)
	assert.Equal(t, att, back)

	item.WorkDate = "not-a-date"
	_, err = item.toAttendance()
	assert.Error(t, err)
}
