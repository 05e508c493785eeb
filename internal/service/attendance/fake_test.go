package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/domain/employee"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
)

type recordKey struct {
	employeeID string
	day        civil.Date
}

// memoryRepository is an in-memory attendance.AttendanceRepository with the
// same conditional-write contract as the real stores.
type memoryRepository struct {
	mu           sync.Mutex
	records      map[recordKey]attendance.Attendance
	seq          int
	casFailures  int // remaining CompareAndSwap calls forced to conflict
	backfillErr  error
	backfills    int
	createCalls  int
	conflictSeen int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{records: make(map[recordKey]attendance.Attendance)}
}

func (m *memoryRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, day civil.Date) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey{employeeID, day}]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (m *memoryRepository) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	key := recordKey{att.EmployeeID, att.WorkDate}
	if _, exists := m.records[key]; exists {
		m.conflictSeen++
		return attendance.Attendance{}, attendance.ErrStoreConflict
	}
	m.seq++
	att.ID = fmt.Sprintf("att-%d", m.seq)
	att.Version = 1
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	m.records[key] = att
	return att, nil
}

func (m *memoryRepository) CompareAndSwap(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := recordKey{att.EmployeeID, att.WorkDate}
	stored, ok := m.records[key]
	if m.casFailures > 0 {
		m.casFailures--
		m.conflictSeen++
		return attendance.Attendance{}, attendance.ErrStoreConflict
	}
	if !ok || stored.Version != att.Version {
		m.conflictSeen++
		return attendance.Attendance{}, attendance.ErrStoreConflict
	}
	att.Version++
	att.UpdatedAt = time.Now()
	m.records[key] = att
	return att, nil
}

func (m *memoryRepository) ListByEmployee(_ context.Context, employeeID string) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]attendance.Attendance, 0)
	for key, rec := range m.records {
		if key.employeeID == employeeID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, nil
}

func (m *memoryRepository) ListByDate(_ context.Context, day civil.Date) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]attendance.Attendance, 0)
	for key, rec := range m.records {
		if key.day == day {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *memoryRepository) BackfillStatus(_ context.Context, att attendance.Attendance, status attendance.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backfills++
	if m.backfillErr != nil {
		return m.backfillErr
	}
	key := recordKey{att.EmployeeID, att.WorkDate}
	stored, ok := m.records[key]
	if ok && stored.Status == "" {
		stored.Status = status
		stored.Version++
		m.records[key] = stored
	}
	return nil
}

// put stores a record as-is, for seeding legacy data.
func (m *memoryRepository) put(att attendance.Attendance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey{att.EmployeeID, att.WorkDate}] = att
}

type fakeEmployeeRepository struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepository) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepository) EnsureByEmail(ctx context.Context, name, email, role string) (employee.Employee, error) {
	return f.GetByEmail(ctx, email)
}

func (f *fakeEmployeeRepository) ListByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		if emp, ok := f.employees[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

// fakeResolver resolves every caller to the employee keyed by its user id and
// every requested id to the employee with that id.
type fakeResolver struct {
	employees map[string]employee.Employee
	byUser    map[string]string
}

func (f *fakeResolver) Resolve(_ context.Context, requestedID string, caller *user.Caller) (employee.Employee, error) {
	if emp, ok := f.employees[requestedID]; ok {
		return emp, nil
	}
	if caller != nil {
		if id, ok := f.byUser[caller.UserID]; ok {
			return f.employees[id], nil
		}
	}
	return employee.Employee{}, employee.ErrIdentityNotFound
}
