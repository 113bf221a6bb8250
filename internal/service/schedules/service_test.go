package schedules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarakram/bookly/internal/domain"
	catalogRepo "github.com/anwarakram/bookly/internal/infra/storage/catalog"
	"github.com/anwarakram/bookly/internal/service/schedules/models"
)

type fakeScheduleRepo struct {
	stored   []domain.WorkingSchedule
	replaced []domain.WorkingSchedule
}

func (f *fakeScheduleRepo) FindForStaffOnDate(_ context.Context, _, _ int64, _ time.Time) ([]domain.WorkingSchedule, error) {
	return f.stored, nil
}

func (f *fakeScheduleRepo) ReplaceForStaffOnDate(_ context.Context, _, _ int64, _ time.Time, intervals []domain.WorkingSchedule) ([]domain.WorkingSchedule, error) {
	f.replaced = intervals
	out := make([]domain.WorkingSchedule, len(intervals))
	copy(out, intervals)
	for i := range out {
		out[i].ID = int64(i + 1)
	}
	f.stored = out
	return out, nil
}

type fakeCatalogRepo struct {
	staff map[int64]*domain.StaffMember
}

func (f *fakeCatalogRepo) GetStaff(_ context.Context, _, staffID int64) (*domain.StaffMember, error) {
	member, ok := f.staff[staffID]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return member, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSlotsCache struct {
	invalidated int
}

func (f *fakeSlotsCache) InvalidateStaffDate(_ context.Context, _, _ int64, _ time.Time) {
	f.invalidated++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func newTestService() (*Service, *fakeScheduleRepo, *fakeSlotsCache) {
	scheduleRepo := &fakeScheduleRepo{}
	cache := &fakeSlotsCache{}
	catalog := &fakeCatalogRepo{staff: map[int64]*domain.StaffMember{
		1: {ID: 1, BusinessID: 1, DisplayName: "Анна", Active: true},
	}}
	svc := NewService(scheduleRepo, catalog, fakeTxManager{}, cache, nopLogger{})
	return svc, scheduleRepo, cache
}

func TestSet_Success(t *testing.T) {
	svc, repo, cache := newTestService()

	resp, err := svc.Set(context.Background(), &models.SetScheduleRequest{
		BusinessID: 1,
		StaffID:    1,
		Date:       testDate,
		Intervals: []models.ScheduleInterval{
			{StartTime: "09:00", EndTime: "13:00"},
			{StartTime: "14:00", EndTime: "18:00"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Intervals, 2)
	assert.Len(t, repo.replaced, 2)
	assert.Equal(t, 1, cache.invalidated)
}

func TestSet_EmptyIntervalsClearDay(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.stored = []domain.WorkingSchedule{{ID: 1}}

	resp, err := svc.Set(context.Background(), &models.SetScheduleRequest{
		BusinessID: 1,
		StaffID:    1,
		Date:       testDate,
		Intervals:  nil,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Intervals)
	assert.Empty(t, repo.replaced)
}

func TestSet_OverlappingIntervals(t *testing.T) {
	svc, repo, cache := newTestService()

	_, err := svc.Set(context.Background(), &models.SetScheduleRequest{
		BusinessID: 1,
		StaffID:    1,
		Date:       testDate,
		Intervals: []models.ScheduleInterval{
			{StartTime: "09:00", EndTime: "13:00"},
			{StartTime: "12:00", EndTime: "18:00"},
		},
	})
	assert.ErrorIs(t, err, ErrScheduleOverlap)
	assert.Nil(t, repo.replaced)
	assert.Zero(t, cache.invalidated)
}

func TestSet_TouchingIntervalsAllowed(t *testing.T) {
	// Смежные интервалы (конец одного равен началу другого) не пересекаются
	svc, _, _ := newTestService()

	_, err := svc.Set(context.Background(), &models.SetScheduleRequest{
		BusinessID: 1,
		StaffID:    1,
		Date:       testDate,
		Intervals: []models.ScheduleInterval{
			{StartTime: "09:00", EndTime: "13:00"},
			{StartTime: "13:00", EndTime: "18:00"},
		},
	})
	assert.NoError(t, err)
}

func TestSet_InvalidInterval(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name     string
		interval models.ScheduleInterval
	}{
		{"start equals end", models.ScheduleInterval{StartTime: "09:00", EndTime: "09:00"}},
		{"start after end", models.ScheduleInterval{StartTime: "18:00", EndTime: "09:00"}},
		{"bad format", models.ScheduleInterval{StartTime: "9am", EndTime: "18:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(context.Background(), &models.SetScheduleRequest{
				BusinessID: 1,
				StaffID:    1,
				Date:       testDate,
				Intervals:  []models.ScheduleInterval{tt.interval},
			})
			assert.ErrorIs(t, err, ErrInvalidInterval)
		})
	}
}

func TestSet_UnknownStaff(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Set(context.Background(), &models.SetScheduleRequest{
		BusinessID: 1,
		StaffID:    99,
		Date:       testDate,
		Intervals:  []models.ScheduleInterval{{StartTime: "09:00", EndTime: "18:00"}},
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestGet(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.stored = []domain.WorkingSchedule{
		{ID: 1, StartTime: "09:00", EndTime: "13:00"},
	}

	resp, err := svc.Get(context.Background(), &models.GetScheduleRequest{
		BusinessID: 1,
		StaffID:    1,
		Date:       testDate,
	})
	require.NoError(t, err)

	require.Len(t, resp.Intervals, 1)
	assert.Equal(t, "09:00", resp.Intervals[0].StartTime)
	assert.Equal(t, testDate.Format(domain.DateFormat), resp.Date)
}

func TestGet_UnknownStaff(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), &models.GetScheduleRequest{
		BusinessID: 1,
		StaffID:    99,
		Date:       testDate,
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}
