package create_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
	catalogRepo "github.com/anwarakram/bookly/internal/infra/storage/catalog"
	"github.com/anwarakram/bookly/internal/service/availability"
	"github.com/anwarakram/bookly/pkg/ptr"
	"github.com/anwarakram/bookly/pkg/types"
)

// fakeAppointmentRepo хранит созданные записи в памяти. Вместе с
// fakeTxManager и fakeValidator моделирует сериализуемые транзакции:
// проверка пересечений и вставка выполняются под одним мьютексом.
type fakeAppointmentRepo struct {
	mu      sync.Mutex
	nextID  int64
	created []*domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	for i := range a.Services {
		a.Services[i].ID = f.nextID*100 + int64(i)
		a.Services[i].AppointmentID = a.ID
	}
	f.created = append(f.created, a)
	return a, nil
}

// activeOverlapping возвращает строки услуг активных записей мастера,
// пересекающие [start, end)
func (f *fakeAppointmentRepo) activeOverlapping(staffID int64, start, end time.Time) []domain.AppointmentService {
	var out []domain.AppointmentService
	for _, a := range f.created {
		if !a.Status.IsActive() {
			continue
		}
		for _, svc := range a.Services {
			if svc.StaffID == nil || *svc.StaffID != staffID {
				continue
			}
			if domain.Overlaps(start, end, svc.StartTime, svc.EndTime) {
				out = append(out, svc)
			}
		}
	}
	return out
}

// fakeTxManager сериализует транзакции мьютексом репозитория, имитируя
// SERIALIZABLE изоляцию
type fakeTxManager struct {
	repo *fakeAppointmentRepo
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.repo.mu.Lock()
	defer f.repo.mu.Unlock()
	return fn(ctx)
}

// fakeValidator повторяет порядок проверок настоящего валидатора
// доступности поверх состояния fakeAppointmentRepo
type fakeValidator struct {
	repo      *fakeAppointmentRepo
	now       time.Time
	schedules map[int64][]domain.WorkingSchedule // по staffID
}

func (f *fakeValidator) ValidateInterval(_ context.Context, _, staffID int64, start, end time.Time, _ appointmentRepo.OverlapExclusion) error {
	if start.Before(f.now) {
		return availability.ErrPastDate
	}
	if !start.Before(end) {
		return availability.ErrInvalidRange
	}

	contained := false
	for i := range f.schedules[staffID] {
		if f.schedules[staffID][i].Contains(start, end) {
			contained = true
			break
		}
	}
	if !contained {
		return availability.ErrOutsideWorkingHours
	}

	if len(f.repo.activeOverlapping(staffID, start, end)) > 0 {
		return availability.ErrDoubleBooking
	}
	return nil
}

type fakeCatalogRepo struct {
	businesses map[int64]*domain.Business
	services   map[int64]*domain.Service
	staff      map[int64]*domain.StaffMember
}

func (f *fakeCatalogRepo) GetBusiness(_ context.Context, id int64) (*domain.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return nil, catalogRepo.ErrBusinessNotFound
	}
	return b, nil
}

func (f *fakeCatalogRepo) GetService(_ context.Context, _, serviceID int64) (*domain.Service, error) {
	s, ok := f.services[serviceID]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeCatalogRepo) GetStaff(_ context.Context, _, staffID int64) (*domain.StaffMember, error) {
	m, ok := f.staff[staffID]
	if !ok {
		return nil, catalogRepo.ErrStaffNotFound
	}
	return m, nil
}

type fakeSlotsCache struct {
	mu          sync.Mutex
	invalidated int
}

func (f *fakeSlotsCache) InvalidateStaffDate(_ context.Context, _, _ int64, _ time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
}

type fakeNotifier struct {
	mu      sync.Mutex
	created []int64
}

func (f *fakeNotifier) AppointmentCreated(_ context.Context, a *domain.Appointment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, a.ID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	testDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc       *UseCase
	repo     *fakeAppointmentRepo
	cache    *fakeSlotsCache
	notifier *fakeNotifier
}

func newFixture(maxGapMinutes int) *fixture {
	repo := &fakeAppointmentRepo{}

	catalog := &fakeCatalogRepo{
		businesses: map[int64]*domain.Business{1: {ID: 1, Name: "Салон"}},
		services: map[int64]*domain.Service{
			10: {ID: 10, BusinessID: 1, Name: "Стрижка", DurationMinutes: 30, Price: 1500},
			11: {ID: 11, BusinessID: 1, Name: "Окрашивание", DurationMinutes: 60, Price: 4000},
			12: {ID: 12, BusinessID: 1, Name: "Экспресс", DurationMinutes: 5, Price: 300},
		},
		staff: map[int64]*domain.StaffMember{
			100: {ID: 100, BusinessID: 1, DisplayName: "Анна", Active: true},
			101: {ID: 101, BusinessID: 1, DisplayName: "Борис", Active: false},
		},
	}

	validator := &fakeValidator{
		repo: repo,
		now:  testNow,
		schedules: map[int64][]domain.WorkingSchedule{
			100: {{Date: testDate, StartTime: types.TimeString("09:00"), EndTime: types.TimeString("18:00")}},
		},
	}

	cache := &fakeSlotsCache{}
	notifier := &fakeNotifier{}

	uc := NewUseCase(repo, catalog, validator, &fakeTxManager{repo: repo}, cache, notifier, maxGapMinutes, nopLogger{})
	return &fixture{uc: uc, repo: repo, cache: cache, notifier: notifier}
}

func validRequest() *Request {
	return &Request{
		BusinessID:  1,
		ClientName:  "Иван",
		ClientPhone: "+79990001122",
		Date:        testDate,
		StartTime:   types.TimeString("10:00"),
		Services:    []ServiceSelection{{ServiceID: 10, StaffID: 100}},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(0)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.NotEmpty(t, resp.CheckInCode)
	assert.Equal(t, 1500.0, resp.TotalPrice)

	require.Len(t, resp.Services, 1)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), resp.Services[0].StartTime)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC), resp.Services[0].EndTime)
	assert.Equal(t, "Стрижка", resp.Services[0].ServiceName)

	assert.Equal(t, []int64{resp.ID}, f.notifier.created)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestExecute_BackToBackServices(t *testing.T) {
	// Услуги без явного времени идут встык: 10:00-10:30, затем 10:30-11:30
	f := newFixture(0)

	req := validRequest()
	req.Services = []ServiceSelection{
		{ServiceID: 10, StaffID: 100},
		{ServiceID: 11, StaffID: 100},
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Services, 2)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC), resp.Services[1].StartTime)
	assert.Equal(t, time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC), resp.Services[1].EndTime)

	// Итоговая стоимость — сумма снимков цен
	assert.Equal(t, 5500.0, resp.TotalPrice)
}

func TestExecute_ExplicitServiceStart(t *testing.T) {
	f := newFixture(0)

	req := validRequest()
	req.Services = []ServiceSelection{
		{ServiceID: 10, StaffID: 100},
		{ServiceID: 11, StaffID: 100, StartTime: ptr.Ptr(types.TimeString("11:00"))},
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Services, 2)
	assert.Equal(t, time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC), resp.Services[1].StartTime)
}

func TestExecute_ServiceGapPolicy(t *testing.T) {
	// Разрыв 30 минут при лимите 15 отклоняется
	f := newFixture(15)

	req := validRequest()
	req.Services = []ServiceSelection{
		{ServiceID: 10, StaffID: 100},
		{ServiceID: 11, StaffID: 100, StartTime: ptr.Ptr(types.TimeString("11:00"))},
	}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceGapTooLarge)
	assert.Empty(t, f.repo.created)
}

func TestExecute_ServiceBeforePreviousEnd(t *testing.T) {
	// Явное время раньше конца предыдущей услуги — нарушение порядка
	f := newFixture(0)

	req := validRequest()
	req.Services = []ServiceSelection{
		{ServiceID: 10, StaffID: 100},
		{ServiceID: 11, StaffID: 100, StartTime: ptr.Ptr(types.TimeString("10:15"))},
	}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_DoubleBooking(t *testing.T) {
	f := newFixture(0)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// 10:15-10:45 пересекается с существующей 10:00-10:30
	req := validRequest()
	req.StartTime = types.TimeString("10:15")

	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDoubleBooking)
	assert.Len(t, f.repo.created, 1)
}

func TestExecute_TouchingAppointmentsAllowed(t *testing.T) {
	// Смежная запись 10:30-11:00 сразу после 10:00-10:30 не конфликтует
	f := newFixture(0)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.StartTime = types.TimeString("10:30")

	_, err = f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, f.repo.created, 2)
}

func TestExecute_ConcurrentOverlappingCreates(t *testing.T) {
	// Два конкурирующих пересекающихся создания: ровно одно успешно,
	// второе получает ошибку двойного бронирования
	f := newFixture(0)

	first := validRequest()
	second := validRequest()
	second.StartTime = types.TimeString("10:15")

	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i, req := range []*Request{first, second} {
		wg.Add(1)
		go func(i int, req *Request) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), req)
		}(i, req)
	}
	wg.Wait()

	var okCount, conflictCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case assert.ErrorIs(t, err, ErrDoubleBooking):
			conflictCount++
		}
	}

	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, conflictCount)
	assert.Len(t, f.repo.created, 1)
}

func TestExecute_ValidationFailures(t *testing.T) {
	f := newFixture(0)

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"unknown business", func(r *Request) { r.BusinessID = 99 }, ErrBusinessNotFound},
		{"unknown service", func(r *Request) { r.Services[0].ServiceID = 99 }, ErrServiceNotFound},
		{"unknown staff", func(r *Request) { r.Services[0].StaffID = 99 }, ErrStaffNotFound},
		{"inactive staff", func(r *Request) { r.Services[0].StaffID = 101 }, ErrStaffInactive},
		{"empty client name", func(r *Request) { r.ClientName = "" }, ErrInvalidInput},
		{"empty phone", func(r *Request) { r.ClientPhone = "" }, ErrInvalidInput},
		{"no services", func(r *Request) { r.Services = nil }, ErrInvalidInput},
		{"bad start time", func(r *Request) { r.StartTime = "25:00" }, ErrInvalidInput},
		{"duration below minimum", func(r *Request) { r.Services[0].ServiceID = 12 }, ErrInvalidInput},
		{"outside working hours", func(r *Request) { r.StartTime = "08:00" }, ErrOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.repo.created)
}

func TestExecute_PastDate(t *testing.T) {
	f := newFixture(0)

	req := validRequest()
	req.Date = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPastDate)
}
