package appointments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
	"github.com/anwarakram/bookly/internal/service/appointments/models"
	"github.com/anwarakram/bookly/pkg/ptr"
)

type fakeRepo struct {
	byID     map[int64]*domain.Appointment
	byCode   map[string]*domain.Appointment
	listed   []*domain.Appointment
	listErr  error
	statuses map[int64]domain.AppointmentStatus
	cancels  map[int64]*string
}

func newFakeRepo(appointments ...*domain.Appointment) *fakeRepo {
	f := &fakeRepo{
		byID:     make(map[int64]*domain.Appointment),
		byCode:   make(map[string]*domain.Appointment),
		statuses: make(map[int64]domain.AppointmentStatus),
		cancels:  make(map[int64]*string),
	}
	for _, a := range appointments {
		f.byID[a.ID] = a
		if a.CheckInCode != "" {
			f.byCode[a.CheckInCode] = a
		}
	}
	return f
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) GetByCheckInCode(_ context.Context, code string) (*domain.Appointment, error) {
	a, ok := f.byCode[code]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeRepo) ListByBusinessWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return f.listed, f.listErr
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	f.statuses[id] = status
	f.byID[id].Status = status
	return nil
}

func (f *fakeRepo) Cancel(_ context.Context, id int64, reason *string) error {
	f.cancels[id] = reason
	f.byID[id].Status = domain.StatusCancelled
	return nil
}

// fakeTxManager выполняет функцию без настоящей транзакции
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

type fakeNotifier struct {
	cancelled     []int64
	statusChanged []int64
	oldStatuses   []domain.AppointmentStatus
}

func (f *fakeNotifier) AppointmentCancelled(_ context.Context, a *domain.Appointment) {
	f.cancelled = append(f.cancelled, a.ID)
}

func (f *fakeNotifier) AppointmentStatusChanged(_ context.Context, a *domain.Appointment, oldStatus domain.AppointmentStatus) {
	f.statusChanged = append(f.statusChanged, a.ID)
	f.oldStatuses = append(f.oldStatuses, oldStatus)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeRepo) (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewService(repo, fakeTxManager{}, notifier, nopLogger{}), notifier
}

func TestCancel_Success(t *testing.T) {
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusConfirmed})
	svc, notifier := newTestService(repo)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		CancellationReason: ptr.Ptr("клиент передумал"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, "клиент передумал", *repo.cancels[1])
	assert.Equal(t, []int64{1}, notifier.cancelled)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	// Отмена уже отменённой записи запрещена и не меняет её состояние
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusCancelled})
	svc, notifier := newTestService(repo)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrTerminalState)
	assert.Empty(t, repo.cancels)
	assert.Empty(t, notifier.cancelled)
}

func TestCancel_Completed(t *testing.T) {
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusCompleted})
	svc, _ := newTestService(repo)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrTerminalState)
	assert.Empty(t, repo.cancels)
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, err := svc.Cancel(context.Background(), 99, &models.CancelAppointmentRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestChangeStatus_ValidTransitions(t *testing.T) {
	tests := []struct {
		from domain.AppointmentStatus
		to   string
	}{
		{domain.StatusPending, "CONFIRMED"},
		{domain.StatusConfirmed, "IN_PROGRESS"},
		{domain.StatusInProgress, "COMPLETED"},
		{domain.StatusPending, "CANCELLED"},
		{domain.StatusConfirmed, "CANCELLED"},
		{domain.StatusInProgress, "CANCELLED"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+tt.to, func(t *testing.T) {
			repo := newFakeRepo(&domain.Appointment{ID: 1, Status: tt.from})
			svc, notifier := newTestService(repo)

			resp, err := svc.ChangeStatus(context.Background(), 1, &models.ChangeStatusRequest{Status: tt.to})
			require.NoError(t, err)

			assert.Equal(t, tt.to, resp.Status)
			assert.Equal(t, domain.AppointmentStatus(tt.to), repo.statuses[1])
			assert.Equal(t, []domain.AppointmentStatus{tt.from}, notifier.oldStatuses)
		})
	}
}

func TestChangeStatus_TerminalState(t *testing.T) {
	// Завершённая запись не возвращается в активный статус
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusCompleted})
	svc, notifier := newTestService(repo)

	_, err := svc.ChangeStatus(context.Background(), 1, &models.ChangeStatusRequest{Status: "CONFIRMED"})
	assert.ErrorIs(t, err, ErrTerminalState)
	assert.Empty(t, repo.statuses)
	assert.Empty(t, notifier.statusChanged)
}

func TestChangeStatus_InvalidTransition(t *testing.T) {
	tests := []struct {
		from domain.AppointmentStatus
		to   string
	}{
		{domain.StatusPending, "IN_PROGRESS"},
		{domain.StatusPending, "COMPLETED"},
		{domain.StatusConfirmed, "PENDING"},
		{domain.StatusConfirmed, "COMPLETED"},
		{domain.StatusInProgress, "PENDING"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+tt.to, func(t *testing.T) {
			repo := newFakeRepo(&domain.Appointment{ID: 1, Status: tt.from})
			svc, _ := newTestService(repo)

			_, err := svc.ChangeStatus(context.Background(), 1, &models.ChangeStatusRequest{Status: tt.to})
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Empty(t, repo.statuses)
		})
	}
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusPending})
	svc, _ := newTestService(repo)

	_, err := svc.ChangeStatus(context.Background(), 1, &models.ChangeStatusRequest{Status: "DONE"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangeStatus_NotFound(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, err := svc.ChangeStatus(context.Background(), 99, &models.ChangeStatusRequest{Status: "CONFIRMED"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCheckIn_Success(t *testing.T) {
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusConfirmed, CheckInCode: "code-1"})
	svc, notifier := newTestService(repo)

	resp, err := svc.CheckIn(context.Background(), &models.CheckInRequest{CheckInCode: "code-1"})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusInProgress), resp.Status)
	assert.Equal(t, domain.StatusInProgress, repo.statuses[1])
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusConfirmed}, notifier.oldStatuses)
}

func TestCheckIn_PendingAppointment(t *testing.T) {
	// Чек-ин доступен только после подтверждения записи
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusPending, CheckInCode: "code-1"})
	svc, _ := newTestService(repo)

	_, err := svc.CheckIn(context.Background(), &models.CheckInRequest{CheckInCode: "code-1"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, repo.statuses)
}

func TestCheckIn_CancelledAppointment(t *testing.T) {
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusCancelled, CheckInCode: "code-1"})
	svc, _ := newTestService(repo)

	_, err := svc.CheckIn(context.Background(), &models.CheckInRequest{CheckInCode: "code-1"})
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestCheckIn_UnknownCode(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, err := svc.CheckIn(context.Background(), &models.CheckInRequest{CheckInCode: "nope"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID(t *testing.T) {
	repo := newFakeRepo(&domain.Appointment{ID: 1, Status: domain.StatusPending, ClientName: "Анна"})
	svc, _ := newTestService(repo)

	resp, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Анна", resp.ClientName)

	_, err = svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListByBusiness_InvalidStatusFilter(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, err := svc.ListByBusiness(context.Background(), &models.ListAppointmentsRequest{
		BusinessID: 1,
		Status:     ptr.Ptr("NOT_A_STATUS"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByBusiness_Success(t *testing.T) {
	repo := newFakeRepo()
	repo.listed = []*domain.Appointment{
		{ID: 1, Status: domain.StatusPending},
		{ID: 2, Status: domain.StatusConfirmed},
	}
	svc, _ := newTestService(repo)

	resp, err := svc.ListByBusiness(context.Background(), &models.ListAppointmentsRequest{BusinessID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)
}
