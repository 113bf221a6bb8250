package appointment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarakram/bookly/internal/domain"
	"github.com/anwarakram/bookly/pkg/ptr"
)

const (
	selectAppointmentQuery = `SELECT id, business_id, client_name, client_phone, status, notes, check_in_code, total_price, cancellation_reason, cancelled_at, created_at, updated_at FROM appointments WHERE id = $1`
	selectServicesQuery    = `SELECT id, appointment_id, service_id, staff_id, start_time, end_time, service_name, price FROM appointment_services WHERE appointment_id IN ($1) ORDER BY start_time ASC`
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func appointmentRows(id int64, status domain.AppointmentStatus) *sqlmock.Rows {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(appointmentColumns).
		AddRow(id, int64(1), "Иван", "+79990001122", string(status), nil, "code-1", 1500.0, nil, nil, now, now)
}

func TestGetByID(t *testing.T) {
	repo, mock := newMock(t)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectAppointmentQuery)).
		WithArgs(int64(1)).
		WillReturnRows(appointmentRows(1, domain.StatusPending))

	mock.ExpectQuery(regexp.QuoteMeta(selectServicesQuery)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(int64(11), int64(1), int64(10), int64(100), start, start.Add(30*time.Minute), "Стрижка", 1500.0))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, "code-1", got.CheckInCode)
	require.Len(t, got.Services, 1)
	assert.Equal(t, "Стрижка", got.Services[0].ServiceName)
	assert.Equal(t, int64(100), *got.Services[0].StaffID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectAppointmentQuery)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCheckInCode_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	query := `SELECT id, business_id, client_name, client_phone, status, notes, check_in_code, total_price, cancellation_reason, cancelled_at, created_at, updated_at FROM appointments WHERE check_in_code = $1`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByCheckInCode(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	insertAppointment := `INSERT INTO appointments (business_id,client_name,client_phone,status,notes,check_in_code,total_price) VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`
	mock.ExpectQuery(regexp.QuoteMeta(insertAppointment)).
		WithArgs(int64(1), "Иван", "+79990001122", domain.StatusPending, nil, "code-1", 1500.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))

	insertService := `INSERT INTO appointment_services (appointment_id,service_id,staff_id,start_time,end_time,service_name,price) VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`
	mock.ExpectQuery(regexp.QuoteMeta(insertService)).
		WithArgs(int64(5), int64(10), int64(100), start, start.Add(30*time.Minute), "Стрижка", 1500.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(51)))

	created, err := repo.Create(context.Background(), &domain.Appointment{
		BusinessID:  1,
		ClientName:  "Иван",
		ClientPhone: "+79990001122",
		Status:      domain.StatusPending,
		CheckInCode: "code-1",
		TotalPrice:  1500,
		Services: []domain.AppointmentService{
			{ServiceID: 10, StaffID: ptr.Ptr(int64(100)), StartTime: start, EndTime: start.Add(30 * time.Minute),
				ServiceName: "Стрижка", Price: 1500},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.Equal(t, int64(51), created.Services[0].ID)
	assert.Equal(t, int64(5), created.Services[0].AppointmentID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveOverlapping(t *testing.T) {
	repo, mock := newMock(t)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	query := `SELECT s.id, s.appointment_id, s.service_id, s.staff_id, s.start_time, s.end_time, s.service_name, s.price FROM appointment_services s JOIN appointments a ON a.id = s.appointment_id WHERE s.staff_id = $1 AND s.start_time < $2 AND s.end_time > $3 AND a.status IN ($4,$5,$6) ORDER BY s.start_time ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(100), end, start, "PENDING", "CONFIRMED", "IN_PROGRESS").
		WillReturnRows(sqlmock.NewRows(serviceColumns).
			AddRow(int64(11), int64(1), int64(10), int64(100), start, end, "Стрижка", 1500.0))

	got, err := repo.FindActiveOverlapping(context.Background(), 100, start, end, OverlapExclusion{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveOverlapping_WithExclusion(t *testing.T) {
	repo, mock := newMock(t)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	query := `SELECT s.id, s.appointment_id, s.service_id, s.staff_id, s.start_time, s.end_time, s.service_name, s.price FROM appointment_services s JOIN appointments a ON a.id = s.appointment_id WHERE s.staff_id = $1 AND s.start_time < $2 AND s.end_time > $3 AND a.status IN ($4,$5,$6) AND s.appointment_id <> $7 ORDER BY s.start_time ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(100), end, start, "PENDING", "CONFIRMED", "IN_PROGRESS", int64(7)).
		WillReturnRows(sqlmock.NewRows(serviceColumns))

	got, err := repo.FindActiveOverlapping(context.Background(), 100, start, end,
		OverlapExclusion{AppointmentID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newMock(t)

	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(domain.StatusConfirmed, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 1, domain.StatusConfirmed)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(domain.StatusConfirmed, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel(t *testing.T) {
	repo, mock := newMock(t)

	query := `UPDATE appointments SET status = $1, cancellation_reason = $2, cancelled_at = NOW(), updated_at = NOW() WHERE id = $3`
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(domain.StatusCancelled, "клиент передумал", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 1, ptr.Ptr("клиент передумал"))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateServiceTimes_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	query := `UPDATE appointment_services SET start_time = $1, end_time = $2 WHERE id = $3`
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(start, start.Add(30*time.Minute), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateServiceTimes(context.Background(), 99, start, start.Add(30*time.Minute))
	assert.ErrorIs(t, err, ErrServiceRowNotFound)
}

func TestUpdateTotalPrice(t *testing.T) {
	repo, mock := newMock(t)

	query := `UPDATE appointments SET total_price = $1, updated_at = NOW() WHERE id = $2`
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(5500.0, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateTotalPrice(context.Background(), 1, 5500)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
