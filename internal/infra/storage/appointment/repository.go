package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/anwarakram/bookly/internal/domain"
	"github.com/anwarakram/bookly/pkg/dbmetrics"
	"github.com/anwarakram/bookly/pkg/psqlbuilder"
)

// appointmentColumns колонки таблицы appointments в порядке сканирования
var appointmentColumns = []string{
	"id",
	"business_id",
	"client_name",
	"client_phone",
	"status",
	"notes",
	"check_in_code",
	"total_price",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// serviceColumns колонки таблицы appointment_services
var serviceColumns = []string{
	"id",
	"appointment_id",
	"service_id",
	"staff_id",
	"start_time",
	"end_time",
	"service_name",
	"price",
}

// OverlapExclusion опциональные исключения для запроса пересечений:
// при переносе запись не должна конфликтовать сама с собой
type OverlapExclusion struct {
	AppointmentID        *int64
	AppointmentServiceID *int64
}

// Repository репозиторий журнала записей (appointments + appointment_services)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе со строками её услуг.
// Вызывается только внутри транзакции (из usecase создания записи):
// проверка пересечений и вставка должны быть атомарны.
func (r *Repository) Create(ctx context.Context, ap *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"business_id",
			"client_name",
			"client_phone",
			"status",
			"notes",
			"check_in_code",
			"total_price",
		).
		Values(
			ap.BusinessID,
			ap.ClientName,
			ap.ClientPhone,
			ap.Status,
			ap.Notes,
			ap.CheckInCode,
			ap.TotalPrice,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&ap.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	ap.CreatedAt = createdAt.Time
	ap.UpdatedAt = updatedAt.Time

	for i := range ap.Services {
		svc := &ap.Services[i]
		svc.AppointmentID = ap.ID

		query, args, err := psqlbuilder.Insert("appointment_services").
			Columns(
				"appointment_id",
				"service_id",
				"staff_id",
				"start_time",
				"end_time",
				"service_name",
				"price",
			).
			Values(
				svc.AppointmentID,
				svc.ServiceID,
				svc.StaffID,
				svc.StartTime,
				svc.EndTime,
				svc.ServiceName,
				svc.Price,
			).
			Suffix("RETURNING id").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: Create - build service insert: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&svc.ID); err != nil {
			return nil, fmt.Errorf("%w: Create - insert appointment service: %v", ErrExecQuery, err)
		}
	}

	return ap, nil
}

// GetByID получает запись по ID вместе со строками услуг
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCheckInCode получает запись по коду чек-ина
func (r *Repository) GetByCheckInCode(ctx context.Context, code string) (*domain.Appointment, error) {
	return r.getOne(ctx, squirrel.Eq{"check_in_code": code})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(where)

	// Внутри транзакции запись блокируется: перенос и смена статуса
	// читают и затем изменяют её
	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	ap, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan appointment: %v", ErrScanRow, err)
	}

	services, err := r.loadServices(ctx, []int64{ap.ID})
	if err != nil {
		return nil, err
	}
	ap.Services = services[ap.ID]

	return ap, nil
}

// ListByBusinessWithFilter получает записи бизнеса с фильтрацией по
// мастеру, периоду, статусу и включению неактивных записей
func (r *Repository) ListByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(prefixed("a", appointmentColumns)...).
		Distinct().
		From("appointments a").
		Join("appointment_services s ON s.appointment_id = a.id").
		Where(squirrel.Eq{"a.business_id": filter.BusinessID})

	if filter.StaffID != nil {
		builder = builder.Where(squirrel.Eq{"s.staff_id": *filter.StaffID})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"s.start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		// Конец периода включительно: до конца дня
		builder = builder.Where(squirrel.Lt{"s.start_time": filter.EndDate.AddDate(0, 0, 1)})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"a.status": *filter.Status})
	} else if !filter.IncludeInactive {
		activeStatuses := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			activeStatuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"a.status": activeStatuses})
	}

	builder = builder.OrderBy("a.created_at DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	ids := make([]int64, 0)

	for rows.Next() {
		ap, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBusinessWithFilter - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, ap)
		ids = append(ids, ap.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBusinessWithFilter - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return appointments, nil
	}

	services, err := r.loadServices(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, ap := range appointments {
		ap.Services = services[ap.ID]
	}

	return appointments, nil
}

// FindActiveOverlapping возвращает строки услуг мастера, пересекающие
// полуинтервал [start, end) и принадлежащие активным записям
// (PENDING, CONFIRMED, IN_PROGRESS). Внутри транзакции строки
// блокируются через FOR UPDATE — это закрывает гонку между проверкой
// пересечений и вставкой.
func (r *Repository) FindActiveOverlapping(ctx context.Context, staffID int64, start, end time.Time, exclude OverlapExclusion) ([]domain.AppointmentService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	builder := psqlbuilder.Select(prefixed("s", serviceColumns)...).
		From("appointment_services s").
		Join("appointments a ON a.id = s.appointment_id").
		Where(squirrel.Eq{"s.staff_id": staffID}).
		Where(squirrel.Lt{"s.start_time": end}).
		Where(squirrel.Gt{"s.end_time": start}).
		Where(squirrel.Eq{"a.status": activeStatuses}).
		OrderBy("s.start_time ASC")

	if exclude.AppointmentID != nil {
		builder = builder.Where(squirrel.NotEq{"s.appointment_id": *exclude.AppointmentID})
	}
	if exclude.AppointmentServiceID != nil {
		builder = builder.Where(squirrel.NotEq{"s.id": *exclude.AppointmentServiceID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE OF s")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.AppointmentService, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: FindActiveOverlapping - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindActiveOverlapping - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// UpdateServiceTimes сдвигает одну строку услуги на новый интервал
func (r *Repository) UpdateServiceTimes(ctx context.Context, serviceRowID int64, start, end time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_services").
		Set("start_time", start).
		Set("end_time", end).
		Where(squirrel.Eq{"id": serviceRowID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateServiceTimes - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceTimes - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceTimes - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrServiceRowNotFound
	}

	return nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// UpdateTotalPrice пересчитанная итоговая стоимость записи.
// Вызывается оркестратором после каждой мутации набора услуг.
func (r *Repository) UpdateTotalPrice(ctx context.Context, id int64, total float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("total_price", total).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTotalPrice - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateTotalPrice - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTotalPrice - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// loadServices загружает строки услуг для набора записей одним запросом
func (r *Repository) loadServices(ctx context.Context, appointmentIDs []int64) (map[int64][]domain.AppointmentService, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.AppointmentService, len(appointmentIDs))
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: loadServices - scan row: %v", ErrScanRow, err)
		}
		result[svc.AppointmentID] = append(result[svc.AppointmentID], svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadServices - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var ap domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&ap.ID,
		&ap.BusinessID,
		&ap.ClientName,
		&ap.ClientPhone,
		&ap.Status,
		&ap.Notes,
		&ap.CheckInCode,
		&ap.TotalPrice,
		&ap.CancellationReason,
		&ap.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ap.CreatedAt = createdAt.Time
	ap.UpdatedAt = updatedAt.Time
	return &ap, nil
}

func scanService(row rowScanner) (domain.AppointmentService, error) {
	var svc domain.AppointmentService
	err := row.Scan(
		&svc.ID,
		&svc.AppointmentID,
		&svc.ServiceID,
		&svc.StaffID,
		&svc.StartTime,
		&svc.EndTime,
		&svc.ServiceName,
		&svc.Price,
	)
	return svc, err
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
