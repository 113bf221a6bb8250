package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/anwarakram/bookly/internal/domain"
	"github.com/anwarakram/bookly/pkg/dbmetrics"
	"github.com/anwarakram/bookly/pkg/psqlbuilder"
)

var scheduleColumns = []string{
	"id",
	"business_id",
	"staff_id",
	"date",
	"start_time",
	"end_time",
}

// Repository репозиторий рабочих расписаний мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindForStaffOnDate получает интервалы рабочего расписания мастера на
// дату, упорядоченные по времени начала
func (r *Repository) FindForStaffOnDate(ctx context.Context, businessID, staffID int64, date time.Time) ([]domain.WorkingSchedule, error) {
	return r.find(ctx, squirrel.Eq{
		"business_id": businessID,
		"staff_id":    staffID,
		"date":        dateOnly(date),
	})
}

// FindForBusinessOnDate получает интервалы всех мастеров бизнеса на дату
func (r *Repository) FindForBusinessOnDate(ctx context.Context, businessID int64, date time.Time) ([]domain.WorkingSchedule, error) {
	return r.find(ctx, squirrel.Eq{
		"business_id": businessID,
		"date":        dateOnly(date),
	})
}

func (r *Repository) find(ctx context.Context, where squirrel.Eq) ([]domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("working_schedules").
		Where(where).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: find - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]domain.WorkingSchedule, 0)
	for rows.Next() {
		var s domain.WorkingSchedule
		err := rows.Scan(
			&s.ID,
			&s.BusinessID,
			&s.StaffID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: find - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: find - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// ReplaceForStaffOnDate заменяет набор интервалов мастера на дату:
// старые интервалы удаляются, новые вставляются. Вызывается внутри
// транзакции, чтобы день не оставался пустым при ошибке вставки.
func (r *Repository) ReplaceForStaffOnDate(ctx context.Context, businessID, staffID int64, date time.Time, intervals []domain.WorkingSchedule) ([]domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("working_schedules").
		Where(squirrel.Eq{
			"business_id": businessID,
			"staff_id":    staffID,
			"date":        dateOnly(date),
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceForStaffOnDate - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceForStaffOnDate - delete old intervals: %v", ErrExecQuery, err)
	}

	inserted := make([]domain.WorkingSchedule, 0, len(intervals))
	for _, interval := range intervals {
		interval.BusinessID = businessID
		interval.StaffID = staffID
		interval.Date = dateOnly(date)

		query, args, err := psqlbuilder.Insert("working_schedules").
			Columns("business_id", "staff_id", "date", "start_time", "end_time").
			Values(
				interval.BusinessID,
				interval.StaffID,
				interval.Date,
				interval.StartTime,
				interval.EndTime,
			).
			Suffix("RETURNING id").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: ReplaceForStaffOnDate - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&interval.ID); err != nil {
			return nil, fmt.Errorf("%w: ReplaceForStaffOnDate - insert interval: %v", ErrExecQuery, err)
		}

		inserted = append(inserted, interval)
	}

	return inserted, nil
}

// dateOnly отбрасывает время, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
