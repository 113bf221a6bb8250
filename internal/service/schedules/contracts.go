package schedules

import (
	"context"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
)

// ScheduleRepository интерфейс репозитория рабочих расписаний
type ScheduleRepository interface {
	FindForStaffOnDate(ctx context.Context, businessID, staffID int64, date time.Time) ([]domain.WorkingSchedule, error)
	ReplaceForStaffOnDate(ctx context.Context, businessID, staffID int64, date time.Time, intervals []domain.WorkingSchedule) ([]domain.WorkingSchedule, error)
}

// CatalogRepository интерфейс репозитория каталога для проверки мастера
type CatalogRepository interface {
	GetStaff(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache интерфейс инвалидации кеша доступных слотов
type SlotsCache interface {
	InvalidateStaffDate(ctx context.Context, businessID, staffID int64, date time.Time)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
