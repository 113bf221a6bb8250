package get_available_slots

import (
	"context"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
)

// AppointmentRepository интерфейс репозитория записей для получения
// занятых интервалов мастера
type AppointmentRepository interface {
	FindActiveOverlapping(ctx context.Context, staffID int64, start, end time.Time, exclude appointmentRepo.OverlapExclusion) ([]domain.AppointmentService, error)
}

// ScheduleRepository интерфейс репозитория рабочих расписаний
type ScheduleRepository interface {
	FindForStaffOnDate(ctx context.Context, businessID, staffID int64, date time.Time) ([]domain.WorkingSchedule, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error)
	ListActiveStaff(ctx context.Context, businessID int64) ([]*domain.StaffMember, error)
}

// SlotsCache интерфейс кеша результатов генерации слотов.
// staffID=0 означает запрос по всем мастерам бизнеса.
type SlotsCache interface {
	GetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time) ([]domain.Slot, bool)
	SetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time, slots []domain.Slot)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
