package availability

import (
	"context"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
)

// AppointmentRepository интерфейс репозитория записей для поиска пересечений
type AppointmentRepository interface {
	FindActiveOverlapping(ctx context.Context, staffID int64, start, end time.Time, exclude appointmentRepo.OverlapExclusion) ([]domain.AppointmentService, error)
}

// ScheduleRepository интерфейс репозитория рабочих расписаний
type ScheduleRepository interface {
	FindForStaffOnDate(ctx context.Context, businessID, staffID int64, date time.Time) ([]domain.WorkingSchedule, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
