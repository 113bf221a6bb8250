package create_appointment

import (
	"context"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetStaff(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error)
}

// AvailabilityValidator интерфейс валидатора доступности интервала
type AvailabilityValidator interface {
	ValidateInterval(ctx context.Context, businessID, staffID int64, start, end time.Time, exclude appointmentRepo.OverlapExclusion) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache интерфейс инвалидации кеша доступных слотов
type SlotsCache interface {
	InvalidateStaffDate(ctx context.Context, businessID, staffID int64, date time.Time)
}

// Notifier интерфейс отправки уведомлений о событиях записи
type Notifier interface {
	AppointmentCreated(ctx context.Context, appointment *domain.Appointment)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
