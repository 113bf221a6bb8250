package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
	"github.com/anwarakram/bookly/internal/service/availability"
	"github.com/anwarakram/bookly/pkg/ptr"
)

// UseCase use case для переноса записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	validator       AvailabilityValidator
	txManager       TransactionManager
	slotsCache      SlotsCache
	notifier        Notifier
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	validator AvailabilityValidator,
	txManager TransactionManager,
	slotsCache SlotsCache,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		validator:       validator,
		txManager:       txManager,
		slotsCache:      slotsCache,
		notifier:        notifier,
		logger:          logger,
	}
}

// Execute выполняет use case переноса записи.
// Все услуги сдвигаются на одну и ту же разницу во времени с
// сохранением замороженных длительностей. Перенос атомарен: либо
// двигаются все услуги, либо ни одна.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, date=%s, time=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment
	var oldDates []staffDate

	// 2. Выполняем перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем запись с блокировкой строки
		appointment, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: repository error for id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Переносить можно только незавершённые записи
		if !appointment.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d is in terminal status=%s",
				appointment.ID, appointment.Status)
			return ErrTerminalState
		}

		first := appointment.FirstService()
		if first == nil {
			uc.logger.Error("RescheduleAppointment: appointment id=%d has no services", appointment.ID)
			return ErrNoServices
		}

		// 2.3. Вычисляем сдвиг: новое начало первой услуги минус старое
		newStart, err := req.StartTime.At(req.Date)
		if err != nil {
			return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
		shift := newStart.Sub(first.StartTime)

		oldDates = collectStaffDates(appointment)

		// 2.4. Валидируем новый интервал каждой услуги, исключая
		// собственные строки записи из проверки пересечений
		for i := range appointment.Services {
			svc := &appointment.Services[i]
			if svc.StaffID == nil {
				uc.logger.Warn("RescheduleAppointment: service row id=%d has no staff", svc.ID)
				return fmt.Errorf("%w: service has no assigned staff", ErrInvalidInput)
			}

			start := svc.StartTime.Add(shift)
			end := svc.EndTime.Add(shift)

			err := uc.validator.ValidateInterval(txCtx, appointment.BusinessID, *svc.StaffID, start, end,
				appointmentRepo.OverlapExclusion{AppointmentID: ptr.Ptr(appointment.ID)})
			if err != nil {
				return uc.mapValidationError(err, *svc.StaffID)
			}
		}

		// 2.5. Сдвигаем все строки услуг
		for i := range appointment.Services {
			svc := &appointment.Services[i]
			start := svc.StartTime.Add(shift)
			end := svc.EndTime.Add(shift)

			if err := uc.appointmentRepo.UpdateServiceTimes(txCtx, svc.ID, start, end); err != nil {
				uc.logger.Error("RescheduleAppointment: failed to move service row id=%d: %v", svc.ID, err)
				return fmt.Errorf("%w: failed to move service: %v", ErrInternal, err)
			}

			svc.StartTime = start
			svc.EndTime = end
		}

		// 2.6. Пересчитываем итоговую стоимость из снимков цен
		appointment.TotalPrice = appointment.CalculateTotalPrice()
		if err := uc.appointmentRepo.UpdateTotalPrice(txCtx, appointment.ID, appointment.TotalPrice); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to update total price for id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: failed to update total price: %v", ErrInternal, err)
		}

		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully moved appointment id=%d", result.ID)

	// 3. Пост-обработка вне транзакции: уведомление и сброс кеша слотов
	// по старым и новым датам
	uc.notifier.AppointmentRescheduled(ctx, result)
	for _, sd := range append(oldDates, collectStaffDates(result)...) {
		uc.slotsCache.InvalidateStaffDate(ctx, result.BusinessID, sd.staffID, sd.date)
	}

	return fromDomain(result), nil
}

// staffDate пара (мастер, дата) для инвалидации кеша
type staffDate struct {
	staffID int64
	date    time.Time
}

func collectStaffDates(a *domain.Appointment) []staffDate {
	out := make([]staffDate, 0, len(a.Services))
	for _, svc := range a.Services {
		if svc.StaffID == nil {
			continue
		}
		out = append(out, staffDate{staffID: *svc.StaffID, date: svc.StartTime})
	}
	return out
}

// mapValidationError транслирует ошибки валидатора доступности в
// ошибки use case
func (uc *UseCase) mapValidationError(err error, staffID int64) error {
	switch {
	case errors.Is(err, availability.ErrPastDate):
		uc.logger.Warn("RescheduleAppointment: staff=%d interval is in the past", staffID)
		return ErrPastDate
	case errors.Is(err, availability.ErrInvalidRange):
		uc.logger.Warn("RescheduleAppointment: staff=%d invalid interval", staffID)
		return ErrInvalidRange
	case errors.Is(err, availability.ErrOutsideWorkingHours):
		uc.logger.Warn("RescheduleAppointment: staff=%d interval outside working hours", staffID)
		return ErrOutsideWorkingHours
	case errors.Is(err, availability.ErrDoubleBooking):
		uc.logger.Warn("RescheduleAppointment: staff=%d double booking", staffID)
		return ErrDoubleBooking
	default:
		uc.logger.Error("RescheduleAppointment: availability check failed for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}
}
