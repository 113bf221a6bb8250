package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
)

// Validator проверяет, что интервал записи можно забронировать у мастера.
// Проверки выполняются в фиксированном порядке: прошлое время,
// корректность интервала, рабочее расписание, пересечения с активными
// записями. Возвращается первая нарушенная проверка.
type Validator struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewValidator создает новый экземпляр валидатора доступности
func NewValidator(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *Validator {
	return &Validator{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет провайдер времени (используется в тестах)
func (v *Validator) WithTimeProvider(tp TimeProvider) *Validator {
	v.timeProvider = tp
	return v
}

// ValidateInterval проверяет интервал [start, end) для мастера.
// exclude исключает собственные строки записи при переносе.
// Вызывается внутри сериализуемой транзакции: проверка пересечений
// блокирует конфликтующие строки до конца транзакции.
func (v *Validator) ValidateInterval(ctx context.Context, businessID, staffID int64, start, end time.Time, exclude appointmentRepo.OverlapExclusion) error {
	now := v.timeProvider.Now()

	// 1. Время начала не в прошлом
	if start.Before(now) {
		v.logger.Warn("ValidateInterval: start=%s is in the past (now=%s)",
			start.Format(time.RFC3339), now.Format(time.RFC3339))
		return ErrPastDate
	}

	// 2. Интервал корректен: начало строго раньше конца
	if !start.Before(end) {
		v.logger.Warn("ValidateInterval: invalid range start=%s end=%s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
		return ErrInvalidRange
	}

	// 3. Интервал целиком внутри одного рабочего интервала мастера.
	// Запись не может пересекать полночь или склеивать два интервала.
	schedules, err := v.scheduleRepo.FindForStaffOnDate(ctx, businessID, staffID, start)
	if err != nil {
		v.logger.Error("ValidateInterval: failed to get schedules for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: ValidateInterval - failed to get schedules: %v", ErrInternal, err)
	}

	if !intervalWithinSchedule(schedules, start, end) {
		v.logger.Warn("ValidateInterval: staff=%d interval %s-%s outside working hours",
			staffID, start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
		return ErrOutsideWorkingHours
	}

	// 4. Нет пересечений с активными записями мастера
	overlapping, err := v.appointmentRepo.FindActiveOverlapping(ctx, staffID, start, end, exclude)
	if err != nil {
		v.logger.Error("ValidateInterval: failed to check overlaps for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: ValidateInterval - failed to check overlaps: %v", ErrInternal, err)
	}

	if len(overlapping) > 0 {
		v.logger.Warn("ValidateInterval: staff=%d has %d overlapping appointment(s) for %s-%s",
			staffID, len(overlapping), start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
		return ErrDoubleBooking
	}

	return nil
}

// intervalWithinSchedule проверяет, что [start, end) лежит целиком
// внутри одного из рабочих интервалов
func intervalWithinSchedule(schedules []domain.WorkingSchedule, start, end time.Time) bool {
	for i := range schedules {
		if schedules[i].Contains(start, end) {
			return true
		}
	}
	return false
}
