package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
	catalogRepo "github.com/anwarakram/bookly/internal/infra/storage/catalog"
	"github.com/anwarakram/bookly/internal/service/availability"
	"github.com/anwarakram/bookly/pkg/ptr"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	validator       AvailabilityValidator
	txManager       TransactionManager
	slotsCache      SlotsCache
	notifier        Notifier
	maxGapMinutes   int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	validator AvailabilityValidator,
	txManager TransactionManager,
	slotsCache SlotsCache,
	notifier Notifier,
	maxGapMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		validator:       validator,
		txManager:       txManager,
		slotsCache:      slotsCache,
		notifier:        notifier,
		maxGapMinutes:   maxGapMinutes,
		logger:          logger,
	}
}

// plannedService услуга с вычисленным интервалом и снимком каталога
type plannedService struct {
	service *domain.Service
	staffID int64
	start   time.Time
	end     time.Time
}

// Execute выполняет use case создания записи.
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// два конкурирующих пересекающихся создания завершаются ровно одной
// успешной записью.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, client=%s, date=%s, time=%s, services=%d",
		req.BusinessID, req.ClientName, req.Date.Format(domain.DateFormat), req.StartTime, len(req.Services))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование бизнеса
	if _, err := uc.catalogRepo.GetBusiness(ctx, req.BusinessID); err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Планируем интервалы услуг: каждая следующая услуга начинается
	// после предыдущей, если явное время не задано
	planned, err := uc.planServices(ctx, req)
	if err != nil {
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Валидируем каждый интервал: прошлое время, корректность
		// диапазона, рабочее расписание, пересечения с активными записями
		for _, p := range planned {
			err := uc.validator.ValidateInterval(txCtx, req.BusinessID, p.staffID, p.start, p.end, appointmentRepo.OverlapExclusion{})
			if err != nil {
				return uc.mapValidationError(err, p.staffID)
			}
		}

		// 4.2. Создаем запись с денормализацией данных услуг
		appointment := &domain.Appointment{
			BusinessID:  req.BusinessID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			Status:      domain.StatusPending,
			Notes:       req.Notes,
			CheckInCode: uuid.NewString(),
			Services:    make([]domain.AppointmentService, 0, len(planned)),
		}

		for _, p := range planned {
			appointment.Services = append(appointment.Services, domain.AppointmentService{
				ServiceID: p.service.ID,
				StaffID:   ptr.Ptr(p.staffID),
				StartTime: p.start,
				EndTime:   p.end,
				// Снимок каталога на момент записи
				ServiceName: p.service.Name,
				Price:       p.service.Price,
			})
		}

		// Итоговая стоимость — производное поле, всегда пересчитывается
		// из снимков цен
		appointment.TotalPrice = appointment.CalculateTotalPrice()

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, total=%.2f",
		result.ID, result.TotalPrice)

	// 5. Пост-обработка вне транзакции: уведомление и сброс кеша слотов
	uc.notifier.AppointmentCreated(ctx, result)
	for _, p := range planned {
		uc.slotsCache.InvalidateStaffDate(ctx, req.BusinessID, p.staffID, req.Date)
	}

	return fromDomain(result), nil
}

// planServices вычисляет интервал каждой услуги и загружает снимки
// каталога. Услуги без явного времени начала идут встык за предыдущей.
func (uc *UseCase) planServices(ctx context.Context, req *Request) ([]plannedService, error) {
	cursor, err := req.StartTime.At(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	planned := make([]plannedService, 0, len(req.Services))

	for i, sel := range req.Services {
		service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, sel.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found", sel.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", sel.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if !service.HasValidDuration() {
			uc.logger.Warn("CreateAppointment: service id=%d has invalid duration %d",
				service.ID, service.DurationMinutes)
			return nil, fmt.Errorf("%w: service duration must be %d..%d minutes",
				ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
		}

		staff, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, sel.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("CreateAppointment: staff id=%d not found", sel.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", sel.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}

		if !staff.Active {
			uc.logger.Warn("CreateAppointment: staff id=%d is inactive", sel.StaffID)
			return nil, ErrStaffInactive
		}

		start := cursor
		if sel.StartTime != nil {
			start, err = sel.StartTime.At(req.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: services[%d] invalid startTime: %v", ErrInvalidInput, i, err)
			}

			gap := int(start.Sub(cursor).Minutes())
			if err := validateServiceGap(gap, uc.maxGapMinutes); err != nil {
				uc.logger.Warn("CreateAppointment: gap validation failed for services[%d]: %v", i, err)
				return nil, err
			}
		}

		end := start.Add(service.Duration())

		planned = append(planned, plannedService{
			service: service,
			staffID: sel.StaffID,
			start:   start,
			end:     end,
		})

		cursor = end
	}

	return planned, nil
}

// mapValidationError транслирует ошибки валидатора доступности в
// ошибки use case
func (uc *UseCase) mapValidationError(err error, staffID int64) error {
	switch {
	case errors.Is(err, availability.ErrPastDate):
		uc.logger.Warn("CreateAppointment: staff=%d interval is in the past", staffID)
		return ErrPastDate
	case errors.Is(err, availability.ErrInvalidRange):
		uc.logger.Warn("CreateAppointment: staff=%d invalid interval", staffID)
		return ErrInvalidRange
	case errors.Is(err, availability.ErrOutsideWorkingHours):
		uc.logger.Warn("CreateAppointment: staff=%d interval outside working hours", staffID)
		return ErrOutsideWorkingHours
	case errors.Is(err, availability.ErrDoubleBooking):
		uc.logger.Warn("CreateAppointment: staff=%d double booking", staffID)
		return ErrDoubleBooking
	default:
		uc.logger.Error("CreateAppointment: availability check failed for staff=%d: %v", staffID, err)
		return fmt.Errorf("%w: availability check failed: %v", ErrInternal, err)
	}
}
