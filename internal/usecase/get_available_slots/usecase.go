package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
	catalogRepo "github.com/anwarakram/bookly/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogRepo     CatalogRepository
	slotsCache      SlotsCache
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	slotsCache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		catalogRepo:     catalogRepo,
		slotsCache:      slotsCache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s, staff=%v",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StaffID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Прошедшая дата — пустой список, не ошибка
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return fromDomainSlots(req, nil), nil
	}

	// 3. Получаем услугу — её длительность задаёт длину кандидатов
	service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Определяем мастеров: один указанный или все активные
	staff, err := uc.resolveStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Пробуем кеш
	cacheStaffID := int64(0)
	if req.StaffID != nil {
		cacheStaffID = *req.StaffID
	}
	if cached, ok := uc.slotsCache.GetSlots(ctx, req.BusinessID, cacheStaffID, req.ServiceID, req.Date); ok {
		uc.logger.Info("GetAvailableSlots: cache hit, %d slots", len(cached))
		return fromDomainSlots(req, cached), nil
	}

	// 6. Генерируем слоты каждого мастера
	allSlots := make([]domain.Slot, 0)
	for _, member := range staff {
		slots, err := uc.staffSlots(ctx, req, member, service.Duration(), now)
		if err != nil {
			return nil, err
		}
		allSlots = append(allSlots, slots...)
	}

	// 7. Упорядочиваем: по времени начала, затем по имени мастера
	sortSlots(allSlots)

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(allSlots), req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	uc.slotsCache.SetSlots(ctx, req.BusinessID, cacheStaffID, req.ServiceID, req.Date, allSlots)

	return fromDomainSlots(req, allSlots), nil
}

// resolveStaff возвращает указанного мастера или всех активных мастеров
// бизнеса
func (uc *UseCase) resolveStaff(ctx context.Context, req *Request) ([]*domain.StaffMember, error) {
	if req.StaffID != nil {
		member, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, *req.StaffID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				uc.logger.Warn("GetAvailableSlots: staff id=%d not found", *req.StaffID)
				return nil, ErrStaffNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", *req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
		}
		return []*domain.StaffMember{member}, nil
	}

	staff, err := uc.catalogRepo.ListActiveStaff(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list staff for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}
	return staff, nil
}

// staffSlots генерирует слоты одного мастера: расписание на дату плюс
// занятые интервалы активных записей за день
func (uc *UseCase) staffSlots(ctx context.Context, req *Request, member *domain.StaffMember, serviceDuration time.Duration, now time.Time) ([]domain.Slot, error) {
	schedules, err := uc.scheduleRepo.FindForStaffOnDate(ctx, req.BusinessID, member.ID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedules for staff=%d: %v", member.ID, err)
		return nil, fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
	}

	if len(schedules) == 0 {
		return nil, nil
	}

	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	busy, err := uc.appointmentRepo.FindActiveOverlapping(ctx, member.ID, dayStart, dayEnd, appointmentRepo.OverlapExclusion{})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get busy intervals for staff=%d: %v", member.ID, err)
		return nil, fmt.Errorf("%w: failed to get busy intervals: %v", ErrInternal, err)
	}

	return generateStaffSlots(member, schedules, busy, serviceDuration, req.Date, now), nil
}
