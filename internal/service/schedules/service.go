package schedules

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/anwarakram/bookly/internal/domain"
	catalogRepo "github.com/anwarakram/bookly/internal/infra/storage/catalog"
	"github.com/anwarakram/bookly/internal/service/schedules/models"
)

// Service сервис управления рабочими расписаниями мастеров
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	slotsCache   SlotsCache
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	slotsCache SlotsCache,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		slotsCache:   slotsCache,
		logger:       logger,
	}
}

// Get получает расписание мастера на дату
func (s *Service) Get(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: business=%d, staff=%d, date=%s",
		req.BusinessID, req.StaffID, req.Date.Format(domain.DateFormat))

	if _, err := s.getStaff(ctx, req.BusinessID, req.StaffID, "GetSchedule"); err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.FindForStaffOnDate(ctx, req.BusinessID, req.StaffID, req.Date)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedules(req.BusinessID, req.StaffID, req.Date, schedules), nil
}

// Set заменяет расписание мастера на дату новым набором интервалов.
// Интервалы одной даты не должны пересекаться; пустой набор делает день
// нерабочим. Замена выполняется в транзакции: при ошибке старое
// расписание остается нетронутым.
func (s *Service) Set(ctx context.Context, req *models.SetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("SetSchedule: business=%d, staff=%d, date=%s, intervals=%d",
		req.BusinessID, req.StaffID, req.Date.Format(domain.DateFormat), len(req.Intervals))

	if _, err := s.getStaff(ctx, req.BusinessID, req.StaffID, "SetSchedule"); err != nil {
		return nil, err
	}

	intervals, err := req.ToDomainIntervals()
	if err != nil {
		s.logger.Warn("SetSchedule: invalid interval format for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}

	if err := validateIntervals(intervals); err != nil {
		s.logger.Warn("SetSchedule: interval validation failed for staff=%d: %v", req.StaffID, err)
		return nil, err
	}

	var saved []domain.WorkingSchedule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		saved, err = s.scheduleRepo.ReplaceForStaffOnDate(txCtx, req.BusinessID, req.StaffID, req.Date, intervals)
		if err != nil {
			s.logger.Error("SetSchedule: repository error for staff=%d: %v", req.StaffID, err)
			return fmt.Errorf("%w: SetSchedule - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SetSchedule: saved %d interval(s) for staff=%d on %s",
		len(saved), req.StaffID, req.Date.Format(domain.DateFormat))
	s.slotsCache.InvalidateStaffDate(ctx, req.BusinessID, req.StaffID, req.Date)

	return models.FromDomainSchedules(req.BusinessID, req.StaffID, req.Date, saved), nil
}

func (s *Service) getStaff(ctx context.Context, businessID, staffID int64, op string) (*domain.StaffMember, error) {
	staff, err := s.catalogRepo.GetStaff(ctx, businessID, staffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff id=%d not found in business=%d", op, staffID, businessID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("%s: failed to get staff id=%d: %v", op, staffID, err)
		return nil, fmt.Errorf("%w: %s - failed to get staff: %v", ErrInternal, op, err)
	}
	return staff, nil
}

// validateIntervals проверяет, что каждый интервал корректен и что
// интервалы попарно не пересекаются
func validateIntervals(intervals []domain.WorkingSchedule) error {
	for i := range intervals {
		if !intervals[i].StartTime.IsBefore(intervals[i].EndTime) {
			return ErrInvalidInterval
		}
	}

	sorted := make([]domain.WorkingSchedule, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.IsBefore(sorted[j].StartTime)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartTime.IsBefore(sorted[i-1].EndTime) {
			return ErrScheduleOverlap
		}
	}

	return nil
}
