package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/anwarakram/bookly/internal/domain"
	appointmentRepo "github.com/anwarakram/bookly/internal/infra/storage/appointment"
	"github.com/anwarakram/bookly/internal/service/appointments/models"
)

// Service сервис для работы с существующими записями: чтение, отмена,
// жизненный цикл статусов, чек-ин клиента
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByBusiness получает записи бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по мастеру, периоду, статусу и включению
// неактивных записей
func (s *Service) ListByBusiness(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListByBusiness: fetching appointments for business=%d, staff=%v, status=%v",
		req.BusinessID, req.StaffID, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByBusiness: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBusiness: successfully fetched %d appointments for business=%d",
		len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись с указанием причины.
// Эквивалентно переходу в CANCELLED: после отмены интервалы мастера
// сразу освобождаются для новых записей. Отмена уже отменённой или
// завершённой записи запрещена.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d", appointmentID)

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getForUpdate(txCtx, appointmentID, "Cancel")
		if err != nil {
			return err
		}

		if appointment.Status.IsTerminal() {
			s.logger.Warn("Cancel: appointment id=%d is in terminal status=%s", appointmentID, appointment.Status)
			return ErrTerminalState
		}

		if err := s.appointmentRepo.Cancel(txCtx, appointmentID, req.CancellationReason); err != nil {
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		appointment.Status = domain.StatusCancelled
		appointment.CancellationReason = req.CancellationReason
		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	s.notifier.AppointmentCancelled(ctx, result)

	return models.FromDomainAppointment(result), nil
}

// ChangeStatus переводит запись в новый статус по машине состояний:
// PENDING -> CONFIRMED -> IN_PROGRESS -> COMPLETED, любой активный
// статус -> CANCELLED. Терминальные статусы не покидаются.
func (s *Service) ChangeStatus(ctx context.Context, appointmentID int64, req *models.ChangeStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("ChangeStatus: updating appointment id=%d to status=%s", appointmentID, req.Status)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("ChangeStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var result *domain.Appointment
	var oldStatus domain.AppointmentStatus

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getForUpdate(txCtx, appointmentID, "ChangeStatus")
		if err != nil {
			return err
		}

		if appointment.Status.IsTerminal() {
			s.logger.Warn("ChangeStatus: appointment id=%d is in terminal status=%s", appointmentID, appointment.Status)
			return ErrTerminalState
		}

		if !appointment.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("ChangeStatus: invalid transition %s -> %s for appointment id=%d",
				appointment.Status, newStatus, appointmentID)
			return ErrInvalidTransition
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointmentID, newStatus); err != nil {
			s.logger.Error("ChangeStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: ChangeStatus - repository error: %v", ErrInternal, err)
		}

		oldStatus = appointment.Status
		appointment.Status = newStatus
		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ChangeStatus: successfully updated appointment id=%d: %s -> %s",
		appointmentID, oldStatus, result.Status)
	s.notifier.AppointmentStatusChanged(ctx, result, oldStatus)

	return models.FromDomainAppointment(result), nil
}

// CheckIn отмечает приход клиента по коду чек-ина: запись переходит из
// CONFIRMED в IN_PROGRESS
func (s *Service) CheckIn(ctx context.Context, req *models.CheckInRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("CheckIn: looking up appointment by check-in code")

	var result *domain.Appointment
	var oldStatus domain.AppointmentStatus

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByCheckInCode(txCtx, req.CheckInCode)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("CheckIn: no appointment for provided check-in code")
				return ErrAppointmentNotFound
			}
			s.logger.Error("CheckIn: repository error: %v", err)
			return fmt.Errorf("%w: CheckIn - repository error: %v", ErrInternal, err)
		}

		if appointment.Status.IsTerminal() {
			s.logger.Warn("CheckIn: appointment id=%d is in terminal status=%s", appointment.ID, appointment.Status)
			return ErrTerminalState
		}

		if !appointment.Status.CanTransitionTo(domain.StatusInProgress) {
			s.logger.Warn("CheckIn: invalid transition %s -> %s for appointment id=%d",
				appointment.Status, domain.StatusInProgress, appointment.ID)
			return ErrInvalidTransition
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointment.ID, domain.StatusInProgress); err != nil {
			s.logger.Error("CheckIn: repository error for appointment id=%d: %v", appointment.ID, err)
			return fmt.Errorf("%w: CheckIn - repository error: %v", ErrInternal, err)
		}

		oldStatus = appointment.Status
		appointment.Status = domain.StatusInProgress
		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CheckIn: appointment id=%d checked in", result.ID)
	s.notifier.AppointmentStatusChanged(ctx, result, oldStatus)

	return models.FromDomainAppointment(result), nil
}

// getForUpdate получает запись внутри транзакции с блокировкой строки
func (s *Service) getForUpdate(ctx context.Context, id int64, op string) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}
