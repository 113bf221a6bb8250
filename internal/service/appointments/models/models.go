package models

import (
	"errors"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ChangeStatusRequest запрос на смену статуса записи
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// CheckInRequest запрос чек-ина клиента по коду
type CheckInRequest struct {
	CheckInCode string `json:"checkInCode"`
}

// ListAppointmentsRequest запрос на получение записей бизнеса
type ListAppointmentsRequest struct {
	BusinessID      int64      `json:"businessId"`
	StaffID         *int64     `json:"staffId,omitempty"`         // Фильтр по мастеру (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		BusinessID:      r.BusinessID,
		StaffID:         r.StaffID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentServiceResponse строка услуги внутри записи
type AppointmentServiceResponse struct {
	ID          int64     `json:"id"`
	ServiceID   int64     `json:"serviceId"`
	StaffID     *int64    `json:"staffId,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	ServiceName string    `json:"serviceName"`
	Price       float64   `json:"price"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID          int64  `json:"id"`
	BusinessID  int64  `json:"businessId"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Status      string `json:"status"`

	Notes       *string `json:"notes,omitempty"`
	CheckInCode string  `json:"checkInCode"`
	TotalPrice  float64 `json:"totalPrice"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	Services []AppointmentServiceResponse `json:"services"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		BusinessID:         a.BusinessID,
		ClientName:         a.ClientName,
		ClientPhone:        a.ClientPhone,
		Status:             string(a.Status),
		Notes:              a.Notes,
		CheckInCode:        a.CheckInCode,
		TotalPrice:         a.TotalPrice,
		CancellationReason: a.CancellationReason,
		Services:           make([]AppointmentServiceResponse, 0, len(a.Services)),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		formatted := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}

	for _, svc := range a.Services {
		resp.Services = append(resp.Services, AppointmentServiceResponse{
			ID:          svc.ID,
			ServiceID:   svc.ServiceID,
			StaffID:     svc.StaffID,
			StartTime:   svc.StartTime,
			EndTime:     svc.EndTime,
			ServiceName: svc.ServiceName,
			Price:       svc.Price,
		})
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
