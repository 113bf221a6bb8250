package create_appointment

import (
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	createAppointment "github.com/anwarakram/bookly/internal/usecase/create_appointment"
	"github.com/anwarakram/bookly/pkg/types"
)

// ServiceSelectionRequest выбранная услуга в HTTP запросе
type ServiceSelectionRequest struct {
	ServiceID int64   `json:"serviceId"`
	StaffID   int64   `json:"staffId"`
	StartTime *string `json:"startTime,omitempty"` // "10:30", опционально
}

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID  int64                     `json:"businessId"`
	ClientName  string                    `json:"clientName"`
	ClientPhone string                    `json:"clientPhone"`
	Date        string                    `json:"date"`      // "2026-09-01"
	StartTime   string                    `json:"startTime"` // "10:00"
	Services    []ServiceSelectionRequest `json:"services"`
	Notes       *string                   `json:"notes,omitempty"`
}

// ServiceLineResponse строка услуги в HTTP ответе
type ServiceLineResponse struct {
	ID          int64   `json:"id"`
	ServiceID   int64   `json:"serviceId"`
	StaffID     *int64  `json:"staffId,omitempty"`
	StartTime   string  `json:"startTime"` // ISO 8601
	EndTime     string  `json:"endTime"`   // ISO 8601
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64                 `json:"id"`
	BusinessID  int64                 `json:"businessId"`
	ClientName  string                `json:"clientName"`
	ClientPhone string                `json:"clientPhone"`
	Status      string                `json:"status"`
	CheckInCode string                `json:"checkInCode"`
	TotalPrice  float64               `json:"totalPrice"`
	Notes       *string               `json:"notes,omitempty"`
	Services    []ServiceLineResponse `json:"services"`
	CreatedAt   string                `json:"createdAt"`
	UpdatedAt   string                `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	services := make([]createAppointment.ServiceSelection, 0, len(r.Services))
	for _, sel := range r.Services {
		selection := createAppointment.ServiceSelection{
			ServiceID: sel.ServiceID,
			StaffID:   sel.StaffID,
		}
		if sel.StartTime != nil {
			ts, err := types.NewTimeStringFromString(*sel.StartTime)
			if err != nil {
				return nil, err
			}
			selection.StartTime = &ts
		}
		services = append(services, selection)
	}

	return &createAppointment.Request{
		BusinessID:  r.BusinessID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		Date:        date,
		StartTime:   startTime,
		Services:    services,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:          resp.ID,
		BusinessID:  resp.BusinessID,
		ClientName:  resp.ClientName,
		ClientPhone: resp.ClientPhone,
		Status:      resp.Status,
		CheckInCode: resp.CheckInCode,
		TotalPrice:  resp.TotalPrice,
		Notes:       resp.Notes,
		Services:    make([]ServiceLineResponse, 0, len(resp.Services)),
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}

	for _, line := range resp.Services {
		out.Services = append(out.Services, ServiceLineResponse{
			ID:          line.ID,
			ServiceID:   line.ServiceID,
			StaffID:     line.StaffID,
			StartTime:   line.StartTime.Format(time.RFC3339),
			EndTime:     line.EndTime.Format(time.RFC3339),
			ServiceName: line.ServiceName,
			Price:       line.Price,
		})
	}

	return out
}
