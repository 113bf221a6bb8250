package reschedule_appointment

import (
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	rescheduleAppointment "github.com/anwarakram/bookly/internal/usecase/reschedule_appointment"
	"github.com/anwarakram/bookly/pkg/types"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	Date      string `json:"date"`      // "2026-09-01"
	StartTime string `json:"startTime"` // "14:00"
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
	TotalPrice  float64               `json:"totalPrice"`
	Services    []ServiceLineResponse `json:"services"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		Date:          date,
		StartTime:     startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:          resp.ID,
		BusinessID:  resp.BusinessID,
		ClientName:  resp.ClientName,
		ClientPhone: resp.ClientPhone,
		Status:      resp.Status,
		TotalPrice:  resp.TotalPrice,
		Services:    make([]ServiceLineResponse, 0, len(resp.Services)),
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
