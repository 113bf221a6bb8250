package reschedule_appointment

import (
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	"github.com/anwarakram/bookly/pkg/types"
)

// Request модель запроса на перенос записи.
// Date и StartTime задают новое начало первой услуги; остальные услуги
// сдвигаются на ту же разницу во времени с сохранением длительностей.
type Request struct {
	AppointmentID int64            // ID записи
	Date          time.Time        // Новая дата (без времени)
	StartTime     types.TimeString // Новое время начала первой услуги
}

// ServiceLine строка услуги в ответе
type ServiceLine struct {
	ID          int64     // ID строки услуги
	ServiceID   int64     // ID услуги
	StaffID     *int64    // ID мастера
	StartTime   time.Time // Новое начало
	EndTime     time.Time // Новый конец
	ServiceName string    // Название услуги
	Price       float64   // Цена услуги
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID          int64   // ID записи
	BusinessID  int64   // ID бизнеса
	ClientName  string  // Имя клиента
	ClientPhone string  // Телефон клиента
	Status      string  // Статус записи
	TotalPrice  float64 // Итоговая стоимость

	Services []ServiceLine // Строки услуг с новыми интервалами
}

// fromDomain конвертирует перенесённую запись в response
func fromDomain(a *domain.Appointment) *Response {
	resp := &Response{
		ID:          a.ID,
		BusinessID:  a.BusinessID,
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		Status:      string(a.Status),
		TotalPrice:  a.TotalPrice,
		Services:    make([]ServiceLine, 0, len(a.Services)),
	}

	for _, svc := range a.Services {
		resp.Services = append(resp.Services, ServiceLine{
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
