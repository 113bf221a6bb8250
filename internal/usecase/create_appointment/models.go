package create_appointment

import (
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	"github.com/anwarakram/bookly/pkg/types"
)

// ServiceSelection выбранная услуга в составе записи.
// StartTime опционально: если не указано, услуга начинается сразу после
// предыдущей (первая — в StartTime запроса).
type ServiceSelection struct {
	ServiceID int64             // ID услуги
	StaffID   int64             // ID мастера
	StartTime *types.TimeString // Время начала услуги (опционально)
}

// Request модель запроса на создание записи
type Request struct {
	BusinessID  int64              // ID бизнеса
	ClientName  string             // Имя клиента
	ClientPhone string             // Телефон клиента
	Date        time.Time          // Дата записи (без времени)
	StartTime   types.TimeString   // Время начала первой услуги (например, "10:00")
	Services    []ServiceSelection // Выбранные услуги с мастерами
	Notes       *string            // Дополнительные заметки (опционально)
}

// ServiceLine строка услуги в ответе
type ServiceLine struct {
	ID          int64     // ID строки услуги
	ServiceID   int64     // ID услуги
	StaffID     *int64    // ID мастера
	StartTime   time.Time // Начало
	EndTime     time.Time // Конец
	ServiceName string    // Название услуги (снимок на момент записи)
	Price       float64   // Цена услуги (снимок на момент записи)
}

// Response модель ответа с созданной записью
type Response struct {
	ID          int64  // ID созданной записи
	BusinessID  int64  // ID бизнеса
	ClientName  string // Имя клиента
	ClientPhone string // Телефон клиента
	Status      string // Статус записи

	CheckInCode string  // Код чек-ина клиента
	TotalPrice  float64 // Итоговая стоимость (сумма снимков цен)
	Notes       *string // Заметки

	Services []ServiceLine // Строки услуг

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

// fromDomain конвертирует созданную запись в response
func fromDomain(a *domain.Appointment) *Response {
	resp := &Response{
		ID:          a.ID,
		BusinessID:  a.BusinessID,
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		Status:      string(a.Status),
		CheckInCode: a.CheckInCode,
		TotalPrice:  a.TotalPrice,
		Notes:       a.Notes,
		Services:    make([]ServiceLine, 0, len(a.Services)),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
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
