package get_available_slots

import (
	"time"

	"github.com/anwarakram/bookly/internal/domain"
)

// Request модель запроса доступных слотов.
// StaffID опционально: без него слоты собираются по всем активным
// мастерам бизнеса.
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (без времени)
	StaffID    *int64    // ID мастера (опционально)
}

// Slot доступный слот в ответе
type Slot struct {
	StaffID   int64     `json:"staffId"`
	StaffName string    `json:"staffName"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Response модель ответа со списком доступных слотов
type Response struct {
	BusinessID int64     `json:"businessId"`
	ServiceID  int64     `json:"serviceId"`
	Date       time.Time `json:"date"`
	Slots      []Slot    `json:"slots"`
}

// fromDomainSlots конвертирует слоты в response
func fromDomainSlots(req *Request, slots []domain.Slot) *Response {
	resp := &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Slots:      make([]Slot, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{
			StaffID:   s.StaffID,
			StaffName: s.StaffName,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}
	return resp
}
