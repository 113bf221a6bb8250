package get_available_slots

import (
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	getAvailableSlots "github.com/anwarakram/bookly/internal/usecase/get_available_slots"
)

// SlotResponse доступный слот в HTTP ответе
type SlotResponse struct {
	StaffID   int64  `json:"staffId"`
	StaffName string `json:"staffName"`
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:45"
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	BusinessID int64          `json:"businessId"`
	ServiceID  int64          `json:"serviceId"`
	Date       string         `json:"date"` // "2026-09-01"
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StaffID:   s.StaffID,
			StaffName: s.StaffName,
			StartTime: s.StartTime.Format(domain.TimeFormat),
			EndTime:   s.EndTime.Format(domain.TimeFormat),
		})
	}

	return out
}

// parseDate парсит дату из query-параметра
func parseDate(value string) (time.Time, error) {
	return time.Parse(domain.DateFormat, value)
}
