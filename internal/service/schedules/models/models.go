package models

import (
	"time"

	"github.com/anwarakram/bookly/internal/domain"
	"github.com/anwarakram/bookly/pkg/types"
)

// Request модели

// ScheduleInterval один интервал рабочего времени
type ScheduleInterval struct {
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
}

// SetScheduleRequest запрос на замену расписания мастера на дату.
// Пустой список интервалов делает день нерабочим.
type SetScheduleRequest struct {
	BusinessID int64              `json:"businessId"`
	StaffID    int64              `json:"staffId"`
	Date       time.Time          `json:"date"`
	Intervals  []ScheduleInterval `json:"intervals"`
}

// GetScheduleRequest запрос расписания мастера на дату
type GetScheduleRequest struct {
	BusinessID int64     `json:"businessId"`
	StaffID    int64     `json:"staffId"`
	Date       time.Time `json:"date"`
}

// ToDomainIntervals конвертирует интервалы запроса в domain модели
func (r *SetScheduleRequest) ToDomainIntervals() ([]domain.WorkingSchedule, error) {
	intervals := make([]domain.WorkingSchedule, 0, len(r.Intervals))
	for _, in := range r.Intervals {
		start, err := types.NewTimeStringFromString(in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(in.EndTime)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, domain.WorkingSchedule{
			BusinessID: r.BusinessID,
			StaffID:    r.StaffID,
			Date:       r.Date,
			StartTime:  start,
			EndTime:    end,
		})
	}
	return intervals, nil
}

// Response модели

// ScheduleIntervalResponse интервал расписания в ответе
type ScheduleIntervalResponse struct {
	ID        int64  `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ScheduleResponse расписание мастера на дату
type ScheduleResponse struct {
	BusinessID int64                      `json:"businessId"`
	StaffID    int64                      `json:"staffId"`
	Date       string                     `json:"date"` // "2026-08-25"
	Intervals  []ScheduleIntervalResponse `json:"intervals"`
}

// FromDomainSchedules конвертирует интервалы в DTO
func FromDomainSchedules(businessID, staffID int64, date time.Time, schedules []domain.WorkingSchedule) *ScheduleResponse {
	resp := &ScheduleResponse{
		BusinessID: businessID,
		StaffID:    staffID,
		Date:       date.Format(domain.DateFormat),
		Intervals:  make([]ScheduleIntervalResponse, 0, len(schedules)),
	}
	for _, s := range schedules {
		resp.Intervals = append(resp.Intervals, ScheduleIntervalResponse{
			ID:        s.ID,
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		})
	}
	return resp
}
