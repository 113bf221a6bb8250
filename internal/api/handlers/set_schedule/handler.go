package set_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/anwarakram/bookly/internal/api/handlers"
	"github.com/anwarakram/bookly/internal/domain"
	"github.com/anwarakram/bookly/internal/service/schedules"
	"github.com/anwarakram/bookly/internal/service/schedules/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidStaffID     = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStaffNotFound      = "мастер не найден"
	msgInvalidInterval    = "некорректный интервал расписания"
	msgScheduleOverlap    = "интервалы расписания пересекаются"
)

// setScheduleBody HTTP тело запроса: дата и интервалы
type setScheduleBody struct {
	Date      string                    `json:"date"` // "2026-09-01"
	Intervals []models.ScheduleInterval `json:"intervals"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/staff/{staffId}/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/staff/{id}/schedules - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/staff/{id}/schedules - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var body setScheduleBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /businesses/{id}/staff/{id}/schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, body.Date)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/staff/{id}/schedules - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Set(r.Context(), &models.SetScheduleRequest{
		BusinessID: businessID,
		StaffID:    staffID,
		Date:       date,
		Intervals:  body.Intervals,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrStaffNotFound):
			h.logger.Warn("PUT /businesses/{id}/staff/{id}/schedules - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, schedules.ErrScheduleOverlap):
			h.logger.Warn("PUT /businesses/{id}/staff/{id}/schedules - Overlapping intervals: staff_id=%d", staffID)
			handlers.RespondBadRequest(w, msgScheduleOverlap)

		case errors.Is(err, schedules.ErrInvalidInterval):
			h.logger.Warn("PUT /businesses/{id}/staff/{id}/schedules - Invalid interval: staff_id=%d", staffID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		default:
			h.logger.Error("PUT /businesses/{id}/staff/{id}/schedules - Failed: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/staff/{id}/schedules - Schedule saved: staff_id=%d, date=%s, intervals=%d",
		staffID, body.Date, len(result.Intervals))
	handlers.RespondJSON(w, http.StatusOK, result)
}
