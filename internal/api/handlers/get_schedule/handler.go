package get_schedule

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
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidStaffID    = "некорректный ID мастера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStaffNotFound     = "мастер не найден"
)

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

// Handle GET /api/v1/businesses/{businessId}/staff/{staffId}/schedules?date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/staff/{id}/schedules - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	staffID, err := strconv.ParseInt(vars["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/staff/{id}/schedules - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/staff/{id}/schedules - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Get(r.Context(), &models.GetScheduleRequest{
		BusinessID: businessID,
		StaffID:    staffID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrStaffNotFound):
			h.logger.Warn("GET /businesses/{id}/staff/{id}/schedules - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/staff/{id}/schedules - Failed: staff_id=%d, error=%v",
				staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/staff/{id}/schedules - Returned %d interval(s): staff_id=%d, date=%s",
		len(result.Intervals), staffID, date.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, result)
}
