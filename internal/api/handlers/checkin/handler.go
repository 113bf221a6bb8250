package checkin

import (
	"errors"
	"net/http"

	"github.com/anwarakram/bookly/internal/api/handlers"
	"github.com/anwarakram/bookly/internal/service/appointments"
	"github.com/anwarakram/bookly/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingCode        = "отсутствует код чек-ина"
	msgNotFound           = "запись по коду не найдена"
	msgTerminalState      = "запись уже завершена или отменена"
	msgInvalidTransition  = "чек-ин доступен только для подтверждённой записи"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/checkin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkin - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.CheckInCode == "" {
		h.logger.Warn("POST /checkin - Missing check-in code")
		handlers.RespondBadRequest(w, msgMissingCode)
		return
	}

	result, err := h.service.CheckIn(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /checkin - No appointment for code")
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrTerminalState):
			h.logger.Warn("POST /checkin - Terminal state")
			handlers.RespondError(w, http.StatusConflict, msgTerminalState)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("POST /checkin - Invalid transition")
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("POST /checkin - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /checkin - Appointment checked in: appointment_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
