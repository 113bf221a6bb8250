package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/anwarakram/bookly/internal/api/handlers"
	rescheduleAppointment "github.com/anwarakram/bookly/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgNotFound             = "запись не найдена"
	msgTerminalState        = "запись завершена или отменена и не может быть перенесена"
	msgPastDate             = "время записи уже прошло"
	msgInvalidRange         = "некорректный временной интервал"
	msgOutsideWorkingHours  = "время записи вне рабочего расписания мастера"
	msgDoubleBooking        = "выбранное время уже занято"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrTerminalState):
			h.logger.Warn("POST /appointments/{id}/reschedule - Terminal state: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgTerminalState)

		case errors.Is(err, rescheduleAppointment.ErrDoubleBooking):
			h.logger.Warn("POST /appointments/{id}/reschedule - Double booking: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgDoubleBooking)

		case errors.Is(err, rescheduleAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /appointments/{id}/reschedule - Outside working hours: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgOutsideWorkingHours)

		case errors.Is(err, rescheduleAppointment.ErrPastDate):
			h.logger.Warn("POST /appointments/{id}/reschedule - Past date: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, rescheduleAppointment.ErrInvalidRange):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid range: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInput), errors.Is(err, rescheduleAppointment.ErrNoServices):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments/{id}/reschedule - Appointment moved: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, response)
}
