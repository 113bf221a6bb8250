package create_appointment

import (
	"errors"
	"net/http"

	"github.com/anwarakram/bookly/internal/api/handlers"
	createAppointment "github.com/anwarakram/bookly/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgBusinessNotFound    = "бизнес не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgStaffNotFound       = "мастер не найден"
	msgStaffInactive       = "мастер недоступен для записи"
	msgPastDate            = "время записи уже прошло"
	msgInvalidRange        = "некорректный временной интервал"
	msgOutsideWorkingHours = "время записи вне рабочего расписания мастера"
	msgDoubleBooking       = "выбранное время уже занято"
	msgServiceGapTooLarge  = "слишком большой разрыв между услугами"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrDoubleBooking):
			h.logger.Warn("POST /appointments - Double booking: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusConflict, msgDoubleBooking)

		case errors.Is(err, createAppointment.ErrBusinessNotFound):
			h.logger.Warn("POST /appointments - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrStaffInactive):
			h.logger.Warn("POST /appointments - Staff inactive: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusConflict, msgStaffInactive)

		case errors.Is(err, createAppointment.ErrPastDate):
			h.logger.Warn("POST /appointments - Past date: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createAppointment.ErrInvalidRange):
			h.logger.Warn("POST /appointments - Invalid range: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /appointments - Outside working hours: business_id=%d", req.BusinessID)
			handlers.RespondError(w, http.StatusConflict, msgOutsideWorkingHours)

		case errors.Is(err, createAppointment.ErrServiceGapTooLarge):
			h.logger.Warn("POST /appointments - Service gap too large: business_id=%d", req.BusinessID)
			handlers.RespondBadRequest(w, msgServiceGapTooLarge)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: business_id=%d, error=%v",
				req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, business_id=%d",
		result.ID, req.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
