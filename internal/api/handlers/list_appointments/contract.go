package list_appointments

import (
	"context"

	"github.com/anwarakram/bookly/internal/service/appointments/models"
)

type AppointmentService interface {
	ListByBusiness(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
