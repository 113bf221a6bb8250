package change_status

import (
	"context"

	"github.com/anwarakram/bookly/internal/service/appointments/models"
)

type AppointmentService interface {
	ChangeStatus(ctx context.Context, appointmentID int64, req *models.ChangeStatusRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
