package checkin

import (
	"context"

	"github.com/anwarakram/bookly/internal/service/appointments/models"
)

type AppointmentService interface {
	CheckIn(ctx context.Context, req *models.CheckInRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
