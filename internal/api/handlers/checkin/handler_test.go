package checkin

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anwarakram/bookly/internal/service/appointments"
	"github.com/anwarakram/bookly/internal/service/appointments/models"
)

type fakeService struct {
	resp    *models.AppointmentResponse
	err     error
	gotCode string
}

func (f *fakeService) CheckIn(_ context.Context, req *models.CheckInRequest) (*models.AppointmentResponse, error) {
	f.gotCode = req.CheckInCode
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(svc *fakeService, body string) *httptest.ResponseRecorder {
	handler := NewHandler(svc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkin", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentResponse{ID: 1, Status: "IN_PROGRESS"}}

	rec := doRequest(svc, `{"checkInCode":"code-1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "code-1", svc.gotCode)
}

func TestHandle_MissingCode(t *testing.T) {
	rec := doRequest(&fakeService{}, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_BadBody(t *testing.T) {
	rec := doRequest(&fakeService{}, `{"checkInCode":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown code", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"terminal state", appointments.ErrTerminalState, http.StatusConflict},
		{"not confirmed yet", appointments.ErrInvalidTransition, http.StatusConflict},
		{"internal", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&fakeService{err: tt.err}, `{"checkInCode":"code-1"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
