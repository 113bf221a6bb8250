package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarakram/bookly/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:         1,
		BusinessID: 2,
		Status:     domain.StatusConfirmed,
	}
}

// waitEvent ждет доставки события: отправка уходит в фоне
func waitEvent(t *testing.T, events <-chan event) event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("событие не доставлено")
		return event{}
	}
}

func newTestServer(t *testing.T) (*httptest.Server, <-chan event) {
	t.Helper()

	events := make(chan event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var ev event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		events <- ev
	}))
	t.Cleanup(srv.Close)
	return srv, events
}

func TestAppointmentCreated(t *testing.T) {
	srv, events := newTestServer(t)
	client := NewClient(srv.URL, 2*time.Second, nopLogger{})

	client.AppointmentCreated(context.Background(), testAppointment())

	ev := waitEvent(t, events)
	assert.Equal(t, "appointment.created", ev.Event)
	assert.Equal(t, int64(1), ev.AppointmentID)
	assert.Equal(t, int64(2), ev.BusinessID)
	assert.Equal(t, "CONFIRMED", ev.Status)
	assert.Nil(t, ev.OldStatus)

	_, err := time.Parse(time.RFC3339, ev.OccurredAt)
	assert.NoError(t, err)
}

func TestAppointmentStatusChanged(t *testing.T) {
	srv, events := newTestServer(t)
	client := NewClient(srv.URL, 2*time.Second, nopLogger{})

	client.AppointmentStatusChanged(context.Background(), testAppointment(), domain.StatusPending)

	ev := waitEvent(t, events)
	assert.Equal(t, "appointment.status_changed", ev.Event)
	assert.Equal(t, "CONFIRMED", ev.Status)
	require.NotNil(t, ev.OldStatus)
	assert.Equal(t, "PENDING", *ev.OldStatus)
}

func TestEventNames(t *testing.T) {
	srv, events := newTestServer(t)
	client := NewClient(srv.URL, 2*time.Second, nopLogger{})
	ctx := context.Background()

	client.AppointmentRescheduled(ctx, testAppointment())
	assert.Equal(t, "appointment.rescheduled", waitEvent(t, events).Event)

	client.AppointmentCancelled(ctx, testAppointment())
	assert.Equal(t, "appointment.cancelled", waitEvent(t, events).Event)
}

func TestDeliveryFailureDoesNotPanic(t *testing.T) {
	// Недоступный webhook не должен ронять операцию
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nopLogger{})

	client.AppointmentCreated(context.Background(), testAppointment())
	time.Sleep(300 * time.Millisecond)
}
