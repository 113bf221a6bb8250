package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/anwarakram/bookly/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// event webhook-событие о записи
type event struct {
	Event         string  `json:"event"`
	AppointmentID int64   `json:"appointmentId"`
	BusinessID    int64   `json:"businessId"`
	Status        string  `json:"status"`
	OldStatus     *string `json:"oldStatus,omitempty"`
	OccurredAt    string  `json:"occurredAt"` // ISO 8601
}

// Client HTTP-клиент webhook-уведомлений о событиях записи.
// Уведомления отправляются в фоне и не влияют на результат операции:
// ошибка доставки только логируется.
type Client struct {
	httpClient *http.Client
	url        string
	logger     Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(url string, timeout time.Duration, logger Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger,
	}
}

// AppointmentCreated уведомляет о создании записи
func (c *Client) AppointmentCreated(ctx context.Context, appointment *domain.Appointment) {
	c.send("appointment.created", appointment, nil)
}

// AppointmentRescheduled уведомляет о переносе записи
func (c *Client) AppointmentRescheduled(ctx context.Context, appointment *domain.Appointment) {
	c.send("appointment.rescheduled", appointment, nil)
}

// AppointmentCancelled уведомляет об отмене записи
func (c *Client) AppointmentCancelled(ctx context.Context, appointment *domain.Appointment) {
	c.send("appointment.cancelled", appointment, nil)
}

// AppointmentStatusChanged уведомляет о смене статуса записи
func (c *Client) AppointmentStatusChanged(ctx context.Context, appointment *domain.Appointment, oldStatus domain.AppointmentStatus) {
	old := string(oldStatus)
	c.send("appointment.status_changed", appointment, &old)
}

// send отправляет событие в фоне. Контекст запроса не используется:
// доставка не должна обрываться вместе с HTTP-запросом клиента.
func (c *Client) send(name string, appointment *domain.Appointment, oldStatus *string) {
	ev := event{
		Event:         name,
		AppointmentID: appointment.ID,
		BusinessID:    appointment.BusinessID,
		Status:        string(appointment.Status),
		OldStatus:     oldStatus,
		OccurredAt:    time.Now().Format(time.RFC3339),
	}

	go func() {
		payload, err := json.Marshal(ev)
		if err != nil {
			c.logger.Error("Notify: marshal %s failed: %v", name, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			c.logger.Error("Notify: build request for %s failed: %v", name, err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Notify: %s delivery failed: %v", name, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			c.logger.Warn("Notify: %s delivery returned %s", name, fmt.Sprint(resp.StatusCode))
			return
		}

		c.logger.Info("Notify: delivered %s for appointment id=%d", name, ev.AppointmentID)
	}()
}

// Noop реализация уведомлений, когда webhook не настроен
type Noop struct{}

// NewNoop создает клиент-заглушку
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) AppointmentCreated(ctx context.Context, appointment *domain.Appointment)     {}
func (n *Noop) AppointmentRescheduled(ctx context.Context, appointment *domain.Appointment) {}
func (n *Noop) AppointmentCancelled(ctx context.Context, appointment *domain.Appointment)   {}
func (n *Noop) AppointmentStatusChanged(ctx context.Context, appointment *domain.Appointment, oldStatus domain.AppointmentStatus) {
}
