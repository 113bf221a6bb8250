package slots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anwarakram/bookly/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Cache кеш результатов генерации слотов в Redis.
// Ключ включает бизнес, мастера (0 — все мастера), услугу и дату.
// Кеш строго вспомогательный: любая ошибка Redis трактуется как промах,
// запрос уходит в БД.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

// NewCache создает новый экземпляр кеша слотов
func NewCache(client *redis.Client, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func slotsKey(businessID, staffID, serviceID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%d:%d:%s", businessID, staffID, serviceID, date.Format(domain.DateFormat))
}

// GetSlots читает закешированные слоты; второй результат — признак
// попадания
func (c *Cache) GetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time) ([]domain.Slot, bool) {
	key := slotsKey(businessID, staffID, serviceID, date)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("SlotsCache: get %s failed: %v", key, err)
		return nil, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal(payload, &slots); err != nil {
		c.logger.Warn("SlotsCache: corrupted payload for %s: %v", key, err)
		return nil, false
	}

	return slots, true
}

// SetSlots сохраняет слоты с настроенным TTL
func (c *Cache) SetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time, slots []domain.Slot) {
	key := slotsKey(businessID, staffID, serviceID, date)

	payload, err := json.Marshal(slots)
	if err != nil {
		c.logger.Error("SlotsCache: marshal failed for %s: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("SlotsCache: set %s failed: %v", key, err)
	}
}

// InvalidateStaffDate сбрасывает все ключи бизнеса на дату.
// Инвалидация намеренно грубая: изменение расписания или записи одного
// мастера меняет и агрегированные выдачи по всем мастерам.
func (c *Cache) InvalidateStaffDate(ctx context.Context, businessID, staffID int64, date time.Time) {
	pattern := fmt.Sprintf("slots:%d:*:*:%s", businessID, date.Format(domain.DateFormat))

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	deleted := 0
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("SlotsCache: delete %s failed: %v", iter.Val(), err)
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("SlotsCache: scan %s failed: %v", pattern, err)
		return
	}

	if deleted > 0 {
		c.logger.Info("SlotsCache: invalidated %d key(s) for business=%d, date=%s",
			deleted, businessID, date.Format(domain.DateFormat))
	}
}

// Noop реализация кеша, когда Redis выключен в конфигурации
type Noop struct{}

// NewNoop создает кеш-заглушку
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) GetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time) ([]domain.Slot, bool) {
	return nil, false
}

func (n *Noop) SetSlots(ctx context.Context, businessID, staffID, serviceID int64, date time.Time, slots []domain.Slot) {
}

func (n *Noop) InvalidateStaffDate(ctx context.Context, businessID, staffID int64, date time.Time) {}
