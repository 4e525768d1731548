// Package cache кеширует сетки слотов в Redis.
// Кеш read-through: промах или ошибка Redis приводят к пересчету из БД,
// запись о бронировании или блокировке инвалидирует день корта.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/Arena-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// SlotsCache кеш дневных сеток слотов по кортам
type SlotsCache struct {
	client *redis.Client
	ttl    time.Duration
	logs   Logger
}

// NewSlotsCache создает кеш поверх подключения к Redis
func NewSlotsCache(client *redis.Client, ttl time.Duration, logs Logger) *SlotsCache {
	return &SlotsCache{
		client: client,
		ttl:    ttl,
		logs:   logs,
	}
}

func slotsKey(courtID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%s", courtID, date.Format(domain.DateFormat))
}

// Get возвращает закешированную сетку слотов.
// Второе значение false означает промах: ошибки Redis и битые данные
// трактуются как промах и логируются.
func (c *SlotsCache) Get(ctx context.Context, courtID int64, date time.Time) ([]domain.Slot, bool) {
	raw, err := c.client.Get(ctx, slotsKey(courtID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logs.Warn("[cache] failed to get slots for court %d: %v", courtID, err)
		return nil, false
	}

	var slots []domain.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.logs.Warn("[cache] corrupted slots entry for court %d: %v", courtID, err)
		return nil, false
	}

	return slots, true
}

// Set записывает сетку слотов в кеш с TTL
func (c *SlotsCache) Set(ctx context.Context, courtID int64, date time.Time, slots []domain.Slot) {
	raw, err := json.Marshal(slots)
	if err != nil {
		c.logs.Warn("[cache] failed to marshal slots for court %d: %v", courtID, err)
		return
	}

	if err := c.client.Set(ctx, slotsKey(courtID, date), raw, c.ttl).Err(); err != nil {
		c.logs.Warn("[cache] failed to set slots for court %d: %v", courtID, err)
	}
}

// Invalidate сбрасывает кеш сетки на день корта
func (c *SlotsCache) Invalidate(ctx context.Context, courtID int64, date time.Time) {
	if err := c.client.Del(ctx, slotsKey(courtID, date)).Err(); err != nil {
		c.logs.Warn("[cache] failed to invalidate slots for court %d: %v", courtID, err)
	}
}
