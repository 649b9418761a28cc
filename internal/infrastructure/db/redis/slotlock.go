package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/pkg/logger"
)

// unlockScript deletes the lock key only when it still holds our token, so a
// lock that expired and was re-acquired by another caller is never released
// by us.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SlotLocker serialises booking attempts per calendar slot with a Redis
// SETNX lock. The unique index on the appointment collection remains the
// final arbiter; the lock just keeps concurrent requests from racing the
// availability check.
type SlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotLocker(client *redis.Client, ttl time.Duration) *SlotLocker {
	if ttl <= 0 {
		ttl = defaultTimeout
	}
	return &SlotLocker{client: client, ttl: ttl}
}

// WithSlotLock runs fn while holding the lock for slotKey. When the slot is
// already locked by another request it returns domain.ErrSlotBusy without
// calling fn.
func (l *SlotLocker) WithSlotLock(ctx context.Context, slotKey string, fn func(ctx context.Context) error) error {
	key := "lock:slot:" + slotKey
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return domain.ErrSlotBusy
	}

	defer func() {
		if _, err := unlockScript.Run(context.WithoutCancel(ctx), l.client, []string{key}, token).Result(); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Str("slot_key", slotKey).Msg("failed to release slot lock")
		}
	}()

	return fn(ctx)
}
