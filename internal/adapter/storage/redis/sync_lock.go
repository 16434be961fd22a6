package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// unlockScript deletes the lock only if this holder still owns it.
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SyncLocker implements ports.SyncLocker with SET NX PX so sync passes for one
// account never overlap, even across node replicas.
type SyncLocker struct {
	client *goredis.Client
	prefix string
	log    zerolog.Logger
}

// NewSyncLocker creates a new Redis-backed sync lock.
func NewSyncLocker(client *goredis.Client, log zerolog.Logger) *SyncLocker {
	return &SyncLocker{
		client: client,
		prefix: "synclock:",
		log:    log,
	}
}

// TryLock acquires key for ttl without waiting.
func (l *SyncLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis sync lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func() {
		// Detached from the caller so a cancelled pass still releases its lock.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("Failed to release sync lock, it will expire")
		}
	}
	return unlock, true, nil
}
