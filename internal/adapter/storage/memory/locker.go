package memory

import (
	"context"
	"sync"
	"time"
)

// SyncLocker implements ports.SyncLocker for a single process. The ttl is
// ignored; the lock lives until unlock is called.
type SyncLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewSyncLocker creates an in-process sync lock.
func NewSyncLocker() *SyncLocker {
	return &SyncLocker{held: make(map[string]struct{})}
}

// TryLock acquires key without waiting.
func (l *SyncLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, false, nil
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true, nil
}
