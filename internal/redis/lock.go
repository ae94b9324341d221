package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const registerLockKey = "lock:booking:register"

// LockStore provides distributed locking for booking registration so that
// reference allocation is serialized across instances.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRegisterLock attempts to take the registration lock.
func (s *LockStore) AcquireRegisterLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, registerLockKey, "1", ttl).Result()
}

// ReleaseRegisterLock releases the registration lock.
func (s *LockStore) ReleaseRegisterLock(ctx context.Context) error {
	return s.client.Del(ctx, registerLockKey).Err()
}
