package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taxitoday/internal/domain"
)

// BookingCacheTTL is short: status can change through cancellation.
const BookingCacheTTL = 60 * time.Second

const bookingCachePrefix = "cache:booking:"

// CacheStore caches registered bookings in Redis, keyed by reference.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetBooking retrieves a booking from cache. Returns nil on a miss.
func (s *CacheStore) GetBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	data, err := s.client.Get(ctx, bookingCachePrefix+reference).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var booking domain.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// SetBooking stores a booking in cache.
func (s *CacheStore) SetBooking(ctx context.Context, booking *domain.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, bookingCachePrefix+booking.Reference, data, BookingCacheTTL).Err()
}

// InvalidateBooking removes a booking from cache.
func (s *CacheStore) InvalidateBooking(ctx context.Context, reference string) error {
	return s.client.Del(ctx, bookingCachePrefix+reference).Err()
}
