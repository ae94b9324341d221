package redis

import (
	"taxitoday/internal/quote"
	"taxitoday/internal/registry"
	"taxitoday/internal/service"
)

// Ensure concrete types implement the contracts they back.
var (
	_ quote.SessionStore   = (*SessionStore)(nil)
	_ service.BookingCache = (*CacheStore)(nil)
	_ registry.Locker      = (*LockStore)(nil)
)
