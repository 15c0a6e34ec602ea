package repository

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// NewQueryCache holds search results for ttl. A zero ttl effectively disables it.
func NewQueryCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		return cache.New(time.Nanosecond, time.Minute)
	}

	return cache.New(ttl, 2*ttl)
}
