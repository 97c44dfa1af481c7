package event

import (
	"context"
	"encoding/json"
	"time"

	"event-guard/logger"
	"event-guard/types"
	eventTypes "event-guard/types/event"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// The Redis key for the cached default event listing
const eventListCacheKey = "cache:events:front_page"

// How often to refresh the cache from the primary database
const eventCacheUpdateInterval = 30 * time.Second

var cacheCtx = context.Background()

// cachedListing is the front page of the public event listing as served
// to anonymous clients.
type cachedListing struct {
	Items      []eventTypes.ListItem `json:"items"`
	Pagination types.Pagination      `json:"pagination"`
}

// ListingCache keeps the default public listing page warm in Redis so the
// busiest read path skips the database. A nil client disables caching.
type ListingCache struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewListingCache(db *gorm.DB, rdb *redis.Client) *ListingCache {
	return &ListingCache{db: db, rdb: rdb}
}

// Run refreshes the cache on a fixed interval. Intended to be started as a
// goroutine at boot.
func (lc *ListingCache) Run() {
	if lc.rdb == nil {
		return
	}

	lc.refresh()

	ticker := time.NewTicker(eventCacheUpdateInterval)
	defer ticker.Stop()

	for range ticker.C {
		lc.refresh()
	}
}

func (lc *ListingCache) refresh() {
	listing, err := loadFrontPage(lc.db)
	if err != nil {
		logger.Warning("Skipping event cache refresh: " + err.Error())
		return
	}

	data, err := json.Marshal(listing)
	if err != nil {
		logger.Error("Failed to marshal event listing for cache", err)
		return
	}

	// No TTL; the refresher owns the key.
	if err := lc.rdb.Set(cacheCtx, eventListCacheKey, data, 0).Err(); err != nil {
		logger.Warning("Failed to write event cache: " + err.Error())
	}
}

// Get returns the cached front page, or nil on any miss or error.
func (lc *ListingCache) Get() *cachedListing {
	if lc.rdb == nil {
		return nil
	}

	raw, err := lc.rdb.Get(cacheCtx, eventListCacheKey).Result()
	if err != nil {
		return nil
	}

	var listing cachedListing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		logger.Error("Failed to unmarshal cached event listing", err)
		return nil
	}
	return &listing
}

// Invalidate drops the cached page after a mutation so stale data never
// outlives the next read by more than one refresh.
func (lc *ListingCache) Invalidate() {
	if lc.rdb == nil {
		return
	}
	if err := lc.rdb.Del(cacheCtx, eventListCacheKey).Err(); err != nil {
		logger.Warning("Failed to invalidate event cache: " + err.Error())
	}
}
