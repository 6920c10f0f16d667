package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ReportsPrefix        = "reports:"
	SlotCategoriesKeyFmt = "slot_categories:list:%t"

	ReportTTL       = 15 * time.Minute
	SlotCategoryTTL = 10 * time.Minute
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// call below degrades to a miss.
func Init(addr, password string, db int) error {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		// Close the failed client and keep caching disabled
		c.Close()
		Use(nil)
		return err
	}
	Use(c)
	return nil
}

// Use replaces the shared client. nil disables caching.
func Use(c *redis.Client) {
	client = c
}

func Close() {
	if client != nil {
		client.Close()
		client = nil
	}
}

// ReportKey is the cache key of one chart view over a date range
func ReportKey(view, from, to string) string {
	return fmt.Sprintf("%s%s:%s:%s", ReportsPrefix, view, from, to)
}

// SlotCategoriesKey is the cache key of the category listing
func SlotCategoriesKey(activeOnly bool) string {
	return fmt.Sprintf(SlotCategoriesKeyFmt, activeOnly)
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateReportCaches clears every cached chart
// Called when: intake, settlement, re-quote of an Unpaid amount
func InvalidateReportCaches(ctx context.Context) {
	InvalidatePattern(ctx, ReportsPrefix+"*")
}

// InvalidateSlotCategoryCaches clears the category listings
// Called when: Create, Update, SetActive
func InvalidateSlotCategoryCaches(ctx context.Context) {
	InvalidateKeys(ctx, SlotCategoriesKey(true), SlotCategoriesKey(false))
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
