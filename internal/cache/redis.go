package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"rental-backend/internal/config"
	"rental-backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Report cache keys
const (
	SummaryKeyFmt = "reports:summary:%s"
	BlockKeyFmt   = "reports:block:%s:%s"
	RentersKeyFmt = "reports:renters:%s:%s"
	GenAllKey     = "reports:gen:all"
	GenPeriodFmt  = "reports:gen:%s"
)

func SummaryKey(p models.Period) string {
	return fmt.Sprintf(SummaryKeyFmt, p.Key())
}

func BlockKey(blockID uuid.UUID, p models.Period) string {
	return fmt.Sprintf(BlockKeyFmt, blockID, p.Key())
}

func RentersKey(blockID uuid.UUID, p models.Period) string {
	return fmt.Sprintf(RentersKeyFmt, blockID, p.Key())
}

// Versioned suffixes a report key with the generation it was loaded under.
func Versioned(key, gen string) string {
	return key + ":" + gen
}

// ReportCache caches rendered report JSON. A nil client turns every call
// into a no-op so the service runs without Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and falls back to a disabled cache on failure.
func Connect(cfg *config.Config) *ReportCache {
	ttl := time.Duration(cfg.Redis.TTLMinutes) * time.Minute
	if !cfg.Redis.Enabled {
		log.Printf("[Redis] Disabled by configuration, report caching off")
		return &ReportCache{ttl: ttl}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and degrade gracefully
		client.Close()
		log.Printf("[Redis] Unavailable at %s (%v), report caching off", cfg.Redis.Addr, err)
		return &ReportCache{ttl: ttl}
	}
	log.Printf("[Redis] Connected to %s", cfg.Redis.Addr)
	return &ReportCache{client: client, ttl: ttl}
}

// NewReportCache wraps an existing client. client may be nil.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func (c *ReportCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *ReportCache) Set(ctx context.Context, key string, data []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[Redis] Set %s failed: %v", key, err)
	}
}

// Generation is the version readers fold into report keys. It must be read
// before loading: invalidation bumps it, so a snapshot loaded before a write
// is stored under a key no later reader asks for and expires with its TTL.
func (c *ReportCache) Generation(ctx context.Context, p models.Period) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	vals, err := c.client.MGet(ctx, GenAllKey, fmt.Sprintf(GenPeriodFmt, p.Key())).Result()
	if err != nil || len(vals) != 2 {
		log.Printf("[Redis] Generation for %s unavailable: %v", p, err)
		return "", false
	}
	return fmt.Sprintf("g%s.%s", genValue(vals[0]), genValue(vals[1])), true
}

func genValue(v any) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return "0"
}

// InvalidatePeriod retires every cached report of one period.
func (c *ReportCache) InvalidatePeriod(ctx context.Context, p models.Period) {
	c.bump(ctx, fmt.Sprintf(GenPeriodFmt, p.Key()))
}

// InvalidateAll retires every cached report, used after directory changes.
func (c *ReportCache) InvalidateAll(ctx context.Context) {
	c.bump(ctx, GenAllKey)
}

func (c *ReportCache) bump(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		log.Printf("[Redis] Invalidate %s failed: %v", key, err)
	}
}

func (c *ReportCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
