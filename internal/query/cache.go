package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StatsCache caches the stats aggregate between requests. Lookups are
// best-effort: a cache miss or failure just falls through to the store.
type StatsCache interface {
	Get(ctx context.Context) (*Stats, bool)
	Set(ctx context.Context, s *Stats)
}

// NoopCache is used when no Redis is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context) (*Stats, bool) { return nil, false }
func (NoopCache) Set(context.Context, *Stats)        {}

const statsKey = "supplywatch:stats"

// RedisCache caches stats in Redis with a short TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (*Stats, bool) {
	val, err := c.rdb.Get(ctx, statsKey).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Debug().Err(err).Msg("stats cache read failed")
		return nil, false
	}
	var s Stats
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (c *RedisCache) Set(ctx context.Context, s *Stats) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsKey, data, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("stats cache write failed")
	}
}
