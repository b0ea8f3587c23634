package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"recipe-ai-backend/internal/utils/logger"
	"recipe-ai-backend/internal/utils/metrics"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

// Redis shares cached values between processes. Values are stored as JSON and
// come back from Get as json.RawMessage; GetOrLoad decodes them.
type Redis struct {
	rdb        *goredis.Client
	log        *logger.Logger
	prefix     string
	defaultTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisClient(addr string) (*goredis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedis(rdb *goredis.Client, log *logger.Logger, defaultTTL time.Duration) *Redis {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Redis{
		rdb:        rdb,
		log:        log.With("service", "RedisCache"),
		prefix:     "recipe-ai:",
		defaultTTL: defaultTTL,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (any, bool) {
	b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.log.Warn("cache get failed", "key", key, "error", err)
		}
		r.misses.Add(1)
		metrics.CacheMisses.Inc()
		return nil, false
	}
	r.hits.Add(1)
	metrics.CacheHits.Inc()
	return json.RawMessage(b), true
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		r.log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.rdb.Set(ctx, r.prefix+key, b, ttl).Err(); err != nil {
		r.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		r.log.Warn("cache delete failed", "key", key, "error", err)
	}
}

func (r *Redis) Clear(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 500).Iterator()
	batch := make([]string, 0, 500)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			r.rdb.Del(ctx, batch...)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		r.rdb.Del(ctx, batch...)
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("cache clear failed", "error", err)
	}
}

// Stats counts keys under the prefix. Redis drops expired keys itself, so
// ExpiredKeys is always zero.
func (r *Redis) Stats(ctx context.Context) Stats {
	total := 0
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		total++
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("cache stats failed", "error", err)
	}
	return Stats{
		Backend:    "redis",
		TotalKeys:  total,
		ActiveKeys: total,
		Hits:       r.hits.Load(),
		Misses:     r.misses.Load(),
	}
}
