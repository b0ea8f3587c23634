package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// GetOrLoad returns the cached value for key, or calls load and caches its
// result for ttl. Loader errors are returned as-is and never cached. A nil
// cache always loads.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c != nil {
		if raw, ok := c.Get(ctx, key); ok {
			if v, ok := decode[T](raw); ok {
				return v, nil
			}
		}
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if c != nil {
		c.Set(ctx, key, v, ttl)
	}
	return v, nil
}

// decode accepts either the original Go value (memory backend) or its JSON
// encoding (redis backend).
func decode[T any](raw any) (T, bool) {
	var out T
	switch v := raw.(type) {
	case T:
		return v, true
	case json.RawMessage:
		if err := json.Unmarshal(v, &out); err == nil {
			return out, true
		}
	case []byte:
		if err := json.Unmarshal(v, &out); err == nil {
			return out, true
		}
	}
	return out, false
}
