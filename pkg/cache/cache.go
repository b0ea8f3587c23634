// Package cache holds the best-effort caches used in front of the document
// store and the LLM. No cache operation returns an error: backend failures are
// logged and behave like a miss or a no-op.
package cache

import (
	"context"
	"time"
)

const (
	DefaultTTL      = 300 * time.Second
	DefaultMaxItems = 1000

	NamespaceUser           = "user"
	NamespaceRecipe         = "recipe"
	NamespaceIngredient     = "ingredient"
	NamespaceUserBehavior   = "user_behavior"
	NamespacePopularRecipes = "popular_recipes"
	NamespaceTrending       = "trending"

	TTLUser           = 600 * time.Second
	TTLRecipe         = 1800 * time.Second
	TTLIngredient     = 3600 * time.Second
	TTLUserBehavior   = 600 * time.Second
	TTLPopularRecipes = 1800 * time.Second
	TTLTrending       = 600 * time.Second
)

type (
	// Cache is injected wherever repeated lookups are worth remembering.
	// A zero ttl passed to Set means the backend default.
	Cache interface {
		Get(ctx context.Context, key string) (any, bool)
		Set(ctx context.Context, key string, value any, ttl time.Duration)
		Delete(ctx context.Context, key string)
		Clear(ctx context.Context)
		Stats(ctx context.Context) Stats
	}

	Stats struct {
		Backend     string `json:"backend"`
		TotalKeys   int    `json:"total_keys"`
		ActiveKeys  int    `json:"active_keys"`
		ExpiredKeys int    `json:"expired_keys"`
		MaxItems    int    `json:"max_items,omitempty"`
		Hits        int64  `json:"hits"`
		Misses      int64  `json:"misses"`
		Evictions   int64  `json:"evictions"`
	}
)
