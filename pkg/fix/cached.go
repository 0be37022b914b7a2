package fix

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/yamlviz/pkg/cache"
	"github.com/matzehuels/yamlviz/pkg/observability"
)

// DefaultCacheTTL is how long a suggestion is remembered.
const DefaultCacheTTL = 24 * time.Hour

// Cached memoizes suggestions of the wrapped fixer, keyed by document text
// and error message. Only successful suggestions are stored.
type Cached struct {
	Fixer Fixer
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// NewCached wraps f. A nil keyer selects the default keyer.
func NewCached(f Fixer, c cache.Cache, keyer cache.Keyer) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached{Fixer: f, Cache: c, Keyer: keyer, TTL: DefaultCacheTTL}
}

// Fix implements Fixer.
func (c *Cached) Fix(ctx context.Context, req Request) (Result, error) {
	hooks := observability.Cache()
	key := c.Keyer.FixKey(cache.HashString(req.DocumentText), req.ErrorMessage)

	if data, hit, err := c.Cache.Get(ctx, key); err == nil && hit {
		var res Result
		if json.Unmarshal(data, &res) == nil {
			hooks.OnCacheHit(ctx, "fix")
			return res, nil
		}
	}
	hooks.OnCacheMiss(ctx, "fix")

	res, err := c.Fixer.Fix(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if data, err := json.Marshal(res); err == nil {
		if c.Cache.Set(ctx, key, data, c.TTL) == nil {
			hooks.OnCacheSet(ctx, "fix", len(data))
		}
	}
	return res, nil
}
