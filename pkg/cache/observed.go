package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/treesynth/pkg/observability"
)

// Observed wraps c so that hits, misses and writes reach the registered
// [observability.CacheHooks]. The key type passed to the hooks is the key
// prefix before the first colon ("synth", "sum", "artifact").
func Observed(c Cache) Cache {
	return observed{c}
}

type observed struct {
	Cache
}

func (o observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (o observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func keyType(key string) string {
	t, _, _ := strings.Cut(key, ":")
	return t
}
