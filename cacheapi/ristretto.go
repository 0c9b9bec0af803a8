package cacheapi

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
)

type ristrettoCache[V any] struct {
	c *ristretto.Cache[uint64, V]
}

func (r *ristrettoCache[V]) Get(ctx context.Context, k uint64) (V, error) {
	v, ok := r.c.Get(k)
	if !ok {
		return v, ErrCacheKeyNotExist
	}
	return v, nil
}

func (r *ristrettoCache[V]) Set(ctx context.Context, k uint64, v V) error {
	_ = r.c.Set(k, v, 1)
	// make the value visible to the next Get
	r.c.Wait()
	return nil
}

func (r *ristrettoCache[V]) Del(ctx context.Context, k uint64) error {
	r.c.Del(k)
	return nil
}

// NewRistretto counts every item with cost 1, so maxItems bounds the number of
// entries.
func NewRistretto[V any](maxItems int64) (ICache[uint64, V], error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, V]{
		NumCounters:        maxItems * 10,
		MaxCost:            maxItems,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoCache[V]{c: c}, nil
}
