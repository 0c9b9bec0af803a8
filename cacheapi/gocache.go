package cacheapi

import (
	"context"
	"time"

	gocache "github.com/pmylund/go-cache"
)

type goCache[V any] struct {
	c   *gocache.Cache
	ttl time.Duration
}

func (g *goCache[V]) Get(ctx context.Context, k string) (V, error) {
	var empty V
	raw, ok := g.c.Get(k)
	if !ok {
		return empty, ErrCacheKeyNotExist
	}
	v, ok := raw.(V)
	if !ok {
		return empty, ErrCacheKeyNotExist
	}
	return v, nil
}

func (g *goCache[V]) Set(ctx context.Context, k string, v V) error {
	g.c.Set(k, v, g.ttl)
	return nil
}

func (g *goCache[V]) Del(ctx context.Context, k string) error {
	g.c.Delete(k)
	return nil
}

// NewGoCache keeps every entry for ttl, expired entries are swept every
// cleanup interval. It has no size bound.
func NewGoCache[V any](ttl time.Duration, cleanup time.Duration) ICache[string, V] {
	return &goCache[V]{
		c:   gocache.New(ttl, cleanup),
		ttl: ttl,
	}
}
