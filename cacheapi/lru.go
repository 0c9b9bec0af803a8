package cacheapi

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	explru "github.com/hashicorp/golang-lru/v2/expirable"
)

type lruCache[K comparable, V any] struct {
	c *lru.Cache[K, V]
}

func (l *lruCache[K, V]) Get(ctx context.Context, k K) (V, error) {
	v, ok := l.c.Get(k)
	if !ok {
		return v, ErrCacheKeyNotExist
	}
	return v, nil
}

func (l *lruCache[K, V]) Set(ctx context.Context, k K, v V) error {
	_ = l.c.Add(k, v)
	return nil
}

func (l *lruCache[K, V]) Del(ctx context.Context, k K) error {
	_ = l.c.Remove(k)
	return nil
}

func NewLRU[K comparable, V any](size int) (ICache[K, V], error) {
	c, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &lruCache[K, V]{c: c}, nil
}

type expirableLruCache[K comparable, V any] struct {
	c *explru.LRU[K, V]
}

func (e *expirableLruCache[K, V]) Get(ctx context.Context, k K) (V, error) {
	v, ok := e.c.Get(k)
	if !ok {
		return v, ErrCacheKeyNotExist
	}
	return v, nil
}

func (e *expirableLruCache[K, V]) Set(ctx context.Context, k K, v V) error {
	_ = e.c.Add(k, v)
	return nil
}

func (e *expirableLruCache[K, V]) Del(ctx context.Context, k K) error {
	_ = e.c.Remove(k)
	return nil
}

// NewExpirableLRU drops entries after ttl even if they are still hot.
func NewExpirableLRU[K comparable, V any](size int, ttl time.Duration) ICache[K, V] {
	return &expirableLruCache[K, V]{
		c: explru.NewLRU[K, V](size, nil, ttl),
	}
}
