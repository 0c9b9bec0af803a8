package cacheapi

import (
	"context"
	"errors"
)

var (
	ErrCacheKeyNotExist = errors.New("cache key not exist")
)

type ICache[K comparable, V any] interface {
	Get(ctx context.Context, k K) (V, error)
	Set(ctx context.Context, k K, v V) error
	Del(ctx context.Context, k K) error
}

// LoadCallbackFunc fills a missing key. ok=false means the value should not be
// remembered, the loaded value is still returned to the caller.
type LoadCallbackFunc[K comparable, V any] func(ctx context.Context, k K) (v V, ok bool, err error)

func Load[K comparable, V any](ctx context.Context, c ICache[K, V], k K, cb LoadCallbackFunc[K, V]) (V, error) {
	v, err := c.Get(ctx, k)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrCacheKeyNotExist) {
		return v, err
	}
	v, ok, err := cb(ctx, k)
	if err != nil {
		return v, err
	}
	if ok {
		_ = c.Set(ctx, k, v)
	}
	return v, nil
}

// Exist is a convenience for caches used as a set.
func Exist[K comparable, V any](ctx context.Context, c ICache[K, V], k K) bool {
	_, err := c.Get(ctx, k)
	return err == nil
}
