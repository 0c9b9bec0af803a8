package identity

import (
	"context"

	"github.com/cespare/xxhash/v2"
	"github.com/xxxsen/cbdav/cacheapi"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type cachedResolver struct {
	next  IResolver
	cache cacheapi.ICache[uint64, *Result]
}

// NewCachedResolver remembers found results only, a not found answer or an
// error always goes back to the directory next time.
func NewCachedResolver(next IResolver, cache cacheapi.ICache[uint64, *Result]) IResolver {
	return &cachedResolver{next: next, cache: cache}
}

func cacheKey(host string, query string) uint64 {
	return xxhash.Sum64String(host + "?" + query)
}

func (c *cachedResolver) Resolve(ctx context.Context, host string, req *Request) (*Result, error) {
	if err := checkHost(host); err != nil {
		return nil, err
	}
	query, err := BuildQuery(req)
	if err != nil {
		return nil, err
	}
	key := cacheKey(host, query)
	return cacheapi.Load(ctx, c.cache, key, func(ctx context.Context, _ uint64) (*Result, bool, error) {
		logutil.GetLogger(ctx).Debug("identity cache miss", zap.String("host", host), zap.Uint64("key", key))
		rs, err := c.next.Resolve(ctx, host, req)
		if err != nil {
			return nil, false, err
		}
		return rs, rs.Found(), nil
	})
}
