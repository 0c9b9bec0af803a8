package cacheapi

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := NewLRU[int, string](16)
	require.NoError(t, err)
	ctx := context.Background()
	calls := 0
	cb := func(ctx context.Context, k int) (string, bool, error) {
		calls++
		return fmt.Sprintf("%d", k), true, nil
	}
	v, err := Load(ctx, c, 1, cb)
	assert.NoError(t, err)
	assert.Equal(t, "1", v)
	v, err = Load(ctx, c, 1, cb)
	assert.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.Equal(t, 1, calls)
	_, err = c.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrCacheKeyNotExist)
}

func TestLoadSkipStore(t *testing.T) {
	c := NewExpirableLRU[string, int](16, time.Minute)
	ctx := context.Background()
	calls := 0
	cb := func(ctx context.Context, k string) (int, bool, error) {
		calls++
		return 0, false, nil
	}
	for i := 0; i < 3; i++ {
		v, err := Load(ctx, c, "miss", cb)
		assert.NoError(t, err)
		assert.Equal(t, 0, v)
	}
	assert.Equal(t, 3, calls)
	assert.False(t, Exist(ctx, c, "miss"))
}

func TestLoadError(t *testing.T) {
	c, err := NewLRU[int, int](4)
	require.NoError(t, err)
	_, err = Load(context.Background(), c, 1, func(ctx context.Context, k int) (int, bool, error) {
		return 0, false, fmt.Errorf("backend down")
	})
	assert.Error(t, err)
	assert.False(t, Exist(context.Background(), c, 1))
}

func TestRistretto(t *testing.T) {
	c, err := NewRistretto[string](100)
	require.NoError(t, err)
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, 42, "v"))
	v, err := c.Get(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.NoError(t, c.Del(ctx, 42))
	_, err = c.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrCacheKeyNotExist)
}

func TestExpirable(t *testing.T) {
	c := NewExpirableLRU[string, string](4, 50*time.Millisecond)
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, "k", "v"))
	assert.True(t, Exist(ctx, c, "k"))
	time.Sleep(150 * time.Millisecond)
	assert.False(t, Exist(ctx, c, "k"))
}

func TestGoCache(t *testing.T) {
	c := NewGoCache[int](50*time.Millisecond, 10*time.Millisecond)
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, "k", 7))
	v, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.NoError(t, c.Del(ctx, "k"))
	assert.False(t, Exist(ctx, c, "k"))
	assert.NoError(t, c.Set(ctx, "k", 8))
	time.Sleep(150 * time.Millisecond)
	assert.False(t, Exist(ctx, c, "k"))
}
