package identity

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/cbdav/cacheapi"
)

func newDirectoryServer(t *testing.T, fn http.HandlerFunc) (string, *int32) {
	var hits int32
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fn(w, r)
	}))
	t.Cleanup(svr.Close)
	return strings.TrimPrefix(svr.URL, "http://"), &hits
}

func TestResolveFound(t *testing.T) {
	host, _ := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LookupPath, r.URL.Path)
		assert.Equal(t, "type=openid&identity=alice", r.URL.RawQuery)
		w.Header().Set(HeaderIdentity, "http://id.local/users/alice")
		w.Header().Set(HeaderWebDavInventory, "http://dav.local/inventory/alice")
		w.WriteHeader(http.StatusOK)
	})
	rs, err := New().Resolve(context.Background(), host, NewOpenIDRequest("alice"))
	require.NoError(t, err)
	assert.True(t, rs.Found())
	assert.Equal(t, "http://id.local/users/alice", rs.IdentityURL)
	assert.Equal(t, "http://dav.local/inventory/alice", rs.WebDavURL)
}

func TestResolvePartialHeaders(t *testing.T) {
	host, _ := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderIdentity, "http://id.local/users/bob")
	})
	rs, err := New().Resolve(context.Background(), host, NewNormalRequest("Bob", "Smith"))
	require.NoError(t, err)
	assert.Equal(t, "http://id.local/users/bob", rs.IdentityURL)
	assert.Empty(t, rs.WebDavURL)
	assert.False(t, rs.Found())
}

func TestResolveNotFound(t *testing.T) {
	host, _ := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	rs, err := New().Resolve(context.Background(), host, NewOpenIDRequest("nobody"))
	require.NoError(t, err)
	assert.Empty(t, rs.IdentityURL)
	assert.Empty(t, rs.WebDavURL)
	assert.False(t, rs.Found())
}

func TestResolveServerError(t *testing.T) {
	host, hits := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := New(WithRetry(3, time.Millisecond)).Resolve(context.Background(), host, NewOpenIDRequest("alice"))
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestResolveSocketError(t *testing.T) {
	svr := httptest.NewServer(http.NotFoundHandler())
	host := strings.TrimPrefix(svr.URL, "http://")
	svr.Close()
	_, err := New(WithTimeout(time.Second)).Resolve(context.Background(), host, NewOpenIDRequest("alice"))
	assert.ErrorIs(t, err, ErrConnection)
}

// newDroppingListener accepts and closes every connection, so each lookup
// attempt fails at the transport level.
func newDroppingListener(t *testing.T) (string, *int32) {
	var conns int32
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			atomic.AddInt32(&conns, 1)
			_ = c.Close()
		}
	}()
	return l.Addr().String(), &conns
}

func TestResolveAttempts(t *testing.T) {
	host, conns := newDroppingListener(t)
	_, err := New(WithTimeout(time.Second)).Resolve(context.Background(), host, NewOpenIDRequest("alice"))
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, int32(1), atomic.LoadInt32(conns))

	host, conns = newDroppingListener(t)
	_, err = New(WithTimeout(time.Second), WithRetry(3, time.Millisecond)).Resolve(context.Background(), host, NewOpenIDRequest("alice"))
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, int32(3), atomic.LoadInt32(conns))
}

func TestResolveFastFail(t *testing.T) {
	host, hits := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {})
	r := New()
	ctx := context.Background()
	_, err := r.Resolve(ctx, "", NewOpenIDRequest("alice"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = r.Resolve(ctx, "http://"+host, NewOpenIDRequest("alice"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = r.Resolve(ctx, host+"/services", NewOpenIDRequest("alice"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = r.Resolve(ctx, host, &Request{Type: TypeNormal, FirstName: "a"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestCachedResolver(t *testing.T) {
	host, hits := newDirectoryServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("identity") != "alice" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set(HeaderIdentity, "http://id.local/users/alice")
		w.Header().Set(HeaderWebDavInventory, "http://dav.local/inventory/alice")
	})
	cache, err := cacheapi.NewRistretto[*Result](64)
	require.NoError(t, err)
	r := NewCachedResolver(New(), cache)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		rs, err := r.Resolve(ctx, host, NewOpenIDRequest("alice"))
		require.NoError(t, err)
		assert.True(t, rs.Found())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	for i := 0; i < 2; i++ {
		rs, err := r.Resolve(ctx, host, NewOpenIDRequest("nobody"))
		require.NoError(t, err)
		assert.False(t, rs.Found())
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}
