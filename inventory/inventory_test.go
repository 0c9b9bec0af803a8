package inventory

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/cbdav/auth"
	"github.com/xxxsen/cbdav/identity"
	"github.com/xxxsen/cbdav/server"
	"github.com/xxxsen/cbdav/server/model"
	"github.com/xxxsen/cbdav/webdav"
)

const (
	testIdentity = "http://127.0.0.1:8002/users/alice.smith"
	testPwd      = "alice_pwd"
)

func newTestServer(t *testing.T) (string, string) {
	root := t.TempDir()
	svr, err := server.New(":0",
		server.WithUsers([]*model.User{{Name: "alice", Identity: testIdentity, FirstName: "Alice", LastName: "Smith", Password: testPwd}}),
		server.WithWebdavRoot(root),
		server.WithAuthScheme(auth.DigestAuthName),
	)
	require.NoError(t, err)
	ts := httptest.NewServer(svr.Handler())
	t.Cleanup(ts.Close)
	return strings.TrimPrefix(ts.URL, "http://"), filepath.Join(root, "alice")
}

func TestConnect(t *testing.T) {
	host, _ := newTestServer(t)
	cli := New(WithCredentialProvider(webdav.StaticPassword(testPwd)))
	sess, err := cli.Connect(context.Background(), host, identity.NewNormalRequest("alice", "smith"))
	require.NoError(t, err)
	defer sess.Close()
	assert.Equal(t, webdav.StateAuthenticated, sess.State())
	assert.Equal(t, testIdentity, sess.User())
}

func TestConnectNotFound(t *testing.T) {
	host, _ := newTestServer(t)
	cli := New(WithCredentialProvider(webdav.StaticPassword(testPwd)))
	_, err := cli.Connect(context.Background(), host, identity.NewOpenIDRequest("http://127.0.0.1:8002/users/nobody"))
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestConnectSessionOptions(t *testing.T) {
	host, _ := newTestServer(t)
	cli := New(
		WithCredentialProvider(webdav.StaticPassword("bad")),
		WithSessionOptions(webdav.WithMaxAttempts(1)),
	)
	_, err := cli.Connect(context.Background(), host, identity.NewOpenIDRequest(testIdentity))
	assert.ErrorIs(t, err, webdav.ErrAuthorization)
}

func TestUploadDir(t *testing.T) {
	host, remoteRoot := newTestServer(t)
	ctx := context.Background()
	cli := New(WithCredentialProvider(webdav.StaticPassword(testPwd)), WithUploadRetry(2))
	sess, err := cli.Connect(ctx, host, identity.NewOpenIDRequest(testIdentity))
	require.NoError(t, err)

	local := filepath.Join(t.TempDir(), "Objects")
	require.NoError(t, os.MkdirAll(filepath.Join(local, "Hats", "Old"), 0755))
	files := map[string]string{
		"chair.obj":           "chair",
		"Hats/top.obj":        "top hat",
		"Hats/Old/bowler.obj": "bowler",
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(local, filepath.FromSlash(name)), []byte(data), 0644))
	}
	require.NoError(t, sess.CreateDirectory(ctx, "", "Backup"))
	require.NoError(t, cli.UploadDir(ctx, sess, local, "Backup"))

	for name, data := range files {
		raw, err := os.ReadFile(filepath.Join(remoteRoot, "Backup", "Objects", filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, data, string(raw))
	}
	items, err := sess.ListResources(ctx, "Backup/Objects/Hats")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestUploadDirNotDir(t *testing.T) {
	host, _ := newTestServer(t)
	ctx := context.Background()
	cli := New(WithCredentialProvider(webdav.StaticPassword(testPwd)))
	sess, err := cli.Connect(ctx, host, identity.NewOpenIDRequest(testIdentity))
	require.NoError(t, err)
	f := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("a"), 0644))
	assert.Error(t, cli.UploadDir(ctx, sess, f, ""))
	assert.Error(t, cli.UploadDir(ctx, sess, filepath.Join(t.TempDir(), "missing"), ""))
}
