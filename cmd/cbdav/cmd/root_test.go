package cmd

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/cbdav/cmd/cbdav/config"
	"github.com/xxxsen/cbdav/server"
	"github.com/xxxsen/cbdav/server/model"
	"github.com/xxxsen/cbdav/webdav"
)

const (
	testIdentity = "http://127.0.0.1:8002/users/alice.smith"
	testPwd      = "alice_pwd"
)

func TestBuildResolver(t *testing.T) {
	for _, kind := range []string{"", config.CacheKindLRU, config.CacheKindExpirable, config.CacheKindRistretto} {
		r, err := buildResolver(&config.Config{Schema: "http", Timeout: 1, Cache: config.CacheConfig{Kind: kind, Size: 16, TTL: 60}})
		assert.NoError(t, err, kind)
		assert.NotNil(t, r, kind)
	}
	_, err := buildResolver(&config.Config{Cache: config.CacheConfig{Kind: "redis"}})
	assert.Error(t, err)
	_, err = buildResolver(&config.Config{Cache: config.CacheConfig{Kind: config.CacheKindLRU, Size: 0}})
	assert.Error(t, err)
}

func TestRenderResources(t *testing.T) {
	buf := &bytes.Buffer{}
	renderResources(buf, []*webdav.Resource{
		{Name: "Textures", IsCollection: true, ModTime: time.Now()},
		{Name: "notecard.txt", Size: 2048, ModTime: time.Now()},
	})
	out := buf.String()
	assert.Contains(t, out, "Textures")
	assert.Contains(t, out, "notecard.txt")
	assert.Contains(t, out, "2.0 KiB")
}

func runRoot(t *testing.T, args ...string) error {
	root := NewRoot()
	root.SetArgs(args)
	return root.Execute()
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	svr, err := server.New(":0",
		server.WithUsers([]*model.User{{Name: "alice", Identity: testIdentity, FirstName: "Alice", LastName: "Smith", Password: testPwd}}),
		server.WithWebdavRoot(dir),
	)
	require.NoError(t, err)
	ts := httptest.NewServer(svr.Handler())
	defer ts.Close()

	cfg := filepath.Join(t.TempDir(), "cbdav.json")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(`{
		"host": "%s",
		"identity_type": "normal",
		"first_name": "alice",
		"last_name": "smith",
		"password": "%s",
		"log_level": "warn",
		"cache": {"kind": "expirable"}
	}`, strings.TrimPrefix(ts.URL, "http://"), testPwd)), 0644))

	local := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(local, []byte("note"), 0644))

	require.NoError(t, runRoot(t, "-c", cfg, "lookup"))
	require.NoError(t, runRoot(t, "-c", cfg, "mkdir", "-n", "Notes"))
	require.NoError(t, runRoot(t, "-c", cfg, "put", "-f", local, "-p", "Notes"))
	raw, err := os.ReadFile(filepath.Join(dir, "alice", "Notes", "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, "note", string(raw))
	require.NoError(t, runRoot(t, "-c", cfg, "ls", "-p", "Notes"))

	out := t.TempDir()
	require.NoError(t, runRoot(t, "-c", cfg, "get", "-p", "Notes", "-n", "note.txt", "-o", out))
	raw, err = os.ReadFile(filepath.Join(out, "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, "note", string(raw))

	require.NoError(t, runRoot(t, "-c", cfg, "rm", "-p", "Notes", "-n", "note.txt", "--force"))
	require.NoError(t, runRoot(t, "-c", cfg, "rmdir", "-n", "Notes", "--force"))
	_, err = os.Stat(filepath.Join(dir, "alice", "Notes"))
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, runRoot(t, "-c", cfg, "rm", "-n", "note.txt", "--force"))

	assert.Error(t, runRoot(t, "-c", cfg, "mkdir"))
	assert.Error(t, runRoot(t, "-c", filepath.Join(t.TempDir(), "missing.json"), "lookup"))
}
