package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/cbdav/identity"
)

func writeConfig(t *testing.T, data string) string {
	f := filepath.Join(t.TempDir(), "cbdav.json")
	require.NoError(t, os.WriteFile(f, []byte(data), 0644))
	return f
}

func TestParseDefault(t *testing.T) {
	c, err := Parse(writeConfig(t, `{"host": "127.0.0.1:8002", "identity": "http://127.0.0.1:8002/users/alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "http", c.Schema)
	assert.Equal(t, int64(10), c.Timeout)
	assert.Equal(t, 2, c.MaxAttempts)
	assert.Equal(t, "", c.Cache.Kind)
	assert.Equal(t, identity.NewOpenIDRequest("http://127.0.0.1:8002/users/alice"), c.Request())
}

func TestParseNormal(t *testing.T) {
	c, err := Parse(writeConfig(t, `{"host": "h:1", "identity_type": "normal", "first_name": "Alice", "last_name": "Smith", "cache": {"kind": "ristretto"}}`))
	require.NoError(t, err)
	assert.Equal(t, identity.NewNormalRequest("Alice", "Smith"), c.Request())
	assert.Equal(t, CacheKindRistretto, c.Cache.Kind)
}

func TestParseInvalid(t *testing.T) {
	for _, data := range []string{
		`{`,
		`{"identity": "x"}`,
		`{"host": "h:1"}`,
		`{"host": "h:1", "identity_type": "normal", "first_name": "a"}`,
		`{"host": "h:1", "identity": "x", "schema": "ftp"}`,
		`{"host": "h:1", "identity": "x", "cache": {"kind": "redis"}}`,
		`{"host": "h:1", "identity": "x", "timeout": 0}`,
		`{"host": "h:1", "identity": "x", "log_level": "error"}`,
		`{"host": "h:1", "identity": "x", "log_level": ""}`,
	} {
		_, err := Parse(writeConfig(t, data))
		assert.Error(t, err, data)
	}
	_, err := Parse(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
