package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.False(t, c.TLS())
}

func TestOverrides(t *testing.T) {
	c, err := FromEnv(env(map[string]string{
		"WHEELCALC_ADDR":          ":9000",
		"WHEELCALC_RATE":          "0.5",
		"WHEELCALC_BURST":         "3",
		"WHEELCALC_BATCH_WORKERS": "8",
		"WHEELCALC_TLS_CERT":      "server.crt",
		"WHEELCALC_TLS_KEY":       "server.key",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, 0.5, c.Rate)
	assert.Equal(t, 3, c.Burst)
	assert.Equal(t, 8, c.BatchWorkers)
	assert.True(t, c.TLS())
}

func TestInvalidValuesAggregate(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		"WHEELCALC_RATE":     "fast",
		"WHEELCALC_BURST":    "-1",
		"WHEELCALC_TLS_CERT": "server.crt",
	}))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("WHEELCALC_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("WHEELCALC_LOG_LEVEL", "")
	os.Unsetenv("WHEELCALC_LOG_LEVEL")

	c, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
}
