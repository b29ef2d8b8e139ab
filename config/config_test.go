package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
rpc_url = "https://rpc.example.org"
keystore_dir = "/tmp/keys"
confirmations = 6
poll_interval = "2s"
timeout = "10m"
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "https://rpc.example.org", cfg.RPCURL)
		assert.Equal(t, "/tmp/keys", cfg.KeystoreDir)
		assert.Equal(t, uint64(6), cfg.Confirmations)

		poll, err := cfg.PollIntervalDuration()
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, poll)

		timeout, err := cfg.TimeoutDuration()
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, timeout)
	})

	t.Run("missing file yields empty config", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
		require.NoError(t, err)
		assert.Empty(t, cfg.RPCURL)
		assert.Zero(t, cfg.Confirmations)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, `rpc_url = "https://from-file.example.org"`)
		t.Setenv(EnvRPCURL, "https://from-env.example.org")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://from-env.example.org", cfg.RPCURL)
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := writeConfig(t, `rpc_url = [broken`)
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestDurationParsing(t *testing.T) {
	t.Run("unset durations are zero", func(t *testing.T) {
		cfg := &Config{}
		d, err := cfg.PollIntervalDuration()
		require.NoError(t, err)
		assert.Zero(t, d)
	})

	t.Run("invalid duration", func(t *testing.T) {
		cfg := &Config{Timeout: "soon"}
		_, err := cfg.TimeoutDuration()
		assert.Error(t, err)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		cfg := &Config{PollInterval: "-1s"}
		_, err := cfg.PollIntervalDuration()
		assert.Error(t, err)
	})
}
