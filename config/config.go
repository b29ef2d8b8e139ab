// Package config loads the optional ethtools configuration file. Settings
// resolve in order: command-line flags, environment, file, built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvRPCURL overrides the configured RPC URL when set.
const EnvRPCURL = "ETHTOOLS_RPC_URL"

// Config mirrors ~/.ethtools/config.toml. All fields are optional.
type Config struct {
	RPCURL        string `toml:"rpc_url"`
	KeystoreDir   string `toml:"keystore_dir"`
	Confirmations uint64 `toml:"confirmations"`
	PollInterval  string `toml:"poll_interval"`
	Timeout       string `toml:"timeout"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ethtools", "config.toml"), nil
}

// Load reads the config file at path (the default location when empty). A
// missing file is not an error; it yields an empty config. The RPC URL
// environment variable takes precedence over the file.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file; env and defaults still apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if env := os.Getenv(EnvRPCURL); env != "" {
		cfg.RPCURL = env
	}

	return cfg, nil
}

// PollIntervalDuration parses the configured poll interval; zero when unset.
func (c *Config) PollIntervalDuration() (time.Duration, error) {
	return parseDuration("poll_interval", c.PollInterval)
}

// TimeoutDuration parses the configured timeout; zero when unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", field, value)
	}
	return d, nil
}
