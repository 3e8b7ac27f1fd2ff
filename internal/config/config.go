// Package config loads the client suite's configuration: a YAML file,
// optionally overlaid with a .env file and OMNI_* environment variables.
// Environment wins over the file, the file wins over defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration for the storefront, kitchen, and admin
// clients.
type Config struct {
	// APIURL is the base URL of the ordering backend.
	APIURL string `yaml:"api_url"`
	// StateDir holds the persisted cart, session, and active-order state.
	StateDir string `yaml:"state_dir"`

	Storefront StorefrontConfig `yaml:"storefront"`
	Kitchen    KitchenConfig    `yaml:"kitchen"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// StorefrontConfig tunes the customer-facing client.
type StorefrontConfig struct {
	// PollInterval is how often the status screen re-fetches an active
	// order.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// KitchenConfig tunes the kitchen display client.
type KitchenConfig struct {
	// ReconnectDelay is the fixed wait between event-stream reconnect
	// attempts.
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file or environment is
// present.
func Default() Config {
	return Config{
		APIURL:   "http://localhost:8080",
		StateDir: defaultStateDir(),
		Storefront: StorefrontConfig{
			PollInterval: 5 * time.Second,
		},
		Kitchen: KitchenConfig{
			ReconnectDelay: 3 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
		},
	}
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".omniorder"
	}
	return filepath.Join(dir, "omniorder")
}

// Load reads path (missing file is fine, defaults apply), then a .env file
// in the working directory if one exists, then the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults.
		case err != nil:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	// .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OMNI_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("OMNI_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("OMNI_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Storefront.PollInterval = d
		}
	}
	if v := os.Getenv("OMNI_RECONNECT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Kitchen.ReconnectDelay = d
		}
	}
	if v := os.Getenv("OMNI_METRICS_ADDR"); v != "" {
		c.Metrics.Enabled = true
		c.Metrics.Addr = v
	}
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("config: api_url must not be empty")
	}
	if c.Storefront.PollInterval <= 0 {
		return fmt.Errorf("config: storefront.poll_interval must be positive")
	}
	if c.Kitchen.ReconnectDelay <= 0 {
		return fmt.Errorf("config: kitchen.reconnect_delay must be positive")
	}
	return nil
}
