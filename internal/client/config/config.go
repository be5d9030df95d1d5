package config

import "time"

// Config holds runtime settings for the CareLink CLI.
//
// Fields:
//   - BaseURL: scheme://host[:port] of the portal backend.
//   - RequestTimeout: per-request deadline for the HTTP pipeline.
//   - DatabasePath: location of the local sqlite state file.
//
// Units: RequestTimeout is a time.Duration (e.g., 30*time.Second).
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://127.0.0.1:8443"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "carelink.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
