// Package config handles configuration for the LoginKeeper host and CLI,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings shared by the host and the admin CLI.
//
// Fields:
//   - VaultPath: path to the SQLite vault database.
//   - SessionTTL: how long an unlock session token stays valid.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: backup object-storage settings.
type Config struct {
	VaultPath      string
	SessionTTL     time.Duration
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.VaultPath = "vault.db"
	c.SessionTTL = 15 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "loginkeeper"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
