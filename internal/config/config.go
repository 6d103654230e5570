// Package config provides configuration structures and loading for tap-bingads.
package config

import "strings"

// Config represents the complete tap configuration.
type Config struct {
	StartDate         string        `json:"start_date" mapstructure:"start_date"`
	CustomerID        string        `json:"customer_id" mapstructure:"customer_id"`
	AccountIDs        string        `json:"account_ids" mapstructure:"account_ids"` // comma-separated
	OAuthClientID     string        `json:"oauth_client_id" mapstructure:"oauth_client_id"`
	OAuthClientSecret string        `json:"oauth_client_secret" mapstructure:"oauth_client_secret"`
	RefreshToken      string        `json:"refresh_token" mapstructure:"refresh_token"`
	DeveloperToken    string        `json:"developer_token" mapstructure:"developer_token"`
	UserAgent         string        `json:"user_agent" mapstructure:"user_agent"`
	RequestTimeout    int           `json:"request_timeout" mapstructure:"request_timeout"` // seconds
	Logging           LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // json or text
	Output string `json:"output" mapstructure:"output"` // stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
// Logging defaults to stderr: stdout carries the Singer message stream.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:      "tap-bingads",
		RequestTimeout: 300,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
	}
}

// AccountIDList splits the comma-separated account_ids value into individual ids.
// Empty entries and surrounding whitespace are dropped.
func (c *Config) AccountIDList() []string {
	var ids []string
	for _, id := range strings.Split(c.AccountIDs, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
}
