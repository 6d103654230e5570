package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// requiredFields maps config keys to their values for presence checks.
func (c *Config) requiredFields() []struct{ key, value string } {
	return []struct{ key, value string }{
		{"start_date", c.StartDate},
		{"customer_id", c.CustomerID},
		{"account_ids", c.AccountIDs},
		{"oauth_client_id", c.OAuthClientID},
		{"oauth_client_secret", c.OAuthClientSecret},
		{"refresh_token", c.RefreshToken},
		{"developer_token", c.DeveloperToken},
	}
}

// Validate checks the configuration for required fields and valid values.
// A missing required key is a fatal startup error for the tap.
func (c *Config) Validate() error {
	var errors ValidationErrors

	for _, f := range c.requiredFields() {
		if f.value == "" {
			errors = append(errors, ValidationError{
				Field:   f.key,
				Message: "required key is missing",
			})
		}
	}

	if c.AccountIDs != "" && len(c.AccountIDList()) == 0 {
		errors = append(errors, ValidationError{
			Field:   "account_ids",
			Message: "must contain at least one account id",
		})
	}

	if c.RequestTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "request_timeout",
			Message: "request_timeout cannot be negative",
		})
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
