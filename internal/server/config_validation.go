// config_validation.go - Startup configuration validation.
//
// Validates environment-provided settings before the server starts, so a
// misconfigured deployment fails fast with every problem listed instead of
// dying on the first query.
package server

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// ConfigValidationError describes a single invalid setting.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ConfigValidator accumulates validation errors across settings.
type ConfigValidator struct {
	errors []ConfigValidationError
}

// NewConfigValidator creates an empty validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// AddError records a validation error.
func (v *ConfigValidator) AddError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{Field: field, Message: message})
}

// HasErrors reports whether any setting failed validation.
func (v *ConfigValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// ErrorString formats all accumulated errors for a startup log line.
func (v *ConfigValidator) ErrorString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d error(s):\n", len(v.errors))
	for i, err := range v.errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidateRequired checks that a required environment variable is set and
// returns its value.
func (v *ConfigValidator) ValidateRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		v.AddError(key, "required environment variable not set")
	}
	return value
}

// ValidateURL checks that a non-empty value parses as an absolute URL.
func (v *ConfigValidator) ValidateURL(key, value string) {
	if value == "" {
		return
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		v.AddError(key, "must be an absolute URL")
	}
}

// ValidatePort checks that a non-empty value is a valid TCP port number.
func (v *ConfigValidator) ValidatePort(key, value string) {
	if value == "" {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		v.AddError(key, "must be a port number between 1 and 65535")
	}
}
