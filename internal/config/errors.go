package config

import (
	"errors"
	"fmt"
)

// ErrMissingValue is returned when a required field is empty.
var ErrMissingValue = errors.New("missing required value")

// ConfigurationError reports an invalid or incomplete application configuration.
// Startup treats it as fatal.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
