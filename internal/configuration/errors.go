package configuration

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every *ConfigError using errors.Is
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError describes a configuration value that prevents pifan from starting.
type ConfigError struct {
	Field   string
	Message string
}

func NewConfigError(field string, format string, a ...interface{}) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: fmt.Sprintf(format, a...),
	}
}

func (e *ConfigError) Error() string {
	if len(e.Field) <= 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
