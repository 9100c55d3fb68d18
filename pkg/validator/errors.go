package validator

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ConfigError.
var (
	ErrMissingSelector = errors.New("selector is required")
	ErrInvalidSelector = errors.New("invalid selector")
	ErrMissingTest     = errors.New("rule has no test")
	ErrNilDocument     = errors.New("document is nil")
)

// ConfigError reports a malformed Config passed to New.
type ConfigError struct {
	// Field names the offending setting, e.g. "Form" or "Rules[2]".
	Field string

	// Selector is the selector involved, if any.
	Selector string

	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("validator: %s: %v %q", e.Field, e.Err, e.Selector)
	}
	return fmt.Sprintf("validator: %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
