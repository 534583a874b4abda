package integrity

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Service.Run.
var (
	// ErrConfiguration indicates the run input is missing or invalid.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUpstream indicates the actor or task run did not succeed.
	ErrUpstream = errors.New("upstream run failed")

	// ErrUnresolvableInput indicates the tested dataset could not be determined or read.
	ErrUnresolvableInput = errors.New("cannot obtain tested dataset")
)

// ConfigError describes an invalid input field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return e.Message
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UpstreamError reports a run that finished in a status other than SUCCEEDED.
type UpstreamError struct {
	RunID   string
	Status  string
	Message string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("actor run did not succeed, status must be SUCCEEDED. %s: %s", e.Status, e.Message)
}

// Is implements errors.Is support
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
