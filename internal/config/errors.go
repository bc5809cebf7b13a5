package config

import "fmt"

// ConfigurationError reports a missing or malformed configuration value.
// It is raised before any network call is made.
type ConfigurationError struct {
	Key     string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error: %s", e.Message)
	if e.Key != "" {
		msg = fmt.Sprintf("configuration error: %s: %s", e.Key, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
