package config

import "fmt"

// ValidationError names the offending key of an invalid configuration.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

const maxPort = 65535

// ValidateRequired reports an empty value.
func ValidateRequired(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidatePort reports a port outside 1-65535.
func ValidatePort(field string, port int) error {
	if port < 1 || port > maxPort {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// ValidatePositive reports a negative value. Zero is allowed and usually means "disabled".
func ValidatePositive(field string, value float64) error {
	if value < 0 {
		return &ValidationError{Field: field, Message: "must not be negative"}
	}
	return nil
}
