package target

import (
	"errors"
	"fmt"
)

// ErrMissingConfiguration matches any MissingConfigurationError via errors.Is
var ErrMissingConfiguration = errors.New("missing configuration")

// MissingConfigurationError reports a required property with no value.
type MissingConfigurationError struct {
	Property string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: property %q is not set", e.Property)
}

func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}
