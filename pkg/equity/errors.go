package equity

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrNumericDomain = errors.New("numeric domain error")
)

// ConfigError reports a precondition violated before the first step runs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// DomainError reports a value that would make the step arithmetic undefined.
type DomainError struct {
	Index int
	Field string
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v: %s at index %d is %v", ErrNumericDomain, e.Field, e.Index, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrNumericDomain }
