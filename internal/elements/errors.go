package elements

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the root of every element construction failure.
var ErrConfiguration = errors.New("elements: invalid configuration")

// ConfigError names the variant and, when known, the parameter at fault.
type ConfigError struct {
	Kind   Kind
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%v: %s: %s", ErrConfiguration, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v: %s.%s: %s", ErrConfiguration, e.Kind, e.Param, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configErr(kind Kind, param, format string, args ...any) error {
	return &ConfigError{Kind: kind, Param: param, Reason: fmt.Sprintf(format, args...)}
}
