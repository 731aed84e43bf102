// Package errors provides domain-specific error types for hostcall.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/hostcall/hostcall/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return entities.NewErrorDetail("internal", err.Error())
}

// ExportNotFoundError is returned when a guest does not export the requested function.
type ExportNotFoundError struct {
	Module string
	Name   string
}

func (e *ExportNotFoundError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("export %q not found in module %q", e.Name, e.Module)
	}
	return fmt.Sprintf("export %q not found", e.Name)
}

// ToErrorDetail implements DetailedError.
func (e *ExportNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "export", Code: e.Name}
}

// SignatureError is returned when a call does not match the export's signature.
type SignatureError struct {
	Name     string
	Expected int
	Got      int
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("export %q takes %d parameter(s), got %d", e.Name, e.Expected, e.Got)
}

// ToErrorDetail implements DetailedError.
func (e *SignatureError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "signature", Code: e.Name}
}

// TrapError wraps a failure raised while the guest was executing.
// Panics inside a freestanding guest surface as traps.
type TrapError struct {
	Err  error
	Name string
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("export %q trapped: %v", e.Name, e.Err)
}

func (e *TrapError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *TrapError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "trap", Code: e.Name}
}

// AssertionError describes a smoke case whose observed behaviour differs
// from the expectation.
type AssertionError struct {
	Case     string
	Field    string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("case %q: %s: expected %v, got %v", e.Case, e.Field, e.Expected, e.Actual)
}

// ToErrorDetail implements DetailedError.
func (e *AssertionError) ToErrorDetail() *entities.ErrorDetail {
	return (&entities.ErrorDetail{Message: e.Error(), Type: "assertion", Code: e.Field}).
		WithDetails(map[string]any{"expected": e.Expected, "actual": e.Actual})
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}
