// Package apperrors defines the error kinds payment operations return so
// handlers and tests can tell a rejected request from a provider or storage
// fault without matching on messages.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound  = errors.New("transaction not found")
	ErrDuplicate = errors.New("duplicate correlation id")
)

// ValidationError is a malformed or missing caller input. It never reaches a provider.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AdapterError is a provider rejection or a network fault on an outbound call.
type AdapterError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *AdapterError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// PersistenceError is a storage failure while writing or reading a record.
type PersistenceError struct {
	Op            string
	CorrelationID string
	Err           error
}

func (e *PersistenceError) Error() string {
	if e.CorrelationID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.CorrelationID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsAdapter(err error) bool {
	var a *AdapterError
	return errors.As(err, &a)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

// HTTPStatus maps an error kind to the status code returned to API callers.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case IsAdapter(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
