package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")

	ErrDuplicateUsername   = fmt.Errorf("%w: username is already taken", ErrAlreadyExists)
	ErrDuplicateEmail      = fmt.Errorf("%w: email is already in use", ErrAlreadyExists)
	ErrDuplicateStreamName = fmt.Errorf("%w: stream name is already taken", ErrAlreadyExists)
)

// ValidationError reports structural problems with a request payload,
// keyed by field name. It is distinct from ErrInvalidInput, which services
// return for business rule violations.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

// Empty reports whether no field errors were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
