package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation is returned when one or more field rules are violated.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateKey is returned when a national ID is already registered.
	ErrDuplicateKey = errors.New("national ID already registered")
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrStorage wraps failures of the underlying persistence layer.
	ErrStorage = errors.New("storage failure")
)

// ValidationError carries field-level messages for a rejected record.
type ValidationError struct {
	Fields    map[string]string
	Duplicate bool
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	head := ErrValidation.Error()
	if e.Duplicate {
		head = ErrDuplicateKey.Error()
	}
	return head + ": " + strings.Join(parts, "; ")
}

// Unwrap exposes ErrValidation, plus ErrDuplicateKey for uniqueness failures.
func (e *ValidationError) Unwrap() []error {
	if e.Duplicate {
		return []error{ErrValidation, ErrDuplicateKey}
	}
	return []error{ErrValidation}
}
