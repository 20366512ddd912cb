package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Adapters wrap their own errors with these so that callers can
// classify with errors.Is without knowing the backend.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = fmt.Errorf("insufficient stock: %w", ErrConflict)
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrStore             = errors.New("store failure")
)

var (
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrFavoriteNotFound = fmt.Errorf("favorite %w", ErrNotFound)

	ErrOrderExists    = fmt.Errorf("order id already exists: %w", ErrConflict)
	ErrEmailTaken     = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrFavoriteExists = fmt.Errorf("product already in favorites: %w", ErrConflict)
	ErrUserHasOrders  = fmt.Errorf("user still owns orders: %w", ErrConflict)
)

// ValidationError lists offending fields, field name -> message.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
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

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
