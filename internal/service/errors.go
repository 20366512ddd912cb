package service

import (
	"errors"
	"fmt"

	"github.com/nikolayk812/nicoshop/internal/domain"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	ErrAccountDisabled    = fmt.Errorf("account is disabled: %w", domain.ErrForbidden)
	ErrLastAdmin          = fmt.Errorf("cannot delete the last admin: %w", domain.ErrForbidden)
)

var callerKinds = []error{
	domain.ErrValidation,
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrUnauthorized,
	domain.ErrForbidden,
}

// classify keeps errors of a known kind as they are and marks everything else as a store failure.
func classify(method string, err error) error {
	for _, kind := range callerKinds {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", method, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", method, domain.ErrStore, err)
}
