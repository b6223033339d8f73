// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFields         = errors.New("missing required fields")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrRateLimited           = errors.New("too many failed login attempts")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	ErrInvalidOrExpiredReset = errors.New("invalid or expired reset link")
	ErrInternal              = errors.New("internal error")
)

// Fields reported by ValidationError.
const (
	FieldName             = "name"
	FieldEmail            = "email"
	FieldRole             = "role"
	FieldPasswordStrength = "password_strength"
	FieldPasswordMismatch = "password_mismatch"
)

// ValidationError rejects a single registration field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field
}

// internalError hides the cause behind ErrInternal while keeping it in the chain for logging.
func internalError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}
