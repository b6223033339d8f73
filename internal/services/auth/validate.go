// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterParams holds the untrusted registration form fields.
type RegisterParams struct {
	Name            string
	Email           string
	Role            string
	Password        string
	ConfirmPassword string
}

// NormalizeEmail trims and lowercases an address before any lookup or insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether an address has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateRegistration checks the fields in order and reports the first violation.
func ValidateRegistration(p RegisterParams) error {
	name := strings.TrimSpace(p.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return &ValidationError{Field: FieldName}
	}

	if !ValidEmail(NormalizeEmail(p.Email)) {
		return &ValidationError{Field: FieldEmail}
	}

	role := strings.TrimSpace(p.Role)
	if role == "" || utf8.RuneCountInString(role) > 50 {
		return &ValidationError{Field: FieldRole}
	}

	if !StrongPassword(p.Password) {
		return &ValidationError{Field: FieldPasswordStrength}
	}

	if p.Password != p.ConfirmPassword {
		return &ValidationError{Field: FieldPasswordMismatch}
	}

	return nil
}
