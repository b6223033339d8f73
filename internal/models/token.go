// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Single-use tokens. Only hashes are stored, the raw value exists in the mailed link.
type (
	// EmailVerification activates an account. TokenHash is hex SHA-256.
	EmailVerification struct { //nolint:govet // fieldalignment: readability over optimization
		ID        int64     `db:"id" json:"id"`
		UserID    int64     `db:"user_id" json:"user_id"`
		TokenHash string    `db:"token_hash" json:"-"`
		ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
	}

	// PasswordReset authorises one password change. TokenHash is bcrypt, so lookups
	// compare against every active row of the user.
	PasswordReset struct { //nolint:govet // fieldalignment: readability over optimization
		ID        int64     `db:"id" json:"id"`
		UserID    int64     `db:"user_id" json:"user_id"`
		TokenHash string    `db:"token_hash" json:"-"`
		ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
	}
)
