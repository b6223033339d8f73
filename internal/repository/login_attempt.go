// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
)

// CountFailedLoginAttempts counts failed attempts for the email or the address since the given time.
func (r *Repository) CountFailedLoginAttempts(ctx context.Context, email, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.get(ctx, r.db, &count,
		`SELECT COUNT(*) FROM login_attempts
		 WHERE (email = ? OR ip_address = ?) AND success = ? AND attempt_time > ?`,
		email, ip, false, since.UTC())
	return count, err
}

// RecordLoginAttempt appends an attempt to the audit log.
func (r *Repository) RecordLoginAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	id, err := r.insert(ctx, r.db,
		`INSERT INTO login_attempts (email, user_id, ip_address, success, attempt_time) VALUES (?, ?, ?, ?, ?)`,
		attempt.Email, attempt.UserID, attempt.IPAddress, attempt.Success, attempt.AttemptTime.UTC())
	if err != nil {
		return err
	}
	attempt.ID = id
	return nil
}
