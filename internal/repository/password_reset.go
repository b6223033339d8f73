// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/vinovest/sqlx"
)

// CreatePasswordReset stores a hashed reset token.
func (r *Repository) CreatePasswordReset(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.insert(ctx, r.db,
		`INSERT INTO password_resets (user_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		userID, tokenHash, expiresAt.UTC(), r.timestamp())
	return err
}

// ActivePasswordResets lists a user's reset tokens that have not expired, newest first.
func (r *Repository) ActivePasswordResets(ctx context.Context, userID int64, now time.Time) ([]models.PasswordReset, error) {
	var resets []models.PasswordReset
	err := r.selectAll(ctx, r.db, &resets,
		`SELECT id, user_id, token_hash, expires_at, created_at FROM password_resets
		 WHERE user_id = ? AND expires_at > ? ORDER BY created_at DESC, id DESC`,
		userID, now.UTC())
	return resets, err
}

// ConsumePasswordReset deletes one reset token and stores the new password hash in a single
// transaction. Returns ErrNotFound if the token was already used or has expired meanwhile,
// so two concurrent consumers cannot both succeed.
func (r *Repository) ConsumePasswordReset(ctx context.Context, resetID, userID int64, passwordHash string, now time.Time) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.execOne(ctx, tx,
			`DELETE FROM password_resets WHERE id = ? AND user_id = ? AND expires_at > ?`,
			resetID, userID, now.UTC()); err != nil {
			return err
		}

		return r.setUserPasswordHash(ctx, tx, userID, passwordHash, now)
	})
}

// DeleteExpiredPasswordResets deletes tokens that expired before now.
func (r *Repository) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	return r.exec(ctx, r.db, `DELETE FROM password_resets WHERE expires_at <= ?`, now.UTC())
}
