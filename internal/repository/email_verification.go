// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/vinovest/sqlx"
)

// CreateEmailVerification stores a hashed verification token.
func (r *Repository) CreateEmailVerification(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.insert(ctx, r.db,
		`INSERT INTO email_verifications (user_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		userID, tokenHash, expiresAt.UTC(), r.timestamp())
	return err
}

// ConsumeEmailVerification deletes the matching unexpired token, marks its owner verified
// and drops the owner's remaining tokens, all in one transaction.
// Returns the owner's ID, or ErrNotFound if no live token matched.
func (r *Repository) ConsumeEmailVerification(ctx context.Context, tokenHash string, now time.Time) (int64, error) {
	var userID int64
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.get(ctx, tx, &userID,
			`DELETE FROM email_verifications WHERE token_hash = ? AND expires_at > ? RETURNING user_id`,
			tokenHash, now.UTC()); err != nil {
			return err
		}

		if err := r.setUserVerified(ctx, tx, userID, now); err != nil {
			return err
		}

		_, err := r.exec(ctx, tx, `DELETE FROM email_verifications WHERE user_id = ?`, userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// DeleteExpiredEmailVerifications deletes tokens that expired before now.
func (r *Repository) DeleteExpiredEmailVerifications(ctx context.Context, now time.Time) (int64, error) {
	return r.exec(ctx, r.db, `DELETE FROM email_verifications WHERE expires_at <= ?`, now.UTC())
}
