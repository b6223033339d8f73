// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/vinovest/sqlx"
)

const userColumns = `id, name, email, role, password_hash, is_verified, budget_cents, created_at, updated_at`

// CreateUser inserts a user and fills in its ID and timestamps.
// Returns ErrDuplicate when the email is already registered.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	now := r.timestamp()
	id, err := r.insert(ctx, r.db,
		`INSERT INTO users (name, email, role, password_hash, is_verified, budget_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.Role, user.PasswordHash, user.IsVerified, user.BudgetCents, now, now)
	if err != nil {
		return err
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.get(ctx, r.db, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their already normalised email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.get(ctx, r.db, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// setUserVerified marks a user's email as verified.
func (r *Repository) setUserVerified(ctx context.Context, e sqlx.ExecerContext, id int64, now time.Time) error {
	return r.execOne(ctx, e, `UPDATE users SET is_verified = ?, updated_at = ? WHERE id = ?`, true, now.UTC(), id)
}

// setUserPasswordHash replaces a user's password hash.
func (r *Repository) setUserPasswordHash(ctx context.Context, e sqlx.ExecerContext, id int64, hash string, now time.Time) error {
	return r.execOne(ctx, e, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, now.UTC(), id)
}

// SetUserBudget sets a user's starting budget.
func (r *Repository) SetUserBudget(ctx context.Context, id, cents int64) error {
	return r.execOne(ctx, r.db, `UPDATE users SET budget_cents = ?, updated_at = ? WHERE id = ?`, cents, r.timestamp(), id)
}
