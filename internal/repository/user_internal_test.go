// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/database"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

func newInternalRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return New(db)
}

func TestUserSetters_WriteThroughTransaction(t *testing.T) {
	repo := newInternalRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	user := &models.User{Name: "Carol", Email: "carol@x.com", Role: "dev", PasswordHash: "old"}
	require.NoError(t, repo.CreateUser(ctx, user))

	errAbort := errors.New("abort")
	err := repo.withTx(ctx, func(tx *sqlx.Tx) error {
		require.NoError(t, repo.setUserVerified(ctx, tx, user.ID, now))
		require.NoError(t, repo.setUserPasswordHash(ctx, tx, user.ID, "new", now))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsVerified, "rolled back with the transaction")
	assert.Equal(t, "old", got.PasswordHash)

	require.NoError(t, repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := repo.setUserVerified(ctx, tx, user.ID, now); err != nil {
			return err
		}
		return repo.setUserPasswordHash(ctx, tx, user.ID, "new", now)
	}))

	got, err = repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, "new", got.PasswordHash)
	assert.True(t, now.Equal(got.UpdatedAt))
}

func TestUserSetters_UnknownID(t *testing.T) {
	repo := newInternalRepo(t)
	ctx := context.Background()
	now := time.Now()

	assert.ErrorIs(t, repo.setUserVerified(ctx, repo.db, 42, now), ErrNotFound)
	assert.ErrorIs(t, repo.setUserPasswordHash(ctx, repo.db, 42, "x", now), ErrNotFound)
}
