// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnverifiedUser(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Unverified", Email: email, Role: "dev", PasswordHash: "h"}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestConsumeEmailVerification(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUnverifiedUser(t, repo, "alice@x.com")
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "hash-1", now.Add(24*time.Hour)))
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "hash-2", now.Add(24*time.Hour)))

	userID, err := repo.ConsumeEmailVerification(ctx, "hash-1", now)

	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	got, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	count := testutil.CountEmailVerifications(t, repo, user.ID)
	assert.Zero(t, count, "remaining tokens are cleaned up")
}

func TestConsumeEmailVerification_OnlyOnce(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUnverifiedUser(t, repo, "alice@x.com")
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "hash", now.Add(time.Hour)))

	_, err := repo.ConsumeEmailVerification(ctx, "hash", now)
	require.NoError(t, err)

	_, err = repo.ConsumeEmailVerification(ctx, "hash", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConsumeEmailVerification_Concurrent(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUnverifiedUser(t, repo, "alice@x.com")
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "hash", now.Add(time.Hour)))

	const workers = 6
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.ConsumeEmailVerification(ctx, "hash", now)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, repository.ErrNotFound)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestConsumeEmailVerification_Expired(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUnverifiedUser(t, repo, "alice@x.com")
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "hash", now.Add(-time.Minute)))

	_, err := repo.ConsumeEmailVerification(ctx, "hash", now)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsVerified)
}

func TestDeleteExpiredEmailVerifications(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUnverifiedUser(t, repo, "alice@x.com")
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "old", now.Add(-time.Hour)))
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "new", now.Add(time.Hour)))

	deleted, err := repo.DeleteExpiredEmailVerifications(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	count := testutil.CountEmailVerifications(t, repo, user.ID)
	assert.Equal(t, int64(1), count)
}
