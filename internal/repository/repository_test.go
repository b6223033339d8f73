// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	db, repo := testutil.NewTestDB(t)

	assert.NotNil(t, repo)
	assert.Same(t, db, repo.DB())
}

func TestSetClock_StampsCreatedAt(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	fixed := time.Date(2026, 5, 4, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	repo.SetClock(func() time.Time { return fixed })

	user := testutil.NewTestUser(t, repo, "ada@example.com")

	assert.True(t, user.CreatedAt.Equal(fixed))
	assert.Equal(t, time.UTC, user.CreatedAt.Location())
}

func TestErrorMapping(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.GetUserByID(ctx, 4242)
	require.ErrorIs(t, err, repository.ErrNotFound)

	testutil.NewTestUser(t, repo, "ada@example.com")
	err = repo.CreateUser(ctx, &models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTransactionRollsBack(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.NewTestUser(t, repo, "ada@example.com")

	// A task for a foreign project fails inside the transaction and leaves nothing behind.
	other := testutil.NewTestUser(t, repo, "other@example.com")
	project := testutil.NewTestProject(t, repo, other.ID, "Engine", 0)
	err := repo.CreateTask(ctx, &models.Task{ProjectID: project.ID, UserID: user.ID, Title: "x", Priority: "low"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	var count int64
	require.NoError(t, repo.DB().Get(&count, "SELECT COUNT(*) FROM tasks"))
	assert.Zero(t, count)
}
