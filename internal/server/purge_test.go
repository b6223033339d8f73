// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"codeberg.org/oliverandrich/clarity/internal/database"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestPurgeTokens(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "clarity.db")
	now := time.Now().UTC()

	db, err := database.Open(dsn)
	require.NoError(t, err)
	repo := repository.New(db)
	user := testutil.NewTestUser(t, repo, "alice@x.com")
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "stale", now.Add(-time.Hour)))
	require.NoError(t, repo.CreateEmailVerification(ctx, user.ID, "live", now.Add(time.Hour)))
	require.NoError(t, repo.CreatePasswordReset(ctx, user.ID, "stale-reset", now.Add(-time.Minute)))
	require.NoError(t, db.Close())

	cmd := &cli.Command{
		Name:   "test",
		Flags:  config.Flags(),
		Action: PurgeTokens,
	}
	require.NoError(t, cmd.Run(ctx, []string{"test", "--database-dsn", dsn, "--log-level", "error"}))

	db, err = database.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo = repository.New(db)

	assert.Equal(t, int64(1), testutil.CountEmailVerifications(t, repo, user.ID), "only the live token survives")

	var resets int64
	require.NoError(t, db.GetContext(ctx, &resets, `SELECT COUNT(*) FROM password_resets`))
	assert.Zero(t, resets)
}
