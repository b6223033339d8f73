// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestListProjectsWithTasks(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	client := &models.Client{UserID: user.ID, Name: "Acme"}
	require.NoError(t, repo.CreateClient(ctx, client))

	project := &models.Project{UserID: user.ID, ClientID: &client.ID, Name: "Website"}
	require.NoError(t, repo.CreateProject(ctx, project))
	personal := testutil.NewTestProject(t, repo, user.ID, "Personal", 0)

	for _, task := range []*models.Task{
		{ProjectID: project.ID, UserID: user.ID, Title: "low", Priority: "low", DueDate: ptr("2025-01-01")},
		{ProjectID: project.ID, UserID: user.ID, Title: "urgent late", Priority: "urgent", DueDate: ptr("2025-03-01")},
		{ProjectID: project.ID, UserID: user.ID, Title: "urgent undated", Priority: "urgent"},
		{ProjectID: project.ID, UserID: user.ID, Title: "urgent early", Priority: "urgent", DueDate: ptr("2025-02-01")},
		{ProjectID: project.ID, UserID: user.ID, Title: "medium", Priority: "medium"},
	} {
		require.NoError(t, repo.CreateTask(ctx, task))
	}

	projects, err := repo.ListProjectsWithTasks(ctx, user.ID)

	require.NoError(t, err)
	require.Len(t, projects, 2)

	byName := map[string]models.Project{}
	for _, p := range projects {
		byName[p.Name] = p
	}

	website := byName["Website"]
	require.NotNil(t, website.ClientName)
	assert.Equal(t, "Acme", *website.ClientName)

	titles := make([]string, len(website.Tasks))
	for i, task := range website.Tasks {
		titles[i] = task.Title
	}
	assert.Equal(t, []string{"urgent early", "urgent late", "urgent undated", "medium", "low"}, titles)

	assert.Nil(t, byName[personal.Name].ClientName)
	assert.Empty(t, byName[personal.Name].Tasks)
}

func TestListProjectsWithTasks_ScopedToUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice@x.com")
	bob := testutil.NewTestUser(t, repo, "bob@x.com")
	testutil.NewTestProject(t, repo, alice.ID, "Alice's", 0)

	projects, err := repo.ListProjectsWithTasks(ctx, bob.ID)

	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectProgressFollowsTasks(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	project := testutil.NewTestProject(t, repo, user.ID, "Website", 0)

	tasks := make([]*models.Task, 3)
	for i := range tasks {
		tasks[i] = &models.Task{ProjectID: project.ID, UserID: user.ID, Title: "t", Priority: "medium"}
		require.NoError(t, repo.CreateTask(ctx, tasks[i]))
	}

	assertProject := func(progress int, status string) {
		t.Helper()
		p, err := repo.GetProject(ctx, user.ID, project.ID)
		require.NoError(t, err)
		assert.Equal(t, progress, p.Progress)
		assert.Equal(t, status, p.Status)
	}

	assertProject(0, models.ProjectNotStarted)

	toggled, err := repo.ToggleTask(ctx, user.ID, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskDone, toggled.Status)
	assertProject(33, models.ProjectInProgress)

	_, err = repo.ToggleTask(ctx, user.ID, tasks[1].ID)
	require.NoError(t, err)
	_, err = repo.ToggleTask(ctx, user.ID, tasks[2].ID)
	require.NoError(t, err)
	assertProject(100, models.ProjectCompleted)

	toggled, err = repo.ToggleTask(ctx, user.ID, tasks[2].ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskTodo, toggled.Status)
	assertProject(67, models.ProjectInProgress)

	require.NoError(t, repo.DeleteTask(ctx, user.ID, tasks[2].ID))
	assertProject(100, models.ProjectCompleted)

	require.NoError(t, repo.DeleteTask(ctx, user.ID, tasks[0].ID))
	require.NoError(t, repo.DeleteTask(ctx, user.ID, tasks[1].ID))
	assertProject(0, models.ProjectNotStarted)
}

func TestTaskOperations_OtherUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice@x.com")
	mallory := testutil.NewTestUser(t, repo, "mallory@x.com")
	project := testutil.NewTestProject(t, repo, alice.ID, "Website", 0)
	task := &models.Task{ProjectID: project.ID, UserID: alice.ID, Title: "t", Priority: "high"}
	require.NoError(t, repo.CreateTask(ctx, task))

	err := repo.CreateTask(ctx, &models.Task{ProjectID: project.ID, UserID: mallory.ID, Title: "x", Priority: "low"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.ToggleTask(ctx, mallory.ID, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteTask(ctx, mallory.ID, task.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteProject(ctx, mallory.ID, project.ID), repository.ErrNotFound)
}

func TestDeleteProject_Cascades(t *testing.T) {
	db, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	project := testutil.NewTestProject(t, repo, user.ID, "Website", 10000)
	require.NoError(t, repo.CreateTask(ctx, &models.Task{ProjectID: project.ID, UserID: user.ID, Title: "t", Priority: "low"}))
	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{UserID: user.ID, ProjectID: project.ID, AmountCents: 500}))

	require.NoError(t, repo.DeleteProject(ctx, user.ID, project.ID))

	for _, table := range []string{"projects", "tasks", "payments"} {
		var count int64
		require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM "+table))
		assert.Zero(t, count, table)
	}
}

func TestWorkStats(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	active := testutil.NewTestProject(t, repo, user.ID, "Active", 0)
	done := testutil.NewTestProject(t, repo, user.ID, "Done", 0)

	doneTask := &models.Task{ProjectID: done.ID, UserID: user.ID, Title: "finished", Priority: "low"}
	require.NoError(t, repo.CreateTask(ctx, doneTask))
	_, err := repo.ToggleTask(ctx, user.ID, doneTask.ID)
	require.NoError(t, err)

	for _, due := range []*string{ptr("2025-06-03"), ptr("2025-06-08"), ptr("2025-06-09"), nil} {
		require.NoError(t, repo.CreateTask(ctx, &models.Task{
			ProjectID: active.ID, UserID: user.ID, Title: "open", Priority: "medium", DueDate: due,
		}))
	}

	stats, err := repo.WorkStats(ctx, user.ID, "2025-06-01", "2025-06-08")

	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveProjects)
	assert.Equal(t, int64(1), stats.CompletedTasks)
	assert.Equal(t, int64(4), stats.PendingTasks)
	assert.Equal(t, int64(2), stats.DueThisWeek)
}
