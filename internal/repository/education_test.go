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

func TestSkills(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	skill := &models.Skill{UserID: user.ID, Name: "Go", Level: 40}
	require.NoError(t, repo.CreateSkill(ctx, skill))
	require.NoError(t, repo.CreateSkill(ctx, &models.Skill{UserID: user.ID, Name: "CSS", Level: 10}))

	require.NoError(t, repo.SetSkillLevel(ctx, user.ID, skill.ID, 75))

	skills, err := repo.ListSkills(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "CSS", skills[0].Name)
	assert.Equal(t, 75, skills[1].Level)
}

func TestCourses(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	skill := &models.Skill{UserID: user.ID, Name: "Go"}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	course := &models.Course{UserID: user.ID, SkillID: skill.ID, Title: "Concurrency", Platform: "Web"}
	require.NoError(t, repo.CreateCourse(ctx, course))
	assert.Equal(t, models.CourseNotStarted, course.Status)

	for _, want := range []string{models.CourseInProgress, models.CourseCompleted, models.CourseNotStarted} {
		status, err := repo.ToggleCourseStatus(ctx, user.ID, course.ID)
		require.NoError(t, err)
		assert.Equal(t, want, status)
	}

	courses, err := repo.ListCourses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.NotNil(t, courses[0].SkillName)
	assert.Equal(t, "Go", *courses[0].SkillName)

	require.NoError(t, repo.DeleteCourse(ctx, user.ID, course.ID))
	assert.ErrorIs(t, repo.DeleteCourse(ctx, user.ID, course.ID), repository.ErrNotFound)
}

func TestCreateCourse_ForeignSkill(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	alice := testutil.NewTestUser(t, repo, "alice@x.com")
	bob := testutil.NewTestUser(t, repo, "bob@x.com")
	skill := &models.Skill{UserID: alice.ID, Name: "Go"}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	err := repo.CreateCourse(ctx, &models.Course{UserID: bob.ID, SkillID: skill.ID, Title: "Sneaky"})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteSkill_CascadesCourses(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	skill := &models.Skill{UserID: user.ID, Name: "Go"}
	require.NoError(t, repo.CreateSkill(ctx, skill))
	require.NoError(t, repo.CreateCourse(ctx, &models.Course{UserID: user.ID, SkillID: skill.ID, Title: "Basics"}))

	require.NoError(t, repo.DeleteSkill(ctx, user.ID, skill.ID))

	courses, err := repo.ListCourses(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestEducationStats(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "alice@x.com")
	skill := &models.Skill{UserID: user.ID, Name: "Go"}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	courses := make([]*models.Course, 3)
	for i := range courses {
		courses[i] = &models.Course{UserID: user.ID, SkillID: skill.ID, Title: "c"}
		require.NoError(t, repo.CreateCourse(ctx, courses[i]))
	}
	_, err := repo.ToggleCourseStatus(ctx, user.ID, courses[0].ID)
	require.NoError(t, err)
	for range 2 {
		_, err = repo.ToggleCourseStatus(ctx, user.ID, courses[1].ID)
		require.NoError(t, err)
	}

	stats, err := repo.EducationStats(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalSkills)
	assert.Equal(t, int64(3), stats.TotalCourses)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(1), stats.Completed)
}
