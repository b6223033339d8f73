// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/vinovest/sqlx"
)

// ListSkills returns a user's skills ordered by name.
func (r *Repository) ListSkills(ctx context.Context, userID int64) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.selectAll(ctx, r.db, &skills,
		`SELECT id, user_id, name, level, created_at FROM skills WHERE user_id = ? ORDER BY name ASC`, userID)
	return skills, err
}

// CreateSkill inserts a skill.
func (r *Repository) CreateSkill(ctx context.Context, skill *models.Skill) error {
	now := r.timestamp()
	id, err := r.insert(ctx, r.db,
		`INSERT INTO skills (user_id, name, level, created_at) VALUES (?, ?, ?, ?)`,
		skill.UserID, skill.Name, skill.Level, now)
	if err != nil {
		return err
	}
	skill.ID = id
	skill.CreatedAt = now
	return nil
}

// SetSkillLevel updates a skill's level.
func (r *Repository) SetSkillLevel(ctx context.Context, userID, skillID int64, level int) error {
	return r.execOne(ctx, r.db, `UPDATE skills SET level = ? WHERE id = ? AND user_id = ?`, level, skillID, userID)
}

// DeleteSkill deletes a skill and the courses attached to it.
func (r *Repository) DeleteSkill(ctx context.Context, userID, skillID int64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.exec(ctx, tx, `DELETE FROM courses WHERE skill_id = ? AND user_id = ?`, skillID, userID); err != nil {
			return err
		}
		return r.execOne(ctx, tx, `DELETE FROM skills WHERE id = ? AND user_id = ?`, skillID, userID)
	})
}

// ListCourses returns a user's courses, newest first.
func (r *Repository) ListCourses(ctx context.Context, userID int64) ([]models.Course, error) {
	var courses []models.Course
	err := r.selectAll(ctx, r.db, &courses,
		`SELECT c.id, c.user_id, c.skill_id, s.name AS skill_name, c.title, c.platform, c.url, c.status, c.created_at
		 FROM courses c
		 LEFT JOIN skills s ON c.skill_id = s.id
		 WHERE c.user_id = ?
		 ORDER BY c.created_at DESC, c.id DESC`, userID)
	return courses, err
}

// CreateCourse inserts a course for one of the user's skills.
func (r *Repository) CreateCourse(ctx context.Context, course *models.Course) error {
	now := r.timestamp()
	course.Status = models.CourseNotStarted

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var owned int64
		if err := r.get(ctx, tx, &owned,
			`SELECT COUNT(*) FROM skills WHERE id = ? AND user_id = ?`, course.SkillID, course.UserID); err != nil {
			return err
		}
		if owned == 0 {
			return ErrNotFound
		}

		id, err := r.insert(ctx, tx,
			`INSERT INTO courses (user_id, skill_id, title, platform, url, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			course.UserID, course.SkillID, course.Title, course.Platform, course.URL, course.Status, now)
		if err != nil {
			return err
		}
		course.ID = id
		course.CreatedAt = now
		return nil
	})
}

// ToggleCourseStatus advances a course to its next status and returns it.
func (r *Repository) ToggleCourseStatus(ctx context.Context, userID, courseID int64) (string, error) {
	var status string
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.get(ctx, tx, &status,
			`SELECT status FROM courses WHERE id = ? AND user_id = ?`, courseID, userID); err != nil {
			return err
		}
		status = models.NextCourseStatus(status)
		_, err := r.exec(ctx, tx, `UPDATE courses SET status = ? WHERE id = ? AND user_id = ?`, status, courseID, userID)
		return err
	})
	return status, err
}

// DeleteCourse removes a course.
func (r *Repository) DeleteCourse(ctx context.Context, userID, courseID int64) error {
	return r.execOne(ctx, r.db, `DELETE FROM courses WHERE id = ? AND user_id = ?`, courseID, userID)
}

// EducationStats counts skills and courses by status.
func (r *Repository) EducationStats(ctx context.Context, userID int64) (models.EducationStats, error) {
	var stats models.EducationStats
	err := r.get(ctx, r.db, &stats,
		`SELECT
		   (SELECT COUNT(*) FROM skills WHERE user_id = ?) AS total_skills,
		   (SELECT COUNT(*) FROM courses WHERE user_id = ?) AS total_courses,
		   (SELECT COUNT(*) FROM courses WHERE user_id = ? AND status = ?) AS in_progress,
		   (SELECT COUNT(*) FROM courses WHERE user_id = ? AND status = ?) AS completed`,
		userID, userID, userID, models.CourseInProgress, userID, models.CourseCompleted)
	return stats, err
}
