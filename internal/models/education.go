// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Course statuses.
const (
	CourseNotStarted = "not_started"
	CourseInProgress = "in_progress"
	CourseCompleted  = "completed"
)

type Skill struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Level     int       `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Course struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	SkillID   int64     `db:"skill_id" json:"skill_id"`
	SkillName *string   `db:"skill_name" json:"skill_name,omitempty"`
	Title     string    `db:"title" json:"title"`
	Platform  string    `db:"platform" json:"platform"`
	URL       string    `db:"url" json:"url"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type EducationStats struct {
	TotalSkills  int64 `db:"total_skills"`
	TotalCourses int64 `db:"total_courses"`
	InProgress   int64 `db:"in_progress"`
	Completed    int64 `db:"completed"`
}

// NextCourseStatus cycles not_started -> in_progress -> completed -> not_started.
func NextCourseStatus(status string) string {
	switch status {
	case CourseNotStarted:
		return CourseInProgress
	case CourseInProgress:
		return CourseCompleted
	default:
		return CourseNotStarted
	}
}

// ClampLevel keeps a skill level within 0..100.
func ClampLevel(level int) int {
	return min(100, max(0, level))
}
