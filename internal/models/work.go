// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"math"
	"time"
)

// Project statuses.
const (
	ProjectNotStarted = "not_started"
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
)

// Payment statuses.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Task statuses.
const (
	TaskTodo = "todo"
	TaskDone = "done"
)

// Priorities lists task priorities from most to least pressing.
var Priorities = []string{"urgent", "high", "medium", "low"}

type Project struct { //nolint:govet // fieldalignment: readability over optimization
	ID            int64      `db:"id" json:"id"`
	UserID        int64      `db:"user_id" json:"-"`
	ClientID      *int64     `db:"client_id" json:"client_id,omitempty"`
	ClientName    *string    `db:"client_name" json:"client_name,omitempty"`
	Name          string     `db:"name" json:"name"`
	Description   string     `db:"description" json:"description"`
	DueDate       *string    `db:"due_date" json:"due_date,omitempty"`
	Status        string     `db:"status" json:"status"`
	Progress      int        `db:"progress" json:"progress"`
	BudgetCents   int64      `db:"budget_cents" json:"budget_cents"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`

	Tasks []Task `db:"-" json:"tasks"`
}

type Task struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	ProjectID int64     `db:"project_id" json:"project_id"`
	UserID    int64     `db:"user_id" json:"-"`
	Title     string    `db:"title" json:"title"`
	Priority  string    `db:"priority" json:"priority"`
	DueDate   *string   `db:"due_date" json:"due_date,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Done reports whether the task is completed.
func (t Task) Done() bool { return t.Status == TaskDone }

type WorkStats struct {
	ActiveProjects int64 `db:"active_projects"`
	CompletedTasks int64 `db:"completed_tasks"`
	PendingTasks   int64 `db:"pending_tasks"`
	DueThisWeek    int64 `db:"due_this_week"`
}

// ProjectProgress derives a project's completion percentage and status from its task counts.
func ProjectProgress(done, total int64) (int, string) {
	if total == 0 {
		return 0, ProjectNotStarted
	}

	progress := int(math.Round(float64(done) / float64(total) * 100))
	switch progress {
	case 0:
		return progress, ProjectNotStarted
	case 100:
		return progress, ProjectCompleted
	default:
		return progress, ProjectInProgress
	}
}

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}
