// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/vinovest/sqlx"
)

const projectColumns = `p.id, p.user_id, p.client_id, c.name AS client_name, p.name, p.description, p.due_date,
	p.status, p.progress, p.budget_cents, p.payment_status, p.paid_at, p.created_at`

const taskColumns = `id, project_id, user_id, title, priority, due_date, status, created_at`

// ListProjectsWithTasks returns a user's projects, newest first, each with its tasks
// ordered by priority and then due date.
func (r *Repository) ListProjectsWithTasks(ctx context.Context, userID int64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.selectAll(ctx, r.db, &projects,
		`SELECT `+projectColumns+` FROM projects p
		 LEFT JOIN clients c ON p.client_id = c.id
		 WHERE p.user_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`, userID); err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	query, args, err := r.in(
		`SELECT `+taskColumns+` FROM tasks WHERE project_id IN (?)
		 ORDER BY CASE priority
		   WHEN 'urgent' THEN 1
		   WHEN 'high' THEN 2
		   WHEN 'medium' THEN 3
		   WHEN 'low' THEN 4
		 END, due_date IS NULL, due_date ASC, id ASC`, ids)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := r.selectAll(ctx, r.db, &tasks, query, args...); err != nil {
		return nil, err
	}

	byProject := make(map[int64][]models.Task, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}
	for i := range projects {
		projects[i].Tasks = byProject[projects[i].ID]
	}

	return projects, nil
}

// GetProject retrieves a project owned by the user, without tasks.
func (r *Repository) GetProject(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	var project models.Project
	err := r.get(ctx, r.db, &project,
		`SELECT `+projectColumns+` FROM projects p
		 LEFT JOIN clients c ON p.client_id = c.id
		 WHERE p.id = ? AND p.user_id = ?`, projectID, userID)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// WorkStats aggregates project and task counts. Dates are YYYY-MM-DD strings bounding
// the "due this week" window inclusively.
func (r *Repository) WorkStats(ctx context.Context, userID int64, from, to string) (models.WorkStats, error) {
	var stats models.WorkStats
	err := r.get(ctx, r.db, &stats,
		`SELECT
		   (SELECT COUNT(*) FROM projects WHERE user_id = ? AND status != ?) AS active_projects,
		   (SELECT COUNT(*) FROM tasks WHERE user_id = ? AND status = ?) AS completed_tasks,
		   (SELECT COUNT(*) FROM tasks WHERE user_id = ? AND status != ?) AS pending_tasks,
		   (SELECT COUNT(*) FROM tasks WHERE user_id = ? AND status != ?
		      AND due_date BETWEEN ? AND ?) AS due_this_week`,
		userID, models.ProjectCompleted,
		userID, models.TaskDone,
		userID, models.TaskDone,
		userID, models.TaskDone, from, to)
	return stats, err
}

// CreateProject inserts a project in its initial state.
func (r *Repository) CreateProject(ctx context.Context, project *models.Project) error {
	now := r.timestamp()
	project.Status = models.ProjectNotStarted
	project.PaymentStatus = models.PaymentUnpaid
	project.Progress = 0

	id, err := r.insert(ctx, r.db,
		`INSERT INTO projects (user_id, client_id, name, description, due_date, status, progress,
		   budget_cents, payment_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.UserID, project.ClientID, project.Name, project.Description, project.DueDate,
		project.Status, project.Progress, project.BudgetCents, project.PaymentStatus, now)
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	return nil
}

// DeleteProject deletes a project with its tasks and payments.
func (r *Repository) DeleteProject(ctx context.Context, userID, projectID int64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var owned int64
		if err := r.get(ctx, tx, &owned,
			`SELECT COUNT(*) FROM projects WHERE id = ? AND user_id = ?`, projectID, userID); err != nil {
			return err
		}
		if owned == 0 {
			return ErrNotFound
		}
		return r.deleteProjects(ctx, tx, userID, []int64{projectID})
	})
}

// CreateTask adds a task to one of the user's projects and refreshes the project's progress.
func (r *Repository) CreateTask(ctx context.Context, task *models.Task) error {
	now := r.timestamp()
	task.Status = models.TaskTodo

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var owned int64
		if err := r.get(ctx, tx, &owned,
			`SELECT COUNT(*) FROM projects WHERE id = ? AND user_id = ?`, task.ProjectID, task.UserID); err != nil {
			return err
		}
		if owned == 0 {
			return ErrNotFound
		}

		id, err := r.insert(ctx, tx,
			`INSERT INTO tasks (project_id, user_id, title, priority, due_date, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			task.ProjectID, task.UserID, task.Title, task.Priority, task.DueDate, task.Status, now)
		if err != nil {
			return err
		}
		task.ID = id
		task.CreatedAt = now

		return r.recalcProjectProgress(ctx, tx, task.ProjectID)
	})
}

// ToggleTask flips a task between todo and done and returns the updated task.
func (r *Repository) ToggleTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	var task models.Task
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.get(ctx, tx, &task,
			`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID); err != nil {
			return err
		}

		if task.Done() {
			task.Status = models.TaskTodo
		} else {
			task.Status = models.TaskDone
		}

		if _, err := r.exec(ctx, tx,
			`UPDATE tasks SET status = ? WHERE id = ? AND user_id = ?`, task.Status, taskID, userID); err != nil {
			return err
		}
		return r.recalcProjectProgress(ctx, tx, task.ProjectID)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task and refreshes its project's progress.
func (r *Repository) DeleteTask(ctx context.Context, userID, taskID int64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var projectID int64
		if err := r.get(ctx, tx, &projectID,
			`DELETE FROM tasks WHERE id = ? AND user_id = ? RETURNING project_id`, taskID, userID); err != nil {
			return err
		}
		return r.recalcProjectProgress(ctx, tx, projectID)
	})
}

func (r *Repository) recalcProjectProgress(ctx context.Context, tx *sqlx.Tx, projectID int64) error {
	var counts struct {
		Total int64 `db:"total"`
		Done  int64 `db:"done"`
	}
	if err := r.get(ctx, tx, &counts,
		`SELECT COUNT(*) AS total,
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS done
		 FROM tasks WHERE project_id = ?`, models.TaskDone, projectID); err != nil {
		return err
	}

	progress, status := models.ProjectProgress(counts.Done, counts.Total)
	_, err := r.exec(ctx, tx, `UPDATE projects SET progress = ?, status = ? WHERE id = ?`, progress, status, projectID)
	return err
}
