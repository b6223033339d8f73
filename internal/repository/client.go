// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/vinovest/sqlx"
)

// ListClients returns a user's clients ordered by name.
func (r *Repository) ListClients(ctx context.Context, userID int64) ([]models.Client, error) {
	var clients []models.Client
	err := r.selectAll(ctx, r.db, &clients,
		`SELECT id, user_id, name, email, phone, company, notes, created_at FROM clients
		 WHERE user_id = ? ORDER BY name ASC`, userID)
	return clients, err
}

// GetClient retrieves a client owned by the user.
func (r *Repository) GetClient(ctx context.Context, userID, clientID int64) (*models.Client, error) {
	var client models.Client
	err := r.get(ctx, r.db, &client,
		`SELECT id, user_id, name, email, phone, company, notes, created_at FROM clients
		 WHERE id = ? AND user_id = ?`, clientID, userID)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ClientStats counts a user's clients and how many of them have projects.
func (r *Repository) ClientStats(ctx context.Context, userID int64) (models.ClientStats, error) {
	var stats models.ClientStats
	err := r.get(ctx, r.db, &stats,
		`SELECT
		   (SELECT COUNT(*) FROM clients WHERE user_id = ?) AS total_clients,
		   (SELECT COUNT(DISTINCT c.id) FROM clients c
		      INNER JOIN projects p ON p.client_id = c.id
		    WHERE c.user_id = ?) AS with_projects`,
		userID, userID)
	return stats, err
}

// CreateClient inserts a client.
func (r *Repository) CreateClient(ctx context.Context, client *models.Client) error {
	now := r.timestamp()
	id, err := r.insert(ctx, r.db,
		`INSERT INTO clients (user_id, name, email, phone, company, notes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		client.UserID, client.Name, client.Email, client.Phone, client.Company, client.Notes, now)
	if err != nil {
		return err
	}
	client.ID = id
	client.CreatedAt = now
	return nil
}

// DeleteClient deletes a client together with its projects and their tasks and payments.
func (r *Repository) DeleteClient(ctx context.Context, userID, clientID int64) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var projectIDs []int64
		if err := r.selectAll(ctx, tx, &projectIDs,
			`SELECT id FROM projects WHERE client_id = ? AND user_id = ?`, clientID, userID); err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			if err := r.deleteProjects(ctx, tx, userID, projectIDs); err != nil {
				return err
			}
		}

		return r.execOne(ctx, tx, `DELETE FROM clients WHERE id = ? AND user_id = ?`, clientID, userID)
	})
}

// deleteProjects removes projects and everything hanging off them.
func (r *Repository) deleteProjects(ctx context.Context, tx *sqlx.Tx, userID int64, projectIDs []int64) error {
	for _, table := range []string{"payments", "tasks"} {
		query, args, err := r.in(`DELETE FROM `+table+` WHERE project_id IN (?) AND user_id = ?`, projectIDs, userID)
		if err != nil {
			return err
		}
		if _, err := r.exec(ctx, tx, query, args...); err != nil {
			return err
		}
	}

	query, args, err := r.in(`DELETE FROM projects WHERE id IN (?) AND user_id = ?`, projectIDs, userID)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, tx, query, args...)
	return err
}
