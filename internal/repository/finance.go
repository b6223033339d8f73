// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/vinovest/sqlx"
)

// BudgetSummary returns the starting budget with total income and expenses.
func (r *Repository) BudgetSummary(ctx context.Context, userID int64) (models.BudgetSummary, error) {
	var row struct {
		Starting int64 `db:"starting"`
		Income   int64 `db:"income"`
		Expenses int64 `db:"expenses"`
	}
	err := r.get(ctx, r.db, &row,
		`SELECT
		   COALESCE((SELECT budget_cents FROM users WHERE id = ?), 0) AS starting,
		   CAST(COALESCE((SELECT SUM(amount_cents) FROM payments WHERE user_id = ?), 0) AS BIGINT) AS income,
		   CAST(COALESCE((SELECT SUM(amount_cents) FROM transactions WHERE user_id = ?), 0) AS BIGINT) AS expenses`,
		userID, userID, userID)
	if err != nil {
		return models.BudgetSummary{}, err
	}
	return models.BudgetSummary{
		StartingCents: row.Starting,
		IncomeCents:   row.Income,
		ExpensesCents: row.Expenses,
	}, nil
}

// FinanceStats aggregates received payments, expenses, outstanding budgets and the
// income received since monthStart.
func (r *Repository) FinanceStats(ctx context.Context, userID int64, monthStart time.Time) (models.FinanceStats, error) {
	var row struct {
		Received    int64 `db:"received"`
		Expenses    int64 `db:"expenses"`
		Budgets     int64 `db:"budgets"`
		MonthIncome int64 `db:"month_income"`
	}
	err := r.get(ctx, r.db, &row,
		`SELECT
		   CAST(COALESCE((SELECT SUM(amount_cents) FROM payments WHERE user_id = ?), 0) AS BIGINT) AS received,
		   CAST(COALESCE((SELECT SUM(amount_cents) FROM transactions WHERE user_id = ?), 0) AS BIGINT) AS expenses,
		   CAST(COALESCE((SELECT SUM(budget_cents) FROM projects WHERE user_id = ? AND budget_cents > 0), 0) AS BIGINT) AS budgets,
		   CAST(COALESCE((SELECT SUM(amount_cents) FROM payments WHERE user_id = ? AND created_at >= ?), 0) AS BIGINT) AS month_income`,
		userID, userID, userID, userID, monthStart.UTC())
	if err != nil {
		return models.FinanceStats{}, err
	}
	return models.FinanceStats{
		ReceivedCents:    row.Received,
		ExpensesCents:    row.Expenses,
		PendingCents:     max(0, row.Budgets-row.Received),
		MonthIncomeCents: row.MonthIncome,
	}, nil
}

// ProjectsWithPayments lists budgeted projects with the amount paid on each.
func (r *Repository) ProjectsWithPayments(ctx context.Context, userID int64) ([]models.ProjectPayments, error) {
	var rows []models.ProjectPayments
	err := r.selectAll(ctx, r.db, &rows,
		`SELECT p.id, p.name, p.budget_cents, p.status, p.due_date, c.name AS client_name,
		        CAST(COALESCE((SELECT SUM(amount_cents) FROM payments WHERE project_id = p.id), 0) AS BIGINT) AS paid_cents
		 FROM projects p
		 LEFT JOIN clients c ON p.client_id = c.id
		 WHERE p.user_id = ? AND p.budget_cents > 0
		 ORDER BY p.created_at DESC, p.id DESC`, userID)
	return rows, err
}

// RecentPayments returns the user's latest payments with project and client names.
func (r *Repository) RecentPayments(ctx context.Context, userID int64, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.selectAll(ctx, r.db, &payments,
		`SELECT py.id, py.user_id, py.project_id, p.name AS project_name, c.name AS client_name,
		        py.amount_cents, py.note, py.created_at
		 FROM payments py
		 LEFT JOIN projects p ON py.project_id = p.id
		 LEFT JOIN clients c ON p.client_id = c.id
		 WHERE py.user_id = ?
		 ORDER BY py.created_at DESC, py.id DESC
		 LIMIT ?`, userID, limit)
	return payments, err
}

// CreatePayment records a payment on one of the user's projects and updates the
// project's payment status. A project counts as paid once payments cover its budget.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	now := r.timestamp()

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var budget int64
		if err := r.get(ctx, tx, &budget,
			`SELECT budget_cents FROM projects WHERE id = ? AND user_id = ?`,
			payment.ProjectID, payment.UserID); err != nil {
			return err
		}

		id, err := r.insert(ctx, tx,
			`INSERT INTO payments (user_id, project_id, amount_cents, note, created_at) VALUES (?, ?, ?, ?, ?)`,
			payment.UserID, payment.ProjectID, payment.AmountCents, payment.Note, now)
		if err != nil {
			return err
		}
		payment.ID = id
		payment.CreatedAt = now

		var paid int64
		if err := r.get(ctx, tx, &paid,
			`SELECT CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT) FROM payments WHERE project_id = ?`,
			payment.ProjectID); err != nil {
			return err
		}

		status := models.PaymentUnpaid
		var paidAt *time.Time
		if paid >= budget {
			status = models.PaymentPaid
			paidAt = &now
		}
		_, err = r.exec(ctx, tx, `UPDATE projects SET payment_status = ?, paid_at = ? WHERE id = ?`,
			status, paidAt, payment.ProjectID)
		return err
	})
}

// ListTransactions returns the user's latest expenses.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.selectAll(ctx, r.db, &transactions,
		`SELECT id, user_id, amount_cents, description, category, created_at FROM transactions
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	return transactions, err
}

// CreateTransaction records an expense.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	now := r.timestamp()
	id, err := r.insert(ctx, r.db,
		`INSERT INTO transactions (user_id, amount_cents, description, category, created_at) VALUES (?, ?, ?, ?, ?)`,
		txn.UserID, txn.AmountCents, txn.Description, txn.Category, now)
	if err != nil {
		return err
	}
	txn.ID = id
	txn.CreatedAt = now
	return nil
}

// DeleteTransaction removes an expense owned by the user.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	return r.execOne(ctx, r.db, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID)
}

// ClientRevenue summarises budgets and payments per client with at least one project.
func (r *Repository) ClientRevenue(ctx context.Context, userID int64) ([]models.ClientRevenue, error) {
	var rows []models.ClientRevenue
	err := r.selectAll(ctx, r.db, &rows,
		`SELECT c.name,
		        COUNT(DISTINCT p.id) AS projects,
		        CAST(COALESCE(SUM(p.budget_cents), 0) AS BIGINT) AS budget_cents,
		        CAST(COALESCE((SELECT SUM(py.amount_cents) FROM payments py
		                       JOIN projects p2 ON py.project_id = p2.id
		                       WHERE p2.client_id = c.id), 0) AS BIGINT) AS paid_cents
		 FROM clients c
		 LEFT JOIN projects p ON p.client_id = c.id
		 WHERE c.user_id = ?
		 GROUP BY c.id, c.name
		 HAVING COUNT(DISTINCT p.id) > 0
		 ORDER BY paid_cents DESC, c.name ASC`, userID)
	return rows, err
}
