// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidAmount is returned when a decimal amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Payment is a (partial) payment received on a project.
type Payment struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	ProjectID   int64     `db:"project_id" json:"project_id"`
	ProjectName *string   `db:"project_name" json:"project_name,omitempty"`
	ClientName  *string   `db:"client_name" json:"client_name,omitempty"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Note        string    `db:"note" json:"note"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Transaction is an expense.
type Transaction struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type BudgetSummary struct {
	StartingCents int64
	IncomeCents   int64
	ExpensesCents int64
}

// BalanceCents is the starting budget plus income minus expenses.
func (b BudgetSummary) BalanceCents() int64 {
	return b.StartingCents + b.IncomeCents - b.ExpensesCents
}

type FinanceStats struct {
	ReceivedCents    int64
	ExpensesCents    int64
	PendingCents     int64
	MonthIncomeCents int64
}

// ProjectPayments is a budgeted project together with what has been paid on it.
type ProjectPayments struct { //nolint:govet // fieldalignment: readability over optimization
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	BudgetCents int64   `db:"budget_cents"`
	Status      string  `db:"status"`
	DueDate     *string `db:"due_date"`
	ClientName  *string `db:"client_name"`
	PaidCents   int64   `db:"paid_cents"`
}

// OutstandingCents never goes below zero.
func (p ProjectPayments) OutstandingCents() int64 {
	return max(0, p.BudgetCents-p.PaidCents)
}

type ClientRevenue struct {
	Name        string `db:"name"`
	Projects    int64  `db:"projects"`
	BudgetCents int64  `db:"budget_cents"`
	PaidCents   int64  `db:"paid_cents"`
}

// ParseCents converts a decimal string such as "12.5" or "1,200.00" to cents.
func ParseCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimals", ErrInvalidAmount, s)
	}
	frac += strings.Repeat("0", 2-len(frac))

	if !digits(whole) || !digits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return total, nil
}

// digits reports whether s consists of ASCII digits only.
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatCents renders cents as a decimal string with two places.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
