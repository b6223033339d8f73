// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"strings"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/services/auth"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

// positiveAmount parses a decimal form value that must be greater than zero.
func positiveAmount(value string) (int64, bool) {
	cents, err := models.ParseCents(value)
	return cents, err == nil && cents > 0
}

// UpdateBudget sets the user's starting budget.
func (h *Handlers) UpdateBudget(c echo.Context) error {
	const section = templates.SectionFinances

	cents, err := models.ParseCents(c.FormValue("budget"))
	if err != nil {
		return h.invalid(c, section, "error_invalid_amount")
	}

	err = h.auth.SetBudget(c.Request().Context(), userID(c), cents)
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		return h.invalid(c, section, "error_invalid_amount")
	}
	return h.result(c, section, err)
}

// CreatePayment records a payment against a project.
func (h *Handlers) CreatePayment(c echo.Context) error {
	const section = templates.SectionFinances

	projectID, ok := formID(c, "project_id")
	if !ok {
		return h.invalid(c, section, "error_not_found")
	}
	amount, ok := positiveAmount(c.FormValue("amount"))
	if !ok {
		return h.invalid(c, section, "error_invalid_amount")
	}

	payment := &models.Payment{
		UserID:      userID(c),
		ProjectID:   projectID,
		AmountCents: amount,
		Note:        strings.TrimSpace(c.FormValue("note")),
	}
	return h.result(c, section, h.repo.CreatePayment(c.Request().Context(), payment))
}

// CreateTransaction records an expense.
func (h *Handlers) CreateTransaction(c echo.Context) error {
	const section = templates.SectionFinances

	amount, ok := positiveAmount(c.FormValue("amount"))
	if !ok {
		return h.invalid(c, section, "error_invalid_amount")
	}
	description := strings.TrimSpace(c.FormValue("description"))
	if description == "" {
		return h.invalid(c, section, "error_missing_fields")
	}

	txn := &models.Transaction{
		UserID:      userID(c),
		AmountCents: amount,
		Description: description,
		Category:    strings.TrimSpace(c.FormValue("category")),
	}
	return h.result(c, section, h.repo.CreateTransaction(c.Request().Context(), txn))
}

// DeleteTransaction removes an expense.
func (h *Handlers) DeleteTransaction(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionFinances, "error_not_found")
	}
	err := h.repo.DeleteTransaction(c.Request().Context(), userID(c), id)
	return h.result(c, templates.SectionFinances, err)
}
