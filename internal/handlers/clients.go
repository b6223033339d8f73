// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"strings"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

// CreateClient adds a client.
func (h *Handlers) CreateClient(c echo.Context) error {
	const section = templates.SectionClients

	client := &models.Client{
		UserID:  userID(c),
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Phone:   strings.TrimSpace(c.FormValue("phone")),
		Company: strings.TrimSpace(c.FormValue("company")),
		Notes:   strings.TrimSpace(c.FormValue("notes")),
	}
	if client.Name == "" {
		return h.invalid(c, section, "error_missing_fields")
	}

	return h.result(c, section, h.repo.CreateClient(c.Request().Context(), client))
}

// DeleteClient removes a client together with its projects.
func (h *Handlers) DeleteClient(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionClients, "error_not_found")
	}
	return h.result(c, templates.SectionClients, h.repo.DeleteClient(c.Request().Context(), userID(c), id))
}
