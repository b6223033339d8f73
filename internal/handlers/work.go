// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"strings"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

const maxTitleLength = 200

// optionalDate returns nil for an empty value and rejects anything but YYYY-MM-DD.
func optionalDate(value string) (*string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		return nil, false
	}
	return &value, true
}

// CreateProject adds a project, optionally linked to one of the user's clients.
func (h *Handlers) CreateProject(c echo.Context) error {
	const section = templates.SectionWork
	uid := userID(c)

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" || len(name) > maxTitleLength {
		return h.invalid(c, section, "error_missing_fields")
	}
	due, ok := optionalDate(c.FormValue("due_date"))
	if !ok {
		return h.invalid(c, section, "error_invalid_date")
	}
	budget, err := models.ParseCents(c.FormValue("budget"))
	if err != nil || budget < 0 {
		return h.invalid(c, section, "error_invalid_amount")
	}

	project := &models.Project{
		UserID:      uid,
		Name:        name,
		Description: strings.TrimSpace(c.FormValue("description")),
		DueDate:     due,
		BudgetCents: budget,
	}
	if c.FormValue("client_id") != "" {
		clientID, ok := formID(c, "client_id")
		if !ok {
			return h.invalid(c, section, "error_not_found")
		}
		if _, err := h.repo.GetClient(c.Request().Context(), uid, clientID); err != nil {
			return h.result(c, section, err)
		}
		project.ClientID = &clientID
	}

	return h.result(c, section, h.repo.CreateProject(c.Request().Context(), project))
}

// DeleteProject removes a project with its tasks and payments.
func (h *Handlers) DeleteProject(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionWork, "error_not_found")
	}
	return h.result(c, templates.SectionWork, h.repo.DeleteProject(c.Request().Context(), userID(c), id))
}

// CreateTask adds a task to a project.
func (h *Handlers) CreateTask(c echo.Context) error {
	const section = templates.SectionWork

	projectID, ok := formID(c, "project_id")
	if !ok {
		return h.invalid(c, section, "error_not_found")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" || len(title) > maxTitleLength {
		return h.invalid(c, section, "error_missing_fields")
	}
	priority := c.FormValue("priority")
	if priority == "" {
		priority = "medium"
	}
	if !models.ValidPriority(priority) {
		return h.invalid(c, section, "error_invalid_priority")
	}
	due, ok := optionalDate(c.FormValue("due_date"))
	if !ok {
		return h.invalid(c, section, "error_invalid_date")
	}

	task := &models.Task{
		ProjectID: projectID,
		UserID:    userID(c),
		Title:     title,
		Priority:  priority,
		DueDate:   due,
	}
	return h.result(c, section, h.repo.CreateTask(c.Request().Context(), task))
}

// ToggleTask flips a task between todo and done.
func (h *Handlers) ToggleTask(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionWork, "error_not_found")
	}
	_, err := h.repo.ToggleTask(c.Request().Context(), userID(c), id)
	return h.result(c, templates.SectionWork, err)
}

// DeleteTask removes a task.
func (h *Handlers) DeleteTask(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.invalid(c, templates.SectionWork, "error_not_found")
	}
	err := h.repo.DeleteTask(c.Request().Context(), userID(c), id)
	return h.result(c, templates.SectionWork, err)
}
