// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers.
package handlers

import (
	"net/http"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/services/auth"
	"codeberg.org/oliverandrich/clarity/internal/services/contact"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
	"codeberg.org/oliverandrich/clarity/internal/services/session"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo     *repository.Repository
	auth     *auth.Service
	contact  *contact.Service
	sessions *session.Manager
	flashes  *flash.Store
	now      func() time.Time
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, authSvc *auth.Service, contactSvc *contact.Service, sessions *session.Manager, flashes *flash.Store) *Handlers {
	return &Handlers{
		repo:     repo,
		auth:     authSvc,
		contact:  contactSvc,
		sessions: sessions,
		flashes:  flashes,
		now:      time.Now,
	}
}

// SetClock replaces time.Now for date based dashboard figures.
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	if h.repo != nil {
		if err := h.repo.DB().PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the landing page.
func (h *Handlers) Home(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Home(templates.HomeData{Page: h.page(c, "")}))
}
