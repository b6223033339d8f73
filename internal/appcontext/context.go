// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext provides the custom Echo context and context keys.
package appcontext

import (
	"codeberg.org/oliverandrich/clarity/internal/htmx"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/labstack/echo/v4"
)

// CSRFToken is the context.Context key for the CSRF token.
type CSRFToken struct{}

// Context is a custom Echo context with typed fields for htmx and the session user.
type Context struct {
	echo.Context
	Htmx *htmx.Request
	User *models.User // nil if not authenticated
}

// From returns the custom context wrapping c. Handlers invoked without the
// context middleware (tests, error handler) get a fresh wrapper.
func From(c echo.Context) *Context {
	if cc, ok := c.(*Context); ok {
		return cc
	}
	return &Context{Context: c, Htmx: htmx.ParseRequest(c.Request())}
}

// GetUser returns the authenticated user, or nil if not authenticated.
func (c *Context) GetUser() *models.User {
	return c.User
}

// IsAuthenticated returns true if the user is authenticated.
func (c *Context) IsAuthenticated() bool {
	return c.User != nil
}

// IsHtmx reports whether the request was issued by htmx.
func (c *Context) IsHtmx() bool {
	return c.Htmx != nil && c.Htmx.IsHtmx
}
