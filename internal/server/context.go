// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"codeberg.org/oliverandrich/clarity/internal/appcontext"
	"codeberg.org/oliverandrich/clarity/internal/htmx"
	"github.com/labstack/echo/v4"
)

// customContext wraps the Echo context with appcontext.Context.
func customContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &appcontext.Context{
				Context: c,
				Htmx:    htmx.ParseRequest(c.Request()),
			}
			return next(cc)
		}
	}
}
