// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"
	"strconv"

	"codeberg.org/oliverandrich/clarity/internal/appcontext"
	"codeberg.org/oliverandrich/clarity/internal/htmx"
	"codeberg.org/oliverandrich/clarity/internal/i18n"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render renders a templ component with the given status code.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(c.Request().Context(), buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// page builds the layout data and consumes a pending flash message.
func (h *Handlers) page(c echo.Context, titleKey string) templates.Page {
	p := templates.Page{User: appcontext.From(c).User}
	if titleKey != "" {
		p.Title = h.t(c, titleKey)
	}
	if h.flashes != nil {
		p.Flash = h.flashes.Pop(c.Response(), c.Request())
	}
	return p
}

func (h *Handlers) t(c echo.Context, id string) string {
	return i18n.T(c.Request().Context(), id)
}

// flash queues a translated message for the next page view.
func (h *Handlers) flash(c echo.Context, kind, id string) {
	if h.flashes == nil {
		return
	}
	if err := h.flashes.Set(c.Response(), flash.Message{Kind: kind, Text: h.t(c, id)}); err != nil {
		slog.Warn("flash_failed", "error", err)
	}
}

// inline builds a message shown on the page being rendered.
func (h *Handlers) inline(c echo.Context, kind, id string) *flash.Message {
	return &flash.Message{Kind: kind, Text: h.t(c, id)}
}

func redirect(c echo.Context, url string) error {
	htmx.Redirect(c.Response(), c.Request(), url)
	return nil
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func formID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.FormValue(name), 10, 64)
	return id, err == nil && id > 0
}
