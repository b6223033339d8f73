// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/clarity/internal/reporting"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

// errorMessages maps status codes to message IDs for the error page.
var errorMessages = map[int]string{
	http.StatusBadRequest:            "error_bad_request",
	http.StatusForbidden:             "error_forbidden",
	http.StatusNotFound:              "error_page_not_found",
	http.StatusMethodNotAllowed:      "error_method_not_allowed",
	http.StatusRequestEntityTooLarge: "error_too_large",
}

// ErrorHandler renders the error page. Server errors are logged and reported,
// their details never reach the client.
func (h *Handlers) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request_failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		reporting.CaptureError(c.Request().Context(), err)
	}

	id, ok := errorMessages[code]
	if !ok {
		id = "error_internal"
		if code < http.StatusInternalServerError {
			id = "error_bad_request"
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		page := h.page(c, "")
		page.Title = http.StatusText(code)
		err = Render(c, code, templates.Error(templates.ErrorData{Page: page, Code: code, Message: h.t(c, id)}))
	}
	if err != nil {
		slog.Error("error page failed", "error", err)
	}
}
