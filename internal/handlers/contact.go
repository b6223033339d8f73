// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/clarity/internal/reporting"
	"codeberg.org/oliverandrich/clarity/internal/services/auth"
	"codeberg.org/oliverandrich/clarity/internal/services/contact"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

var contactMessages = []struct {
	err    error
	id     string
	status int
}{
	{contact.ErrMissingFields, "error_missing_fields", http.StatusUnprocessableEntity},
	{contact.ErrInvalidEmail, "validation_email", http.StatusUnprocessableEntity},
	{contact.ErrNameTooLong, "contact_error_name_length", http.StatusUnprocessableEntity},
	{contact.ErrSubjectTooLong, "contact_error_subject_length", http.StatusUnprocessableEntity},
	{contact.ErrMessageTooLong, "contact_error_message_length", http.StatusUnprocessableEntity},
	{contact.ErrTooManyLinks, "contact_error_links", http.StatusUnprocessableEntity},
	{contact.ErrRateLimited, "contact_error_rate_limited", http.StatusTooManyRequests},
}

// Contact stores a contact form submission and notifies the site owner.
func (h *Handlers) Contact(c echo.Context) error {
	form := templates.ContactForm{
		Name:    c.FormValue("name"),
		Surname: c.FormValue("surname"),
		Email:   c.FormValue("email"),
		Subject: c.FormValue("subject"),
		Message: c.FormValue("message"),
	}

	_, err := h.contact.Submit(c.Request().Context(), contact.Params{
		Name:     form.Name,
		Surname:  form.Surname,
		Email:    form.Email,
		Subject:  form.Subject,
		Message:  form.Message,
		ClientIP: auth.ClientIP(c.Request()),
	})
	if err == nil {
		h.flash(c, flash.Success, "contact_success")
		return redirect(c, "/#contact")
	}

	id, status := "error_internal", http.StatusInternalServerError
	for _, m := range contactMessages {
		if errors.Is(err, m.err) {
			id, status = m.id, m.status
			break
		}
	}
	if status == http.StatusInternalServerError {
		slog.Error("contact_failed", "error", err)
		reporting.CaptureError(c.Request().Context(), err)
	}

	page := h.page(c, "contact_title")
	page.Flash = h.inline(c, flash.Error, id)
	return Render(c, status, templates.Home(templates.HomeData{Page: page, Contact: form}))
}
