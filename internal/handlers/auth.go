// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/clarity/internal/appcontext"
	"codeberg.org/oliverandrich/clarity/internal/reporting"
	"codeberg.org/oliverandrich/clarity/internal/services/auth"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
)

// authMessage maps an auth service error to a message ID and status code.
func authMessage(err error) (string, int) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		return "validation_" + verr.Field, http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrMissingFields):
		return "error_missing_fields", http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrDuplicateEmail):
		return "error_duplicate_email", http.StatusConflict
	case errors.Is(err, auth.ErrRateLimited):
		return "error_rate_limited", http.StatusTooManyRequests
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "error_invalid_credentials", http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailNotVerified):
		return "error_email_not_verified", http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidOrExpiredToken):
		return "error_invalid_token", http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidOrExpiredReset):
		return "error_invalid_reset", http.StatusBadRequest
	default:
		return "error_internal", http.StatusInternalServerError
	}
}

func (h *Handlers) renderAuth(c echo.Context, status int, data templates.AuthData) error {
	if data.Title == "" {
		data.Title = h.t(c, "auth_"+data.Mode+"_title")
	}
	return Render(c, status, templates.Auth(data))
}

// AuthPage renders the login or registration form.
func (h *Handlers) AuthPage(c echo.Context) error {
	if appcontext.From(c).IsAuthenticated() {
		return redirect(c, "/dashboard")
	}

	mode := templates.ModeLogin
	if c.QueryParam("mode") == templates.ModeRegister {
		mode = templates.ModeRegister
	}
	return h.renderAuth(c, http.StatusOK, templates.AuthData{Page: h.page(c, ""), Mode: mode})
}

// Login verifies the credentials and sets the session cookie.
func (h *Handlers) Login(c echo.Context) error {
	emailAddr := c.FormValue("email")
	user, err := h.auth.Login(c.Request().Context(), auth.LoginParams{
		Email:    emailAddr,
		Password: c.FormValue("password"),
		ClientIP: auth.ClientIP(c.Request()),
	})
	if err != nil {
		return h.authError(c, err, templates.AuthData{Mode: templates.ModeLogin, Email: emailAddr})
	}

	cookie, err := h.sessions.Create(user.ID)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)

	return redirect(c, "/dashboard")
}

// Register creates an account and mails the verification link.
func (h *Handlers) Register(c echo.Context) error {
	params := auth.RegisterParams{
		Name:            c.FormValue("name"),
		Email:           c.FormValue("email"),
		Role:            c.FormValue("role"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	}

	if _, err := h.auth.Register(c.Request().Context(), params); err != nil {
		return h.authError(c, err, templates.AuthData{
			Mode:  templates.ModeRegister,
			Name:  params.Name,
			Email: params.Email,
			Role:  params.Role,
		})
	}

	h.flash(c, flash.Success, "register_success")
	return redirect(c, "/auth")
}

// Logout clears the session cookie.
func (h *Handlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	h.flash(c, flash.Success, "logout_success")
	return redirect(c, "/auth")
}

// Verify consumes an email verification link.
func (h *Handlers) Verify(c echo.Context) error {
	if err := h.auth.ConsumeVerification(c.Request().Context(), c.QueryParam("token")); err != nil {
		id, status := authMessage(err)
		if status == http.StatusInternalServerError {
			reporting.CaptureError(c.Request().Context(), err)
		}
		h.flash(c, flash.Error, id)
		return redirect(c, "/auth")
	}

	h.flash(c, flash.Success, "verify_success")
	return redirect(c, "/auth")
}

// ForgotPage renders the reset request form.
func (h *Handlers) ForgotPage(c echo.Context) error {
	return h.renderAuth(c, http.StatusOK, templates.AuthData{Page: h.page(c, ""), Mode: templates.ModeForgot})
}

// Forgot requests a reset link. The answer is the same for known and unknown addresses.
func (h *Handlers) Forgot(c echo.Context) error {
	emailAddr := c.FormValue("email")
	if err := h.auth.RequestReset(c.Request().Context(), emailAddr); err != nil {
		return h.authError(c, err, templates.AuthData{Mode: templates.ModeForgot, Email: emailAddr})
	}

	h.flash(c, flash.Success, "reset_requested")
	return redirect(c, "/auth")
}

// ResetPage renders the new password form for a reset link.
func (h *Handlers) ResetPage(c echo.Context) error {
	token, emailAddr := c.QueryParam("token"), c.QueryParam("email")
	if token == "" || emailAddr == "" {
		h.flash(c, flash.Error, "error_invalid_reset")
		return redirect(c, "/auth/forgot-password")
	}

	return Render(c, http.StatusOK, templates.ResetPassword(templates.ResetData{
		Page:  h.page(c, "reset_title"),
		Email: emailAddr,
		Token: token,
	}))
}

// Reset sets a new password from a reset link.
func (h *Handlers) Reset(c echo.Context) error {
	params := auth.ResetParams{
		Email:           c.FormValue("email"),
		Token:           c.FormValue("token"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
	}

	err := h.auth.ConsumeReset(c.Request().Context(), params)
	switch {
	case err == nil:
		h.flash(c, flash.Success, "reset_success")
		return redirect(c, "/auth")
	case errors.Is(err, auth.ErrInvalidOrExpiredReset):
		h.flash(c, flash.Error, "error_invalid_reset")
		return redirect(c, "/auth/forgot-password")
	}

	id, status := authMessage(err)
	if status == http.StatusInternalServerError {
		slog.Error("reset_failed", "error", err)
		reporting.CaptureError(c.Request().Context(), err)
	}
	page := h.page(c, "reset_title")
	page.Flash = h.inline(c, flash.Error, id)
	return Render(c, status, templates.ResetPassword(templates.ResetData{
		Page:  page,
		Email: params.Email,
		Token: params.Token,
	}))
}

// authError renders the auth form again with the error and the submitted values.
func (h *Handlers) authError(c echo.Context, err error, data templates.AuthData) error {
	id, status := authMessage(err)
	if status == http.StatusInternalServerError {
		slog.Error("auth_failed", "path", c.Path(), "error", err)
		reporting.CaptureError(c.Request().Context(), err)
	}

	data.Page = h.page(c, "")
	data.Flash = h.inline(c, flash.Error, id)
	return h.renderAuth(c, status, data)
}
