// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"

	"codeberg.org/oliverandrich/clarity/internal/i18n"
	"codeberg.org/oliverandrich/clarity/internal/models"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// Composer renders the application's transactional emails.
type Composer struct {
	baseURL string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

// NewComposer parses the embedded templates. Links are built on baseURL.
func NewComposer(baseURL string) (*Composer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parsing text templates: %w", err)
	}

	return &Composer{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		html:    html,
		text:    text,
	}, nil
}

// VerificationURL is the link a new user follows to verify their address.
func (c *Composer) VerificationURL(token string) string {
	return c.baseURL + "/verify?" + url.Values{"token": {token}}.Encode()
}

// ResetURL is the link a user follows to choose a new password.
func (c *Composer) ResetURL(token, email string) string {
	return c.baseURL + "/reset-password?" + url.Values{"token": {token}, "email": {email}}.Encode()
}

// Verification builds the email carrying a verification link.
func (c *Composer) Verification(ctx context.Context, to, name, token string) (Message, error) {
	return c.compose(ctx, to, i18n.T(ctx, "email_verification_subject"), map[string]any{
		"Heading": i18n.T(ctx, "email_verification_heading"),
		"Body":    i18n.TData(ctx, "email_verification_body", map[string]any{"Name": name}),
		"Action":  i18n.T(ctx, "email_verification_action"),
		"Footer":  i18n.T(ctx, "email_verification_footer"),
		"URL":     c.VerificationURL(token),
	})
}

// PasswordReset builds the email carrying a reset link.
func (c *Composer) PasswordReset(ctx context.Context, to, token string) (Message, error) {
	return c.compose(ctx, to, i18n.T(ctx, "email_reset_subject"), map[string]any{
		"Heading": i18n.T(ctx, "email_reset_heading"),
		"Body":    i18n.T(ctx, "email_reset_body"),
		"Action":  i18n.T(ctx, "email_reset_action"),
		"Footer":  i18n.T(ctx, "email_reset_footer"),
		"URL":     c.ResetURL(token, to),
	})
}

// ContactNotification forwards a contact form submission to the site owner.
func (c *Composer) ContactNotification(ctx context.Context, to string, msg *models.ContactMessage) (Message, error) {
	data := map[string]any{"Message": msg}

	var text bytes.Buffer
	if err := c.text.ExecuteTemplate(&text, "contact.txt", data); err != nil {
		return Message{}, fmt.Errorf("rendering contact notification: %w", err)
	}

	return Message{
		To:      to,
		Subject: "New Contact: " + msg.Subject,
		Text:    text.String(),
	}, nil
}

func (c *Composer) compose(_ context.Context, to, subject string, data map[string]any) (Message, error) {
	data["Subject"] = subject

	var html, text bytes.Buffer
	if err := c.html.ExecuteTemplate(&html, "action.html", data); err != nil {
		return Message{}, fmt.Errorf("rendering %q: %w", subject, err)
	}
	if err := c.text.ExecuteTemplate(&text, "action.txt", data); err != nil {
		return Message{}, fmt.Errorf("rendering %q: %w", subject, err)
	}

	return Message{
		To:      to,
		Subject: subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
