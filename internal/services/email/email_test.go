// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"codeberg.org/oliverandrich/clarity/internal/i18n"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/services/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func validSMTPConfig() *config.SMTPConfig {
	return &config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "testuser",
		Password: "testpass",
		From:     "noreply@example.com",
		FromName: "Clarity App",
		TLS:      true,
	}
}

func TestNewSMTPMailer(t *testing.T) {
	m, err := email.NewSMTPMailer(validSMTPConfig())

	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewSMTPMailer_ImplicitTLS(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Port = 465

	_, err := email.NewSMTPMailer(cfg)

	require.NoError(t, err)
}

func TestNewSMTPMailer_MissingHost(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = ""

	_, err := email.NewSMTPMailer(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewSMTPMailer_MissingFrom(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.From = ""

	_, err := email.NewSMTPMailer(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP from address is required")
}

func TestSMTPMailer_SendInvalidRecipient(t *testing.T) {
	m, err := email.NewSMTPMailer(validSMTPConfig())
	require.NoError(t, err)

	err = m.Send(context.Background(), email.Message{To: "not an address", Subject: "x", Text: "y"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting to address")
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := email.LogMailer{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	err := m.Send(context.Background(), email.Message{To: "a@x.com", Subject: "Hello", Text: "secret-token"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "a@x.com")
	assert.NotContains(t, buf.String(), "secret-token")
}

func newComposer(t *testing.T) *email.Composer {
	t.Helper()
	require.NoError(t, i18n.Init())
	c, err := email.NewComposer("https://clarity.example/")
	require.NoError(t, err)
	return c
}

func TestComposer_URLs(t *testing.T) {
	c := newComposer(t)

	assert.Equal(t, "https://clarity.example/verify?token=abc123", c.VerificationURL("abc123"))
	assert.Equal(t,
		"https://clarity.example/reset-password?email=a%2Bb%40x.com&token=abc123",
		c.ResetURL("abc123", "a+b@x.com"))
}

func TestComposer_Verification(t *testing.T) {
	c := newComposer(t)
	ctx := i18n.WithLocale(context.Background(), language.English)

	msg, err := c.Verification(ctx, "alice@x.com", "Alice", "tok")

	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", msg.To)
	assert.Equal(t, "Verify your email", msg.Subject)
	assert.Contains(t, msg.HTML, "CLARITY")
	assert.Contains(t, msg.HTML, "https://clarity.example/verify?token=tok")
	assert.Contains(t, msg.Text, "https://clarity.example/verify?token=tok")
	assert.Contains(t, msg.Text, "Alice")
}

func TestComposer_VerificationGerman(t *testing.T) {
	c := newComposer(t)
	ctx := i18n.WithLocale(context.Background(), language.German)

	msg, err := c.Verification(ctx, "alice@x.com", "Alice", "tok")

	require.NoError(t, err)
	assert.Equal(t, "Bestätige deine E-Mail-Adresse", msg.Subject)
}

func TestComposer_PasswordReset(t *testing.T) {
	c := newComposer(t)
	ctx := i18n.WithLocale(context.Background(), language.English)

	msg, err := c.PasswordReset(ctx, "alice@x.com", "tok")

	require.NoError(t, err)
	assert.Equal(t, "Reset your password", msg.Subject)
	assert.Contains(t, msg.HTML, "reset-password?email=alice%40x.com&amp;token=tok")
	assert.Contains(t, msg.Text, "reset-password?email=alice%40x.com&token=tok")
}

func TestComposer_ContactNotification(t *testing.T) {
	c := newComposer(t)

	msg, err := c.ContactNotification(context.Background(), "owner@x.com", &models.ContactMessage{
		Reference: "ref-1", Name: "Ann Lee", Email: "ann@x.com", Subject: "Quote", Message: "Hi there", IPAddress: "10.0.0.1",
	})

	require.NoError(t, err)
	assert.Equal(t, "owner@x.com", msg.To)
	assert.Equal(t, "New Contact: Quote", msg.Subject)
	assert.Contains(t, msg.Text, "Ann Lee")
	assert.Contains(t, msg.Text, "Hi there")
	assert.Empty(t, msg.HTML)
}
