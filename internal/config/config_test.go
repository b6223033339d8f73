// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host     string
		expected bool
	}{
		{"", true},
		{"localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"app.localhost", true},
		{"sub.domain.localhost", true},
		{"example.com", false},
		{"192.168.1.1", false},
		{"localhost.com", false}, // not a real localhost
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsLocalhost(tt.host))
		})
	}
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "HTTP default port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 80}},
			expected: "http://localhost",
		},
		{
			name:     "HTTP custom port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 8080}},
			expected: "http://localhost:8080",
		},
		{
			name: "secure cookies imply HTTPS",
			cfg: &Config{
				Server:  ServerConfig{Host: "example.com", Port: 443},
				Session: SessionConfig{Secure: true},
			},
			expected: "https://example.com",
		},
		{
			name: "HTTPS custom port",
			cfg: &Config{
				Server:  ServerConfig{Host: "example.com", Port: 8443},
				Session: SessionConfig{Secure: true},
			},
			expected: "https://example.com:8443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestFlags(t *testing.T) {
	flags := Flags()
	assert.NotEmpty(t, flags)

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	for _, name := range []string{
		"host", "port", "base-url", "log-level", "database-dsn",
		"session-cookie-name", "session-secret", "auth-max-failed-attempts",
		"auth-password-cost", "smtp-host", "sentry-dsn", "metrics",
	} {
		assert.True(t, flagNames[name], "should have %s flag", name)
	}
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 8080, cfg.Server.Port)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, "auth_token", cfg.Session.CookieName)
			assert.Equal(t, time.Hour, cfg.Session.TTL)
			assert.Equal(t, 5, cfg.Auth.MaxFailedAttempts)
			assert.Equal(t, 15*time.Minute, cfg.Auth.AttemptWindow)
			assert.Equal(t, 24*time.Hour, cfg.Auth.VerificationTTL)
			assert.Equal(t, time.Hour, cfg.Auth.ResetTTL)
			assert.Equal(t, 12, cfg.Auth.PasswordCost)
			assert.Equal(t, 10, cfg.Auth.ResetTokenCost)
			assert.Equal(t, "Clarity App", cfg.SMTP.FromName)
			assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)

			assert.NoError(t, cfg.Validate())
			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://example.com", cfg.Server.BaseURL)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.Equal(t, "noreply@example.com", cfg.Contact.Recipient)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://example.com",
		"--log-level", "debug",
		"--database-dsn", "./data/test.db",
		"--smtp-from", "noreply@example.com",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Session: SessionConfig{TTL: time.Hour},
			Auth: AuthConfig{
				MaxFailedAttempts: 5,
				AttemptWindow:     15 * time.Minute,
				VerificationTTL:   24 * time.Hour,
				ResetTTL:          time.Hour,
				PasswordCost:      12,
				ResetTokenCost:    10,
			},
		}
	}

	t.Run("accepts defaults", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("rejects weak password cost", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.PasswordCost = 4
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password cost")
	})

	t.Run("rejects weak reset cost", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.ResetTokenCost = 8
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive durations", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.ResetTTL = 0
		cfg.Session.TTL = -time.Second
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auth reset ttl")
		assert.Contains(t, err.Error(), "session ttl")
	})
}
