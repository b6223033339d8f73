// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// Minimum bcrypt costs accepted for stored passwords and throwaway reset tokens.
const (
	MinPasswordCost   = 12
	MinResetTokenCost = 10
)

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	Flash    FlashConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Contact  ContactConfig
	Sentry   SentryConfig
	Metrics  MetricsConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string // file path for SQLite, postgres:// URL for PostgreSQL
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string        // Session cookie name
	Secret     string        // HMAC secret for signing session tokens
	TTL        time.Duration // Lifetime of a session token
	Secure     bool          // Send cookie over HTTPS only
}

type FlashConfig struct {
	HashKey  string // 32-byte hex string for HMAC signing
	BlockKey string // 32-byte hex string for AES encryption (optional)
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical
	MaxFailedAttempts int
	AttemptWindow     time.Duration
	VerificationTTL   time.Duration
	ResetTTL          time.Duration
	PasswordCost      int
	ResetTokenCost    int
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

type ContactConfig struct {
	Recipient  string // defaults to the SMTP from address
	MaxPerHour int
}

type SentryConfig struct {
	DSN         string
	Environment string
}

type MetricsConfig struct {
	Enabled bool
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			Secret:     cmd.String("session-secret"),
			TTL:        cmd.Duration("session-ttl"),
			Secure:     cmd.Bool("session-secure"),
		},
		Flash: FlashConfig{
			HashKey:  cmd.String("flash-hash-key"),
			BlockKey: cmd.String("flash-block-key"),
		},
		Auth: AuthConfig{
			MaxFailedAttempts: int(cmd.Int("auth-max-failed-attempts")),
			AttemptWindow:     cmd.Duration("auth-attempt-window"),
			VerificationTTL:   cmd.Duration("auth-verification-ttl"),
			ResetTTL:          cmd.Duration("auth-reset-ttl"),
			PasswordCost:      int(cmd.Int("auth-password-cost")),
			ResetTokenCost:    int(cmd.Int("auth-reset-token-cost")),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Contact: ContactConfig{
			Recipient:  cmd.String("contact-recipient"),
			MaxPerHour: int(cmd.Int("contact-max-per-hour")),
		},
		Sentry: SentryConfig{
			DSN:         cmd.String("sentry-dsn"),
			Environment: cmd.String("sentry-environment"),
		},
		Metrics: MetricsConfig{
			Enabled: cmd.Bool("metrics"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}
	if cfg.Contact.Recipient == "" {
		cfg.Contact.Recipient = cfg.SMTP.From
	}

	return cfg
}

// Validate checks settings that would weaken the credential lifecycle.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.PasswordCost < MinPasswordCost {
		errs = append(errs, fmt.Errorf("auth password cost must be at least %d", MinPasswordCost))
	}
	if c.Auth.ResetTokenCost < MinResetTokenCost {
		errs = append(errs, fmt.Errorf("auth reset token cost must be at least %d", MinResetTokenCost))
	}
	if c.Auth.MaxFailedAttempts <= 0 {
		errs = append(errs, errors.New("auth max failed attempts must be positive"))
	}
	for name, d := range map[string]time.Duration{
		"auth attempt window":   c.Auth.AttemptWindow,
		"auth verification ttl": c.Auth.VerificationTTL,
		"auth reset ttl":        c.Auth.ResetTTL,
		"session ttl":           c.Session.TTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}

	return errors.Join(errs...)
}

func buildBaseURL(cfg *Config) string {
	scheme := "http"
	if cfg.Session.Secure {
		scheme = "https"
	}

	port := cfg.Server.Port
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, cfg.Server.Host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Server.Host, port)
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func source(env, key string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(cli.EnvVar(env), toml.TOML(key, configFile))
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: source("HOST", "server.host"),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: source("PORT", "server.port"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL used in emailed links",
			Sources: source("BASE_URL", "server.base_url"),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: source("MAX_BODY_SIZE", "server.max_body_size"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: source("LOG_LEVEL", "log.level"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: source("LOG_FORMAT", "log.format"),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/clarity.db",
			Usage:   "Database DSN (SQLite path or postgres:// URL)",
			Sources: source("DATABASE_DSN", "database.dsn"),
		},
		// Session flags
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "auth_token",
			Usage:   "Session cookie name",
			Sources: source("SESSION_COOKIE_NAME", "session.cookie_name"),
		},
		&cli.StringFlag{
			Name:    "session-secret",
			Usage:   "Secret for signing session tokens (auto-generated if empty in dev)",
			Sources: source("SESSION_SECRET", "session.secret"),
		},
		&cli.DurationFlag{
			Name:    "session-ttl",
			Value:   time.Hour,
			Usage:   "Session token lifetime",
			Sources: source("SESSION_TTL", "session.ttl"),
		},
		&cli.BoolFlag{
			Name:    "session-secure",
			Usage:   "Send session cookie over HTTPS only",
			Sources: source("SESSION_SECURE", "session.secure"),
		},
		&cli.StringFlag{
			Name:    "flash-hash-key",
			Usage:   "Flash cookie hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: source("FLASH_HASH_KEY", "flash.hash_key"),
		},
		&cli.StringFlag{
			Name:    "flash-block-key",
			Usage:   "Flash cookie block key for encryption (32-byte hex, optional)",
			Sources: source("FLASH_BLOCK_KEY", "flash.block_key"),
		},
		// Auth flags
		&cli.IntFlag{
			Name:    "auth-max-failed-attempts",
			Value:   5,
			Usage:   "Failed logins per email or address before throttling",
			Sources: source("AUTH_MAX_FAILED_ATTEMPTS", "auth.max_failed_attempts"),
		},
		&cli.DurationFlag{
			Name:    "auth-attempt-window",
			Value:   15 * time.Minute,
			Usage:   "Trailing window for counting failed logins",
			Sources: source("AUTH_ATTEMPT_WINDOW", "auth.attempt_window"),
		},
		&cli.DurationFlag{
			Name:    "auth-verification-ttl",
			Value:   24 * time.Hour,
			Usage:   "Lifetime of email verification links",
			Sources: source("AUTH_VERIFICATION_TTL", "auth.verification_ttl"),
		},
		&cli.DurationFlag{
			Name:    "auth-reset-ttl",
			Value:   time.Hour,
			Usage:   "Lifetime of password reset links",
			Sources: source("AUTH_RESET_TTL", "auth.reset_ttl"),
		},
		&cli.IntFlag{
			Name:    "auth-password-cost",
			Value:   MinPasswordCost,
			Usage:   "bcrypt cost for stored passwords",
			Sources: source("AUTH_PASSWORD_COST", "auth.password_cost"),
		},
		&cli.IntFlag{
			Name:    "auth-reset-token-cost",
			Value:   MinResetTokenCost,
			Usage:   "bcrypt cost for password reset tokens",
			Sources: source("AUTH_RESET_TOKEN_COST", "auth.reset_token_cost"),
		},
		// SMTP flags
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: source("SMTP_HOST", "smtp.host"),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: source("SMTP_PORT", "smtp.port"),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: source("SMTP_USERNAME", "smtp.username"),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: source("SMTP_PASSWORD", "smtp.password"),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address",
			Sources: source("SMTP_FROM", "smtp.from"),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Clarity App",
			Usage:   "Sender display name",
			Sources: source("SMTP_FROM_NAME", "smtp.from_name"),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: source("SMTP_TLS", "smtp.tls"),
		},
		// Contact form
		&cli.StringFlag{
			Name:    "contact-recipient",
			Usage:   "Recipient of contact form notifications (defaults to smtp-from)",
			Sources: source("CONTACT_RECIPIENT", "contact.recipient"),
		},
		&cli.IntFlag{
			Name:    "contact-max-per-hour",
			Value:   5,
			Usage:   "Contact messages accepted per address and hour",
			Sources: source("CONTACT_MAX_PER_HOUR", "contact.max_per_hour"),
		},
		// Observability
		&cli.StringFlag{
			Name:    "sentry-dsn",
			Usage:   "Sentry DSN for error reporting (disabled if empty)",
			Sources: source("SENTRY_DSN", "sentry.dsn"),
		},
		&cli.StringFlag{
			Name:    "sentry-environment",
			Value:   "development",
			Usage:   "Sentry environment name",
			Sources: source("SENTRY_ENVIRONMENT", "sentry.environment"),
		},
		&cli.BoolFlag{
			Name:    "metrics",
			Value:   true,
			Usage:   "Expose Prometheus metrics on /metrics",
			Sources: source("METRICS", "metrics.enabled"),
		},
	}
}
