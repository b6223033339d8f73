// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"codeberg.org/oliverandrich/clarity/internal/database"
	"codeberg.org/oliverandrich/clarity/internal/handlers"
	"codeberg.org/oliverandrich/clarity/internal/i18n"
	"codeberg.org/oliverandrich/clarity/internal/metrics"
	"codeberg.org/oliverandrich/clarity/internal/reporting"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/services/auth"
	"codeberg.org/oliverandrich/clarity/internal/services/contact"
	"codeberg.org/oliverandrich/clarity/internal/services/email"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
	"codeberg.org/oliverandrich/clarity/internal/services/session"
	"codeberg.org/oliverandrich/clarity/internal/templates"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

const shutdownTimeout = 10 * time.Second

// App is the assembled web application.
type App struct {
	echo    *echo.Echo
	auth    *auth.Service
	metrics *metrics.Metrics
}

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	flush, err := reporting.Init(&cfg.Sentry, cmd.Root().Version)
	if err != nil {
		return fmt.Errorf("failed to init sentry: %w", err)
	}
	defer flush()

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database, migrations included
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	mailer, err := NewMailer(&cfg.SMTP)
	if err != nil {
		return err
	}

	app, err := New(cfg, db, mailer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.start(ctx, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), cfg.Server.BaseURL)
}

// PurgeTokens deletes expired verification and reset tokens once and exits.
func PurgeTokens(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	app, err := New(cfg, db, email.LogMailer{})
	if err != nil {
		return err
	}
	return app.auth.PurgeExpiredTokens(ctx)
}

// NewMailer returns an SMTP mailer, or a mailer that only logs when no SMTP host is set.
func NewMailer(cfg *config.SMTPConfig) (email.Mailer, error) {
	if cfg.Host == "" {
		slog.Warn("no SMTP host configured, emails are logged instead of sent")
		return email.LogMailer{}, nil
	}
	mailer, err := email.NewSMTPMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure SMTP: %w", err)
	}
	return mailer, nil
}

// New wires services, middleware and routes around an open database.
func New(cfg *config.Config, db *sqlx.DB, mailer email.Mailer) (*App, error) {
	if err := i18n.Init(); err != nil {
		return nil, fmt.Errorf("failed to init i18n: %w", err)
	}

	repo := repository.New(db)
	m := metrics.New()

	composer, err := email.NewComposer(cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	authSvc, err := auth.NewService(repo, &cfg.Auth, mailer, composer, auth.WithMetrics(m))
	if err != nil {
		return nil, err
	}
	contactSvc := contact.NewService(repo, &cfg.Contact, mailer, composer, contact.WithMetrics(m))

	sessions, err := session.NewManager(&cfg.Session, cfg.Session.Secure)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}
	flashes, err := flash.NewStore(&cfg.Flash, cfg.Session.Secure)
	if err != nil {
		return nil, fmt.Errorf("failed to create flash store: %w", err)
	}

	h := handlers.New(repo, authSvc, contactSvc, sessions, flashes)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = h.ErrorHandler

	setupMiddleware(e, cfg, m, sessions, repo)
	setupRoutes(e, h, m, cfg.Metrics.Enabled)

	return &App{echo: e, auth: authSvc, metrics: m}, nil
}

// Handler exposes the application as an http.Handler.
func (a *App) Handler() http.Handler {
	return a.echo
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers, m *metrics.Metrics, withMetrics bool) {
	e.StaticFS("/static", templates.Static())

	e.GET("/health", h.Health)
	if withMetrics {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	// Public
	e.GET("/", h.Home)
	e.POST("/contact", h.Contact)

	// Credentials
	e.GET("/auth", h.AuthPage)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/logout", h.Logout)
	e.GET("/auth/forgot-password", h.ForgotPage)
	e.POST("/auth/forgot-password", h.Forgot)
	e.GET("/reset-password", h.ResetPage)
	e.POST("/reset-password", h.Reset)
	e.GET("/verify", h.Verify)

	// Dashboard
	d := e.Group("/dashboard", RequireAuth())
	d.GET("", h.Dashboard)

	d.POST("/projects", h.CreateProject)
	d.POST("/projects/:id/delete", h.DeleteProject)
	d.POST("/tasks", h.CreateTask)
	d.POST("/tasks/:id/toggle", h.ToggleTask)
	d.POST("/tasks/:id/delete", h.DeleteTask)

	d.POST("/clients", h.CreateClient)
	d.POST("/clients/:id/delete", h.DeleteClient)

	d.POST("/budget", h.UpdateBudget)
	d.POST("/payments", h.CreatePayment)
	d.POST("/transactions", h.CreateTransaction)
	d.POST("/transactions/:id/delete", h.DeleteTransaction)

	d.POST("/skills", h.CreateSkill)
	d.POST("/skills/:id/level", h.SetSkillLevel)
	d.POST("/skills/:id/delete", h.DeleteSkill)
	d.POST("/courses", h.CreateCourse)
	d.POST("/courses/:id/toggle", h.ToggleCourse)
	d.POST("/courses/:id/delete", h.DeleteCourse)
}

// start serves until ctx is cancelled, then shuts down gracefully.
func (a *App) start(ctx context.Context, addr, baseURL string) error {
	errChan := make(chan error, 1)
	go func() {
		slog.Info("Server running", "url", baseURL)
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.echo.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
