// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package reporting forwards unexpected errors to Sentry.
// Without a DSN the SDK is never initialised and every call is a no-op.
package reporting

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

const flushTimeout = 2 * time.Second

// Init configures the global Sentry client. The returned function flushes
// buffered events and should be deferred by the caller.
func Init(cfg *config.SentryConfig, release string) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, err
	}

	return func() { sentry.Flush(flushTimeout) }, nil
}

// CaptureError reports err on the hub bound to ctx, or the global hub.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// CapturePanic reports a recovered panic value.
func CapturePanic(ctx context.Context, recovered any) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
		hub.Recover(recovered)
	})
}

// Middleware binds a per-request hub carrying the request to the request context.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetRequest(c.Request())
			ctx := sentry.SetHubOnContext(c.Request().Context(), hub)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
