// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package reporting

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WithoutDSN(t *testing.T) {
	flush, err := Init(&config.SentryConfig{Environment: "test"}, "dev")
	require.NoError(t, err)
	require.NotNil(t, flush)
	assert.NotPanics(t, flush)
}

func TestInit_InvalidDSN(t *testing.T) {
	_, err := Init(&config.SentryConfig{DSN: "not a dsn"}, "dev")
	assert.Error(t, err)
}

func TestCapture_NoClient(t *testing.T) {
	assert.NotPanics(t, func() {
		CaptureError(context.Background(), errors.New("boom"))
		CaptureError(context.Background(), nil)
		CapturePanic(context.Background(), "panic value")
	})
}

func TestMiddleware_BindsHub(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())

	var hub *sentry.Hub
	e.GET("/", func(c echo.Context) error {
		hub = sentry.GetHubFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, hub)
	assert.NotSame(t, sentry.CurrentHub(), hub)
}
