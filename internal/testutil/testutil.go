// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/database"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/services/email"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a verified test user in the database.
func NewTestUser(t *testing.T, repo *repository.Repository, emailAddr string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        emailAddr,
		Role:         "developer",
		PasswordHash: "not-a-real-hash",
		IsVerified:   true,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestProject creates a project for a user.
func NewTestProject(t *testing.T, repo *repository.Repository, userID int64, name string, budgetCents int64) *models.Project {
	t.Helper()
	project := &models.Project{UserID: userID, Name: name, BudgetCents: budgetCents}
	require.NoError(t, repo.CreateProject(context.Background(), project))
	return project
}

// LoginAttempts returns the attempts recorded for an email, oldest first.
func LoginAttempts(t *testing.T, repo *repository.Repository, emailAddr string) []models.LoginAttempt {
	t.Helper()
	db := repo.DB()
	var attempts []models.LoginAttempt
	err := db.SelectContext(context.Background(), &attempts, db.Rebind(
		`SELECT id, email, user_id, ip_address, success, attempt_time FROM login_attempts
		 WHERE email = ? ORDER BY attempt_time, id`), emailAddr)
	require.NoError(t, err)
	return attempts
}

// CountEmailVerifications returns how many verification tokens a user has outstanding.
func CountEmailVerifications(t *testing.T, repo *repository.Repository, userID int64) int64 {
	t.Helper()
	db := repo.DB()
	var count int64
	err := db.GetContext(context.Background(), &count,
		db.Rebind(`SELECT COUNT(*) FROM email_verifications WHERE user_id = ?`), userID)
	require.NoError(t, err)
	return count
}

// Clock is a settable clock for tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at the given time.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Mailer records messages instead of sending them.
type Mailer struct {
	mu       sync.Mutex
	Messages []email.Message
	Err      error
}

func (m *Mailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Last returns the most recently sent message.
func (m *Mailer) Last(t *testing.T) email.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Messages, "no message sent")
	return m.Messages[len(m.Messages)-1]
}

// Count returns the number of messages sent.
func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewFormContext creates an Echo context carrying a urlencoded form body.
func NewFormContext(e *echo.Echo, method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
