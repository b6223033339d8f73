// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session issues and resolves stateless signed session cookies.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLength = 32

// Principal is the identity carried by a valid session cookie.
type Principal struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// Manager signs session tokens with HS256 and stores them in an HTTP-only cookie.
// Nothing is persisted, so a token stays valid until it expires.
type Manager struct {
	cookieName string
	secret     []byte
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg *config.SessionConfig, secure bool, opts ...Option) (*Manager, error) {
	secret := []byte(cfg.Secret)
	switch {
	case len(secret) == 0 && secure:
		return nil, errors.New("session secret is required when cookies are secure")
	case len(secret) == 0:
		secret = make([]byte, minSecretLength)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		slog.Warn("no session secret configured, using a random one; sessions end on restart")
	case len(secret) < minSecretLength:
		return nil, fmt.Errorf("session secret must be at least %d bytes, got %d", minSecretLength, len(secret))
	}

	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}

	m := &Manager{
		cookieName: cfg.CookieName,
		secret:     secret,
		ttl:        cfg.TTL,
		secure:     secure,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Create signs a token for the user and wraps it in a cookie.
func (m *Manager) Create(userID int64) (*http.Cookie, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}, nil
}

// Resolve returns the principal of a valid session cookie, or nil when the cookie is
// missing, tampered with or expired.
func (m *Manager) Resolve(r *http.Request) *Principal {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.Parse(cookie.Value)
}

// Parse validates a raw token.
func (m *Manager) Parse(token string) *Principal {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		slog.Debug("session_rejected", "error", err)
		return nil
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil
	}

	return &Principal{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}

// Clear returns a cookie that deletes the session in the browser.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
