// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements the credential lifecycle: registration, email
// verification, login with throttling and password reset.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"codeberg.org/oliverandrich/clarity/internal/metrics"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/services/email"
)

type Service struct {
	repo        *repository.Repository
	config      *config.AuthConfig
	mailer      email.Mailer
	composer    *email.Composer
	metrics     *metrics.Metrics
	passwords   Hasher
	resetTokens Hasher
	now         func() time.Time
	random      io.Reader

	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash string
}

type Option func(*Service)

// WithClock replaces time.Now for expiry and throttling decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandom replaces crypto/rand as the token source.
func WithRandom(r io.Reader) Option {
	return func(s *Service) { s.random = r }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHashers overrides the bcrypt hashers for passwords and reset tokens.
func WithHashers(passwords, resetTokens Hasher) Option {
	return func(s *Service) {
		s.passwords = passwords
		s.resetTokens = resetTokens
	}
}

func NewService(repo *repository.Repository, cfg *config.AuthConfig, mailer email.Mailer, composer *email.Composer, opts ...Option) (*Service, error) {
	s := &Service{
		repo:        repo,
		config:      cfg,
		mailer:      mailer,
		composer:    composer,
		passwords:   BcryptHasher{Cost: cfg.PasswordCost},
		resetTokens: BcryptHasher{Cost: cfg.ResetTokenCost},
		now:         time.Now,
		random:      rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}

	dummy, err := s.passwords.Hash("clarity-timing-placeholder")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// SetBudget stores the user's starting budget in cents.
func (s *Service) SetBudget(ctx context.Context, userID, cents int64) error {
	if cents < 0 {
		return &ValidationError{Field: "budget"}
	}
	if err := s.repo.SetUserBudget(ctx, userID, cents); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return internalError("set budget", err)
	}
	return nil
}

// PurgeExpiredTokens removes verification and reset tokens past their expiry.
func (s *Service) PurgeExpiredTokens(ctx context.Context) error {
	now := s.clock()

	verifications, err := s.repo.DeleteExpiredEmailVerifications(ctx, now)
	if err != nil {
		return internalError("purge verifications", err)
	}
	resets, err := s.repo.DeleteExpiredPasswordResets(ctx, now)
	if err != nil {
		return internalError("purge resets", err)
	}

	if verifications > 0 || resets > 0 {
		slog.Info("tokens_purged", "verifications", verifications, "resets", resets)
	}
	return nil
}

func (s *Service) send(ctx context.Context, kind string, msg email.Message) error {
	err := s.mailer.Send(ctx, msg)
	s.metrics.EmailSent(kind, err)
	if err != nil {
		slog.Error("email_send_failed", "kind", kind, "to", msg.To, "error", err)
		return internalError("send "+kind+" email", err)
	}
	return nil
}
