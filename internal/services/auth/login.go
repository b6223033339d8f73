// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/clarity/internal/metrics"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/repository"
)

// LoginParams holds the login form and the resolved client address.
type LoginParams struct {
	Email    string
	Password string
	ClientIP string
}

// Login authenticates a user.
//
// Missing fields and throttled calls return before anything is recorded, as does a
// correct password on an unverified account. Every other call appends exactly one
// login_attempts row, successful only when a session may be issued.
func (s *Service) Login(ctx context.Context, params LoginParams) (*models.User, error) {
	email := NormalizeEmail(params.Email)
	if email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}

	ip := strings.TrimSpace(params.ClientIP)
	if ip == "" {
		ip = loopback
	}

	now := s.clock()
	failed, err := s.repo.CountFailedLoginAttempts(ctx, email, ip, now.Add(-s.config.AttemptWindow))
	if err != nil {
		s.metrics.LoginAttempt(metrics.OutcomeError)
		return nil, internalError("count login attempts", err)
	}
	if failed >= int64(s.config.MaxFailedAttempts) {
		slog.Warn("login_rate_limited", "email", email, "ip", ip, "failed_attempts", failed)
		s.metrics.LoginAttempt(metrics.OutcomeRateLimited)
		return nil, ErrRateLimited
	}

	user, result := s.checkCredentials(ctx, email, params.Password)
	if errors.Is(result, ErrInternal) {
		s.metrics.LoginAttempt(metrics.OutcomeError)
		return nil, result
	}
	if errors.Is(result, ErrEmailNotVerified) {
		s.metrics.LoginAttempt(metrics.OutcomeUnverified)
		return nil, result
	}

	attempt := &models.LoginAttempt{
		Email:       email,
		IPAddress:   ip,
		Success:     result == nil,
		AttemptTime: now,
	}
	if user != nil {
		attempt.UserID = &user.ID
	}
	if err := s.repo.RecordLoginAttempt(ctx, attempt); err != nil {
		s.metrics.LoginAttempt(metrics.OutcomeError)
		return nil, internalError("record login attempt", err)
	}

	if result != nil {
		s.metrics.LoginAttempt(metrics.OutcomeFailure)
		return nil, result
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	s.metrics.LoginAttempt(metrics.OutcomeSuccess)
	return user, nil
}

// checkCredentials returns the matched user (if any) and the reason the login must fail.
func (s *Service) checkCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.passwords.Verify(password, s.dummyHash)
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, internalError("get user", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return user, ErrInvalidCredentials
	}

	if !user.IsVerified {
		slog.Warn("login_failed", "email", email, "reason", "email_not_verified")
		return user, ErrEmailNotVerified
	}

	return user, nil
}
