// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"log/slog"

	"codeberg.org/oliverandrich/clarity/internal/metrics"
	"codeberg.org/oliverandrich/clarity/internal/reporting"
	"codeberg.org/oliverandrich/clarity/internal/repository"
)

// ResetParams holds the reset form.
type ResetParams struct {
	Email           string
	Token           string
	Password        string
	ConfirmPassword string
}

// RequestReset mails a reset link when the address belongs to an account.
// The result is the same whether or not it does: only a missing address is an error.
// Failures after the lookup are logged and reported but not returned.
func (s *Service) RequestReset(ctx context.Context, emailAddr string) error {
	emailAddr = NormalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrMissingFields
	}

	if err := s.requestReset(ctx, emailAddr); err != nil {
		slog.Error("reset_request_failed", "email", emailAddr, "error", err)
		reporting.CaptureError(ctx, err)
		s.metrics.PasswordReset("request", metrics.OutcomeError)
		return nil
	}

	s.metrics.PasswordReset("request", metrics.OutcomeSuccess)
	return nil
}

func (s *Service) requestReset(ctx context.Context, emailAddr string) error {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("reset_requested", "email", emailAddr, "known", false)
			return nil
		}
		return internalError("get user", err)
	}

	token, err := GenerateToken(s.random)
	if err != nil {
		return internalError("generate reset token", err)
	}
	hash, err := s.resetTokens.Hash(token)
	if err != nil {
		return internalError("hash reset token", err)
	}

	expiresAt := s.clock().Add(s.config.ResetTTL)
	if err := s.repo.CreatePasswordReset(ctx, user.ID, hash, expiresAt); err != nil {
		return internalError("store reset token", err)
	}

	msg, err := s.composer.PasswordReset(ctx, user.Email, token)
	if err != nil {
		return internalError("compose reset email", err)
	}
	if err := s.send(ctx, "reset", msg); err != nil {
		return err
	}

	slog.Info("reset_requested", "email", emailAddr, "known", true)
	return nil
}

// ConsumeReset sets a new password if token matches one of the user's unexpired reset
// tokens. Only the matched token is deleted.
func (s *Service) ConsumeReset(ctx context.Context, params ResetParams) error {
	emailAddr := NormalizeEmail(params.Email)
	if emailAddr == "" || params.Token == "" || params.Password == "" {
		return ErrMissingFields
	}

	if !StrongPassword(params.Password) {
		return &ValidationError{Field: FieldPasswordStrength}
	}
	if params.Password != params.ConfirmPassword {
		return &ValidationError{Field: FieldPasswordMismatch}
	}

	err := s.consumeReset(ctx, emailAddr, params.Token, params.Password)
	switch {
	case err == nil:
		slog.Info("reset_success", "email", emailAddr)
		s.metrics.PasswordReset("consume", metrics.OutcomeSuccess)
	case errors.Is(err, ErrInvalidOrExpiredReset):
		slog.Warn("reset_failed", "email", emailAddr, "reason", "invalid_or_expired")
		s.metrics.PasswordReset("consume", metrics.OutcomeFailure)
	default:
		s.metrics.PasswordReset("consume", metrics.OutcomeError)
	}
	return err
}

func (s *Service) consumeReset(ctx context.Context, emailAddr, token, password string) error {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredReset
		}
		return internalError("get user", err)
	}

	now := s.clock()
	resets, err := s.repo.ActivePasswordResets(ctx, user.ID, now)
	if err != nil {
		return internalError("list reset tokens", err)
	}

	var matched int64
	for _, reset := range resets {
		if s.resetTokens.Verify(token, reset.TokenHash) {
			matched = reset.ID
			break
		}
	}
	if matched == 0 {
		return ErrInvalidOrExpiredReset
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return internalError("hash password", err)
	}

	// A concurrent consume of the same token deletes the row first; the loser sees ErrNotFound.
	if err := s.repo.ConsumePasswordReset(ctx, matched, user.ID, hash, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredReset
		}
		return internalError("consume reset token", err)
	}
	return nil
}
