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

// Register validates the form, creates an unverified user and mails a verification link.
// A mail failure is reported as ErrInternal but leaves the account in place.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if err := ValidateRegistration(params); err != nil {
		s.metrics.Registration(metrics.OutcomeFailure)
		return nil, err
	}

	hash, err := s.passwords.Hash(params.Password)
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, internalError("hash password", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(params.Name),
		Email:        NormalizeEmail(params.Email),
		Role:         strings.TrimSpace(params.Role),
		PasswordHash: hash,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			slog.Warn("register_failed", "email", user.Email, "reason", "duplicate_email")
			s.metrics.Registration(metrics.OutcomeFailure)
			return nil, ErrDuplicateEmail
		}
		s.metrics.Registration(metrics.OutcomeError)
		return nil, internalError("create user", err)
	}

	token, err := s.IssueVerification(ctx, user.ID)
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, err
	}

	msg, err := s.composer.Verification(ctx, user.Email, user.Name, token)
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, internalError("compose verification email", err)
	}
	if err := s.send(ctx, "verification", msg); err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, err
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email)
	s.metrics.Registration(metrics.OutcomeSuccess)

	return user, nil
}

// IssueVerification stores a new verification token for the user and returns the raw value.
// Earlier tokens stay valid until they expire or one of them is consumed.
func (s *Service) IssueVerification(ctx context.Context, userID int64) (string, error) {
	token, err := GenerateToken(s.random)
	if err != nil {
		return "", internalError("generate verification token", err)
	}

	expiresAt := s.clock().Add(s.config.VerificationTTL)
	if err := s.repo.CreateEmailVerification(ctx, userID, HashToken(token), expiresAt); err != nil {
		return "", internalError("store verification token", err)
	}

	return token, nil
}

// ConsumeVerification marks the token's owner verified. A token works exactly once.
func (s *Service) ConsumeVerification(ctx context.Context, token string) error {
	if token == "" {
		s.metrics.Verification(metrics.OutcomeFailure)
		return ErrInvalidOrExpiredToken
	}

	userID, err := s.repo.ConsumeEmailVerification(ctx, HashToken(token), s.clock())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("verification_failed", "reason", "invalid_or_expired")
			s.metrics.Verification(metrics.OutcomeFailure)
			return ErrInvalidOrExpiredToken
		}
		s.metrics.Verification(metrics.OutcomeError)
		return internalError("consume verification token", err)
	}

	slog.Info("verification_success", "user_id", userID)
	s.metrics.Verification(metrics.OutcomeSuccess)
	return nil
}
