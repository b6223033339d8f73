// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package contact accepts messages from the public contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"codeberg.org/oliverandrich/clarity/internal/metrics"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"codeberg.org/oliverandrich/clarity/internal/reporting"
	"codeberg.org/oliverandrich/clarity/internal/repository"
	"codeberg.org/oliverandrich/clarity/internal/services/email"
	"github.com/google/uuid"
)

const (
	maxNameLength    = 150
	maxSubjectLength = 200
	maxMessageLength = 2000
	maxLinks         = 3
	window           = time.Hour
)

var (
	ErrMissingFields  = errors.New("all fields are required")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrNameTooLong    = errors.New("name is too long")
	ErrSubjectTooLong = errors.New("subject is too long")
	ErrMessageTooLong = errors.New("message is too long")
	ErrTooManyLinks   = errors.New("too many links in message")
	ErrRateLimited    = errors.New("too many messages sent")
	ErrInternal       = errors.New("internal error")
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	linkPattern       = regexp.MustCompile(`(?i)http`)
)

// Params is the submitted form plus the sender's address.
type Params struct {
	Name     string
	Surname  string
	Email    string
	Subject  string
	Message  string
	ClientIP string
}

type Service struct {
	repo     *repository.Repository
	config   *config.ContactConfig
	mailer   email.Mailer
	composer *email.Composer
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for the hourly limit.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(repo *repository.Repository, cfg *config.ContactConfig, mailer email.Mailer, composer *email.Composer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		config:   cfg,
		mailer:   mailer,
		composer: composer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks the form fields in display order.
func Validate(p Params) error {
	name := fullName(p)
	addr := strings.TrimSpace(p.Email)
	subject := strings.TrimSpace(p.Subject)
	message := strings.TrimSpace(p.Message)

	switch {
	case name == "" || addr == "" || subject == "" || message == "":
		return ErrMissingFields
	case !emailPattern.MatchString(addr):
		return ErrInvalidEmail
	case utf8.RuneCountInString(name) > maxNameLength:
		return ErrNameTooLong
	case utf8.RuneCountInString(subject) > maxSubjectLength:
		return ErrSubjectTooLong
	case utf8.RuneCountInString(message) > maxMessageLength:
		return ErrMessageTooLong
	case len(linkPattern.FindAllStringIndex(message, -1)) > maxLinks:
		return ErrTooManyLinks
	}
	return nil
}

func fullName(p Params) string {
	return strings.TrimSpace(strings.TrimSpace(p.Name) + " " + strings.TrimSpace(p.Surname))
}

// Submit validates, throttles and stores a message, then notifies the site owner.
// A failed notification is reported but does not fail the submission.
func (s *Service) Submit(ctx context.Context, p Params) (*models.ContactMessage, error) {
	if err := Validate(p); err != nil {
		s.metrics.ContactMessage(metrics.OutcomeFailure)
		return nil, err
	}

	ip := strings.TrimSpace(p.ClientIP)
	if ip == "" {
		ip = "127.0.0.1"
	}

	recent, err := s.repo.CountContactMessagesSince(ctx, ip, s.now().UTC().Add(-window))
	if err != nil {
		s.metrics.ContactMessage(metrics.OutcomeError)
		return nil, fmt.Errorf("count contact messages: %w: %w", ErrInternal, err)
	}
	if recent >= int64(s.config.MaxPerHour) {
		slog.Warn("contact_rate_limited", "ip", ip, "recent", recent)
		s.metrics.ContactMessage(metrics.OutcomeRateLimited)
		return nil, ErrRateLimited
	}

	msg := &models.ContactMessage{
		Reference: uuid.NewString(),
		Name:      fullName(p),
		Email:     strings.TrimSpace(p.Email),
		Subject:   strings.TrimSpace(p.Subject),
		Message:   strings.TrimSpace(p.Message),
		IPAddress: ip,
	}
	if err := s.repo.CreateContactMessage(ctx, msg); err != nil {
		s.metrics.ContactMessage(metrics.OutcomeError)
		return nil, fmt.Errorf("store contact message: %w: %w", ErrInternal, err)
	}

	s.notify(ctx, msg)

	slog.Info("contact_received", "reference", msg.Reference, "email", msg.Email)
	s.metrics.ContactMessage(metrics.OutcomeSuccess)
	return msg, nil
}

func (s *Service) notify(ctx context.Context, msg *models.ContactMessage) {
	if s.config.Recipient == "" {
		slog.Warn("contact_not_forwarded", "reference", msg.Reference, "reason", "no recipient configured")
		return
	}

	notification, err := s.composer.ContactNotification(ctx, s.config.Recipient, msg)
	if err == nil {
		err = s.mailer.Send(ctx, notification)
		s.metrics.EmailSent("contact", err)
	}
	if err != nil {
		slog.Error("contact_notification_failed", "reference", msg.Reference, "error", err)
		reporting.CaptureError(ctx, err)
	}
}
