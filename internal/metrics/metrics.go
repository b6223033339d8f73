// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package metrics holds the application's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the auth and contact counters.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
	OutcomeUnverified  = "unverified"
)

type Metrics struct {
	registry *prometheus.Registry

	LoginAttempts   *prometheus.CounterVec
	Registrations   *prometheus.CounterVec
	Verifications   *prometheus.CounterVec
	PasswordResets  *prometheus.CounterVec
	EmailsSent      *prometheus.CounterVec
	ContactMessages *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clarity_login_attempts_total",
				Help: "Login calls by outcome",
			},
			[]string{"outcome"},
		),
		Registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clarity_registrations_total",
				Help: "Registration calls by outcome",
			},
			[]string{"outcome"},
		),
		Verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clarity_email_verifications_total",
				Help: "Email verification token consumption by outcome",
			},
			[]string{"outcome"},
		),
		PasswordResets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clarity_password_resets_total",
				Help: "Password reset requests and completions by outcome",
			},
			[]string{"stage", "outcome"},
		),
		EmailsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clarity_emails_sent_total",
				Help: "Outbound emails by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ContactMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clarity_contact_messages_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clarity_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
	}

	reg.MustRegister(
		m.LoginAttempts,
		m.Registrations,
		m.Verifications,
		m.PasswordResets,
		m.EmailsSent,
		m.ContactMessages,
		m.HTTPRequests,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Verification(outcome string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(outcome).Inc()
}

// PasswordReset records a reset event. stage is "request" or "consume".
func (m *Metrics) PasswordReset(stage, outcome string) {
	if m == nil {
		return
	}
	m.PasswordResets.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) EmailSent(kind string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.EmailsSent.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ContactMessage(outcome string) {
	if m == nil {
		return
	}
	m.ContactMessages.WithLabelValues(outcome).Inc()
}

// HTTPRequest counts a served request. route is the registered path pattern.
func (m *Metrics) HTTPRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
