// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"net/http"
	"strings"
)

const loopback = "127.0.0.1"

// ClientIP resolves the origin address from proxy headers, falling back to loopback.
// The headers are trusted as-is, so the app must sit behind a proxy that sets them.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return loopback
}
