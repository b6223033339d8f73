// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package htmx provides types and helpers for htmx integration.
package htmx

import (
	"net/http"
)

// Request headers sent by htmx.
const (
	HeaderRequest    = "HX-Request"
	HeaderBoosted    = "HX-Boosted"
	HeaderCurrentURL = "HX-Current-URL"
	HeaderTarget     = "HX-Target"
)

// Response headers understood by htmx.
const (
	HeaderRedirect = "HX-Redirect"
	HeaderRefresh  = "HX-Refresh"
	HeaderReswap   = "HX-Reswap"
)

// Request describes the htmx headers of an incoming request.
type Request struct { //nolint:govet // fieldalignment not critical
	IsHtmx     bool
	IsBoosted  bool
	CurrentURL string
	Target     string
}

// ParseRequest extracts htmx information from request headers.
func ParseRequest(r *http.Request) *Request {
	return &Request{
		IsHtmx:     r.Header.Get(HeaderRequest) == "true",
		IsBoosted:  r.Header.Get(HeaderBoosted) == "true",
		CurrentURL: r.Header.Get(HeaderCurrentURL),
		Target:     r.Header.Get(HeaderTarget),
	}
}

// Redirect sends the client to url. htmx requests get an HX-Redirect header
// so the browser performs a full navigation; everything else gets a 303.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if r.Header.Get(HeaderRequest) == "true" {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Refresh asks htmx to reload the current page. Plain form posts are
// redirected to fallback instead.
func Refresh(w http.ResponseWriter, r *http.Request, fallback string) {
	if r.Header.Get(HeaderRequest) == "true" {
		w.Header().Set(HeaderRefresh, "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}
