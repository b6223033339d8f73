// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package flash carries one-shot messages across a redirect in a signed cookie.
package flash

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"github.com/gorilla/securecookie"
)

const (
	cookieName = "clarity_flash"
	keyLength  = 32
	maxAge     = 60
)

// Message kinds.
const (
	Success = "success"
	Error   = "error"
)

type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type Store struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewStore builds a store from hex encoded keys. Without a hash key a random one is
// generated, which only suits development.
func NewStore(cfg *config.FlashConfig, secure bool) (*Store, error) {
	hashKey, err := decodeKey(cfg.HashKey, "hash")
	if err != nil {
		return nil, err
	}
	if hashKey == nil {
		hashKey = securecookie.GenerateRandomKey(keyLength)
		if hashKey == nil {
			return nil, errors.New("failed to generate flash hash key")
		}
	}

	blockKey, err := decodeKey(cfg.BlockKey, "block")
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(maxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Store{codec: codec, secure: secure}, nil
}

func decodeKey(value, name string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid flash %s key: %w", name, err)
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("invalid flash %s key: must be %d bytes, got %d", name, keyLength, len(key))
	}
	return key, nil
}

// Set stores msg for the next request.
func (s *Store) Set(w http.ResponseWriter, msg Message) error {
	encoded, err := s.codec.Encode(cookieName, msg)
	if err != nil {
		return fmt.Errorf("failed to encode flash: %w", err)
	}
	http.SetCookie(w, s.cookie(encoded, maxAge))
	return nil
}

// Pop returns the pending message, if any, and deletes it.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) *Message {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, s.cookie("", -1))

	var msg Message
	if err := s.codec.Decode(cookieName, c.Value, &msg); err != nil {
		return nil
	}
	return &msg
}

func (s *Store) cookie(value string, age int) *http.Cookie {
	c := &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   age,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if age < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
