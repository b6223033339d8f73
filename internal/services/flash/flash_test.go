// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package flash_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"codeberg.org/oliverandrich/clarity/internal/services/flash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validHashKey  = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	validBlockKey = "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
)

func newStore(t *testing.T, cfg *config.FlashConfig) *flash.Store {
	t.Helper()
	store, err := flash.NewStore(cfg, false)
	require.NoError(t, err)
	return store
}

func TestNewStore_InvalidKeys(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.FlashConfig
		wantErr string
	}{
		{"hash not hex", config.FlashConfig{HashKey: "not-hex-encoded"}, "invalid flash hash key"},
		{"hash wrong length", config.FlashConfig{HashKey: "0123456789abcdef"}, "must be 32 bytes"},
		{"block not hex", config.FlashConfig{HashKey: validHashKey, BlockKey: "zz"}, "invalid flash block key"},
		{"block wrong length", config.FlashConfig{HashKey: validHashKey, BlockKey: "0123456789abcdef"}, "must be 32 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flash.NewStore(&tt.cfg, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetAndPop(t *testing.T) {
	store := newStore(t, &config.FlashConfig{HashKey: validHashKey, BlockKey: validBlockKey})

	rec := httptest.NewRecorder()
	require.NoError(t, store.Set(rec, flash.Message{Kind: flash.Error, Text: "Amount must be positive"}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()

	msg := store.Pop(rec, req)

	require.NotNil(t, msg)
	assert.Equal(t, flash.Error, msg.Kind)
	assert.Equal(t, "Amount must be positive", msg.Text)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPop_NoCookie(t *testing.T) {
	store := newStore(t, &config.FlashConfig{})

	rec := httptest.NewRecorder()
	assert.Nil(t, store.Pop(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Empty(t, rec.Result().Cookies())
}

func TestPop_Tampered(t *testing.T) {
	store := newStore(t, &config.FlashConfig{HashKey: validHashKey})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "clarity_flash", Value: "forged"})

	assert.Nil(t, store.Pop(httptest.NewRecorder(), req))
}

func TestPop_OtherKey(t *testing.T) {
	writer := newStore(t, &config.FlashConfig{HashKey: validHashKey})
	reader := newStore(t, &config.FlashConfig{HashKey: validBlockKey})

	rec := httptest.NewRecorder()
	require.NoError(t, writer.Set(rec, flash.Message{Kind: flash.Success, Text: "Saved"}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])

	assert.Nil(t, reader.Pop(httptest.NewRecorder(), req))
}
