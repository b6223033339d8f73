// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package appcontext_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/clarity/internal/appcontext"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestContext_GetUser(t *testing.T) {
	user := &models.User{ID: 123, Email: "ada@example.com"}
	ctx := &appcontext.Context{User: user}

	result := ctx.GetUser()

	assert.Equal(t, user, result)
	assert.Equal(t, int64(123), result.ID)
}

func TestContext_GetUser_Nil(t *testing.T) {
	ctx := &appcontext.Context{User: nil}

	assert.Nil(t, ctx.GetUser())
}

func TestContext_IsAuthenticated(t *testing.T) {
	assert.True(t, (&appcontext.Context{User: &models.User{ID: 1}}).IsAuthenticated())
	assert.False(t, (&appcontext.Context{}).IsAuthenticated())
}

func TestFrom_WrapsPlainContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("HX-Request", "true")
	c := e.NewContext(req, httptest.NewRecorder())

	cc := appcontext.From(c)

	assert.True(t, cc.IsHtmx())
	assert.Nil(t, cc.User)
}

func TestFrom_ReturnsExisting(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	cc := &appcontext.Context{Context: c, User: &models.User{ID: 7}}

	assert.Same(t, cc, appcontext.From(cc))
}
