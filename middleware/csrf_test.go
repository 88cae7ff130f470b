package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCSRFToken(t *testing.T) {
	e := echo.New()

	t.Run("TokenExists", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		expectedToken := "test-csrf-token"
		c.Set("csrf", expectedToken)

		token := GetCSRFToken(c)
		assert.Equal(t, expectedToken, token)
	})

	t.Run("TokenMissing", func(t *testing.T) {
		c := e.NewContext(nil, nil)

		token := GetCSRFToken(c)
		assert.Equal(t, "", token)
	})

	t.Run("TokenInvalidType", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		c.Set("csrf", 123) // Not a string

		token := GetCSRFToken(c)
		assert.Equal(t, "", token)
	})
}

func TestCSRF(t *testing.T) {
	e := echo.New()
	mw := CSRF(false)(okHandler)

	// a safe request issues the token
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/session", nil), rec)
	require.NoError(t, mw(c))
	token := GetCSRFToken(c)
	require.NotEmpty(t, token)

	var csrfCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "_csrf" {
			csrfCookie = ck
		}
	}
	require.NotNil(t, csrfCookie)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
		req.AddCookie(csrfCookie)
		err := mw(e.NewContext(req, httptest.NewRecorder()))
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})

	t.Run("matching header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
		req.AddCookie(csrfCookie)
		req.Header.Set(CSRFHeader, token)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
