package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cardoctor/server/config"
	"github.com/cardoctor/server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestHandler(t *testing.T, secure bool) (*Handler, *TokenService) {
	t.Helper()
	tokens := NewTokenService("secret", WithIssuer("car-doctor"))
	cfg := config.AuthConfig{
		Secret:       "secret",
		Issuer:       "car-doctor",
		TokenTTL:     time.Hour,
		CookieName:   "token",
		CookieSecure: secure,
	}
	return NewHandler(cfg, tokens, zaptest.NewLogger(t)), tokens
}

func tokenCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("token cookie not set")
	return nil
}

func TestHandleLogin(t *testing.T) {
	t.Run("sets a verifiable HttpOnly cookie", func(t *testing.T) {
		h, tokens := newTestHandler(t, false)

		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@x.com"}`))
		w := httptest.NewRecorder()

		h.HandleLogin(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())

		cookie := tokenCookie(t, w)
		assert.True(t, cookie.HttpOnly)
		assert.False(t, cookie.Secure)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Equal(t, 3600, cookie.MaxAge)

		identity, err := tokens.Verify(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", identity.Email)
	})

	t.Run("production cookie is cross-site", func(t *testing.T) {
		h, _ := newTestHandler(t, true)

		req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@x.com"}`))
		w := httptest.NewRecorder()

		h.HandleLogin(w, req)

		cookie := tokenCookie(t, w)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	})

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "email=a@x.com"},
		{name: "missing email", body: `{}`, wantField: "email"},
		{name: "malformed email", body: `{"email":"nobody"}`, wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, false)

			req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.HandleLogin(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, w.Result().Cookies())

			var response utils.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			if tt.wantField != "" {
				assert.Contains(t, response.Details, tt.wantField)
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	h, _ := newTestHandler(t, false)

	w := httptest.NewRecorder()
	h.HandleLogout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	cookie := tokenCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
}

func TestLogoutDoesNotRevokeIssuedTokens(t *testing.T) {
	h, tokens := newTestHandler(t, false)

	login := httptest.NewRecorder()
	h.HandleLogin(login, httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(`{"email":"a@x.com"}`)))
	token := tokenCookie(t, login).Value

	h.HandleLogout(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/logout", nil))

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", identity.Email)
}
