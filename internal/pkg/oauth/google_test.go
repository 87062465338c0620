package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestGoogle(t *testing.T, verified bool) *GoogleServiceImpl {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "at",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(GoogleInformation{GoogleID: "g-1", Email: "jane@example.com", VerifiedEmail: verified})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	g := NewGoogleService("client", "secret", "http://localhost/callback", []string{"email"})
	g.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	g.userInfoURL = srv.URL + "/userinfo"
	return g
}

func TestGoogleService_Exchange(t *testing.T) {
	g := newTestGoogle(t, true)

	info, err := g.Exchange(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.GoogleID)
	assert.Equal(t, "jane@example.com", info.Email)
}

func TestGoogleService_ExchangeUnverified(t *testing.T) {
	g := newTestGoogle(t, false)

	_, err := g.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestGoogleService_RedirectURL(t *testing.T) {
	g := NewGoogleService("client", "secret", "http://localhost/callback", []string{"email"})

	state, err := g.GenerateState()
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	u, err := url.Parse(g.RedirectURL(state))
	require.NoError(t, err)
	assert.Equal(t, state, u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
}
