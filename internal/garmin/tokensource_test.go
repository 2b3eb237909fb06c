package garmin

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newRefreshEndpoint(t *testing.T, handler http.HandlerFunc) *oauth2.Config {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &oauth2.Config{Endpoint: oauth2.Endpoint{TokenURL: server.URL + "/oauth/token"}}
}

func TestTokenSourceRefreshPersistsBundle(t *testing.T) {
	var refreshCalls int
	cfg := newRefreshEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		refreshCalls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "access-2", "refresh_token": "refresh-2", "token_type": "Bearer", "expires_in": 3600}`))
	})
	store := NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	stale := &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Minute)}

	source := newSavingTokenSource(cfg, store, stale)

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-2", token.AccessToken)
	assert.Equal(t, 1, refreshCalls)

	// The new bundle is written through, so the next run resumes from it
	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-2", persisted.AccessToken)
	assert.Equal(t, "refresh-2", persisted.RefreshToken)

	// The refreshed token is now served from memory
	_, err = source.Token()
	require.NoError(t, err)
	assert.Equal(t, 1, refreshCalls)
}

func TestTokenSourceFreshTokenSkipsExchange(t *testing.T) {
	cfg := newRefreshEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no token exchange expected for a fresh bundle")
	})
	store := NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	fresh := &oauth2.Token{AccessToken: "access-1", Expiry: time.Now().Add(time.Hour)}

	token, err := newSavingTokenSource(cfg, store, fresh).Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)
}

func TestTokenSourceRejectedRefresh(t *testing.T) {
	cfg := newRefreshEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	store := NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	stale := &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Minute)}

	_, err := newSavingTokenSource(cfg, store, stale).Token()
	assert.ErrorIs(t, err, ErrUnauthorized)
}
