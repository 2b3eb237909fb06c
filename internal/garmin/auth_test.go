package garmin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type staticCredentials struct {
	email, password, mfaCode string
}

func (c staticCredentials) Credentials() (string, string, error) {
	return c.email, c.password, nil
}

func (c staticCredentials) MFACode() (string, error) {
	if c.mfaCode == "" {
		return "", ErrMFARequired
	}
	return c.mfaCode, nil
}

func newTestAuthenticator(t *testing.T, sso http.Handler) *Authenticator {
	t.Helper()
	server := httptest.NewServer(sso)
	t.Cleanup(server.Close)

	auth := NewAuthenticator(filepath.Join(t.TempDir(), "tokens.json"))
	auth.SSOBaseURL = server.URL
	auth.APIBaseURL = server.URL
	return auth
}

func TestAuthenticateCredentialLogin(t *testing.T) {
	var gotUsername string
	auth := newTestAuthenticator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sso/signin", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotUsername = body["username"]
		json.NewEncoder(w).Encode(loginResponse{
			Status:       "ok",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    3600,
		})
	}))

	session, err := auth.Authenticate(context.Background(), staticCredentials{email: "a@b.c", password: "pw"})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "a@b.c", gotUsername)

	// The bundle must be persisted for the next run
	token, err := auth.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)
}

func TestAuthenticateReusesStoredTokens(t *testing.T) {
	auth := newTestAuthenticator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no SSO call expected, got %s", r.URL.Path)
	}))
	require.NoError(t, auth.store.Save(&oauth2.Token{
		AccessToken: "stored-access",
		Expiry:      time.Now().Add(time.Hour),
	}))

	session, err := auth.Authenticate(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, session)
}

func TestAuthenticateMFAFlow(t *testing.T) {
	auth := newTestAuthenticator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sso/signin":
			json.NewEncoder(w).Encode(loginResponse{Status: "needs_mfa", MFATicket: "ticket-42"})
		case "/sso/verifyMFA":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ticket-42", body["mfaTicket"])
			assert.Equal(t, "123456", body["code"])
			json.NewEncoder(w).Encode(loginResponse{Status: "ok", AccessToken: "access-mfa", ExpiresIn: 3600})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	session, err := auth.Authenticate(context.Background(), staticCredentials{email: "a@b.c", password: "pw", mfaCode: "123456"})
	require.NoError(t, err)
	require.NotNil(t, session)

	token, err := auth.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-mfa", token.AccessToken)
}

func TestAuthenticateMFAWithoutCodeSource(t *testing.T) {
	auth := newTestAuthenticator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(loginResponse{Status: "needs_mfa", MFATicket: "ticket-42"})
	}))

	_, err := auth.Authenticate(context.Background(), staticCredentials{email: "a@b.c", password: "pw"})
	assert.ErrorIs(t, err, ErrMFARequired)
}

func TestAuthenticateRejectedCredentials(t *testing.T) {
	auth := newTestAuthenticator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := auth.Authenticate(context.Background(), staticCredentials{email: "a@b.c", password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateNoTokensNoCredentials(t *testing.T) {
	auth := newTestAuthenticator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := auth.Authenticate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nested", "tokens.json"))

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoTokens)

	saved := &oauth2.Token{AccessToken: "acc", RefreshToken: "ref", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "acc", loaded.AccessToken)
	assert.Equal(t, "ref", loaded.RefreshToken)
}
