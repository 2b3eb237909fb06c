package garmin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"traininghub/internal/logging"
)

// DefaultSSOBaseURL is the Garmin single-sign-on service
const DefaultSSOBaseURL = "https://sso.garmin.com"

// CredentialSource supplies credentials when the stored token bundle is
// missing or no longer valid. Implementations may read the environment or
// prompt the operator; MFACode is only consulted when the provider signals
// a step-up requirement mid-login.
type CredentialSource interface {
	Credentials() (email, password string, err error)
	MFACode() (string, error)
}

// EnvCredentials reads credentials from GARMIN_EMAIL and GARMIN_PASSWORD.
// It cannot answer an MFA challenge.
type EnvCredentials struct{}

// Credentials returns the environment-supplied email and password
func (EnvCredentials) Credentials() (string, string, error) {
	email := os.Getenv("GARMIN_EMAIL")
	password := os.Getenv("GARMIN_PASSWORD")
	if email == "" || password == "" {
		return "", "", errors.New("GARMIN_EMAIL and GARMIN_PASSWORD are not set")
	}
	return email, password, nil
}

// MFACode always fails: a one-time code cannot come from the environment
func (EnvCredentials) MFACode() (string, error) {
	return "", ErrMFARequired
}

// Authenticator establishes an authenticated Session: stored token bundle
// first, credential login (with MFA resume) as the fallback. Both failure
// modes are terminal for the run; nothing here retries.
type Authenticator struct {
	SSOBaseURL string
	APIBaseURL string

	store      *TokenStore
	httpClient *http.Client
	log        zerolog.Logger
}

// NewAuthenticator creates an authenticator persisting tokens at tokenPath
func NewAuthenticator(tokenPath string) *Authenticator {
	return &Authenticator{
		SSOBaseURL: DefaultSSOBaseURL,
		APIBaseURL: DefaultBaseURL,
		store:      NewTokenStore(tokenPath),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logging.Component("auth"),
	}
}

// Authenticate returns a ready Session. On a fresh login the resulting
// token bundle is persisted, so the next run skips the credential exchange.
func (a *Authenticator) Authenticate(ctx context.Context, creds CredentialSource) (*Session, error) {
	// Try the persisted bundle first
	if token, err := a.store.Load(); err == nil {
		source := a.tokenSource(token)
		if _, err := source.Token(); err == nil {
			a.log.Debug().Msg("resumed session from stored tokens")
			return a.newSession(source), nil
		}
		a.log.Info().Msg("stored tokens invalid or expired, logging in with credentials")
	} else if !errors.Is(err, ErrNoTokens) {
		a.log.Warn().Err(err).Msg("could not read stored tokens")
	}

	if creds == nil {
		return nil, fmt.Errorf("%w: no stored tokens and no credential source", ErrUnauthorized)
	}

	email, password, err := creds.Credentials()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	token, err := a.login(ctx, email, password)
	var challenge *mfaChallenge
	if errors.As(err, &challenge) {
		code, codeErr := creds.MFACode()
		if codeErr != nil {
			return nil, codeErr
		}
		token, err = a.resumeLogin(ctx, challenge.Ticket, code)
	}
	if err != nil {
		return nil, err
	}

	if err := a.store.Save(token); err != nil {
		return nil, fmt.Errorf("persisting token bundle: %w", err)
	}
	a.log.Info().Msg("login successful, token bundle saved")

	return a.newSession(a.tokenSource(token)), nil
}

// mfaChallenge carries the resumable continuation ticket returned when the
// provider requires a one-time code mid-login
type mfaChallenge struct {
	Ticket string
}

func (e *mfaChallenge) Error() string { return ErrMFARequired.Error() }

func (e *mfaChallenge) Is(target error) bool { return target == ErrMFARequired }

// loginResponse is the SSO service's reply to a credential or MFA exchange
type loginResponse struct {
	Status       string `json:"status"` // "ok" or "needs_mfa"
	MFATicket    string `json:"mfaTicket"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// login performs the credential exchange. It returns an *mfaChallenge
// error when the provider requires a one-time code.
func (a *Authenticator) login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	resp, err := a.postJSON(ctx, "/sso/signin", map[string]string{
		"username": email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	if resp.Status == "needs_mfa" {
		return nil, &mfaChallenge{Ticket: resp.MFATicket}
	}
	return resp.token()
}

// resumeLogin completes a login transaction that stopped at an MFA
// challenge, using the continuation ticket and the one-time code
func (a *Authenticator) resumeLogin(ctx context.Context, ticket, code string) (*oauth2.Token, error) {
	resp, err := a.postJSON(ctx, "/sso/verifyMFA", map[string]string{
		"mfaTicket": ticket,
		"code":      code,
	})
	if err != nil {
		return nil, err
	}
	return resp.token()
}

func (r *loginResponse) token() (*oauth2.Token, error) {
	if r.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response carried no token", ErrUnauthorized)
	}
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(r.ExpiresIn) * time.Second),
	}, nil
}

func (a *Authenticator) postJSON(ctx context.Context, path string, body map[string]string) (*loginResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.SSOBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("garmin: login error %d: %s", resp.StatusCode, string(body))
	}

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	return &decoded, nil
}

// oauthConfig builds the oauth2 config used for token refresh
func (a *Authenticator) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL: a.SSOBaseURL + "/oauth/token",
		},
	}
}

// tokenSource wraps a bundle in the refresh-and-persist source
func (a *Authenticator) tokenSource(token *oauth2.Token) oauth2.TokenSource {
	return newSavingTokenSource(a.oauthConfig(), a.store, token)
}

func (a *Authenticator) newSession(source oauth2.TokenSource) *Session {
	session := &Session{Client: NewClient(source, NewPacer(DefaultRequestInterval))}
	session.Client.BaseURL = a.APIBaseURL
	return session
}
