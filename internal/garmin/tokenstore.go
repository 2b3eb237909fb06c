package garmin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

// ErrNoTokens is returned when no token bundle has been persisted yet
var ErrNoTokens = errors.New("garmin: no stored tokens")

// TokenStore persists the OAuth token bundle to a JSON file so later runs
// can skip the credential exchange entirely.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store backed by the given file path
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the persisted token bundle
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoTokens
	}
	if err != nil {
		return nil, fmt.Errorf("reading token bundle: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token bundle: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrNoTokens
	}
	return &token, nil
}

// Save writes the token bundle, creating the directory if needed
func (s *TokenStore) Save(token *oauth2.Token) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token bundle: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing token bundle: %w", err)
	}
	return nil
}
