package garmin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"traininghub/internal/logging"
)

// refreshSkew is how long before expiry a bundle counts as stale. Refreshing
// early keeps a paged extraction from starting on a token that dies mid-run.
const refreshSkew = time.Minute

// savingTokenSource serves the current access token and, once it goes stale,
// exchanges the refresh token and writes the new bundle through the store
// before releasing it. The next run then resumes from the refreshed bundle
// instead of falling back to a credential login.
type savingTokenSource struct {
	cfg   *oauth2.Config
	store *TokenStore
	log   zerolog.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

func newSavingTokenSource(cfg *oauth2.Config, store *TokenStore, token *oauth2.Token) *savingTokenSource {
	return &savingTokenSource{
		cfg:   cfg,
		store: store,
		token: token,
		log:   logging.Component("auth"),
	}
}

// Token implements oauth2.TokenSource
func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Valid() && time.Until(s.token.Expiry) > refreshSkew {
		return s.token, nil
	}

	fresh, err := s.cfg.TokenSource(context.Background(), s.token).Token()
	if err != nil {
		var retrieve *oauth2.RetrieveError
		if errors.As(err, &retrieve) {
			return nil, fmt.Errorf("%w: refresh rejected with status %d", ErrUnauthorized, retrieve.Response.StatusCode)
		}
		return nil, fmt.Errorf("refreshing access token: %w", err)
	}
	if err := s.store.Save(fresh); err != nil {
		return nil, fmt.Errorf("persisting refreshed bundle: %w", err)
	}
	s.log.Debug().Time("expiry", fresh.Expiry).Msg("access token refreshed")

	s.token = fresh
	return s.token, nil
}
