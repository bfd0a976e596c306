package auth

import (
	"context"
	"fmt"
	"sync"

	apperrors "codeme-client/internal/errors"
	"codeme-client/internal/logger"

	"golang.org/x/oauth2"
)

// State owns the bearer token for the session. One State is shared by the
// callback handler, which writes it, and the API client, which reads it on
// every request.
type State struct {
	mu      sync.RWMutex
	token   string
	gen     uint64
	store   TokenStore
	changed chan struct{}
}

var (
	_ TokenSetter        = (*State)(nil)
	_ TokenReader        = (*State)(nil)
	_ oauth2.TokenSource = (*State)(nil)
)

// NewState creates a State backed by store and loads any persisted token.
// A nil store keeps the token in memory only.
func NewState(store TokenStore) (*State, error) {
	if store == nil {
		store = NewMemoryTokenStore()
	}

	s := &State{
		store:   store,
		changed: make(chan struct{}),
	}

	token, err := store.Load()
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load stored token: %w", err)
	}
	s.token = token

	return s, nil
}

// SetToken replaces any prior token. The in-memory token is always updated;
// the returned error only reports a failure to persist it.
func (s *State) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.gen++
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()

	info := Inspect(token)
	logger.New().WithFields(map[string]interface{}{
		"token_length": info.Length,
		"subject":      info.Subject,
		"opaque":       info.Opaque,
	}).Info("Bearer token updated")

	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// AccessToken returns the raw bearer token, or "" when none is held
func (s *State) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken reports whether a non-empty token is held
func (s *State) HasToken() bool {
	return s.AccessToken() != ""
}

// Token implements oauth2.TokenSource. It returns ErrNoToken when no token is held.
func (s *State) Token() (*oauth2.Token, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, apperrors.ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// Clear drops the token from memory and from the store. It counts as a new
// generation so a callback completed before the logout can run again.
func (s *State) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.gen++
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear stored token: %w", err)
	}
	return nil
}

// Generation returns a counter incremented by every SetToken and Clear call
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// WaitForToken blocks until a non-empty token has been set after generation
// after (see Generation) and returns it.
func (s *State) WaitForToken(ctx context.Context, after uint64) (string, error) {
	for {
		s.mu.RLock()
		token, gen, changed := s.token, s.gen, s.changed
		s.mu.RUnlock()

		if gen > after && token != "" {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-changed:
		}
	}
}
