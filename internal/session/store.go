package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kingcontent/videoai-client/internal/models"
)

// ProfileFetcher fetches the current user's profile from the backend.
// *client.APIClient satisfies it.
type ProfileFetcher interface {
	Me(ctx context.Context) (*models.User, error)
}

// state is the serialized form written to disk.
type state struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Store holds the bearer token and cached user profile, persisted to a local
// state file. Only the store mutates the credential; every other component
// reads it through Token and User.
type Store struct {
	path string
	log  zerolog.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
	subs  []chan struct{}
}

// NewStore loads any persisted session from path. A missing or unreadable
// file just yields an unauthenticated store.
func NewStore(path string, log zerolog.Logger) *Store {
	s := &Store{path: path, log: log}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("could not read session file")
		}
		return s
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("discarding corrupt session file")
		return s
	}

	s.token = st.Token
	s.user = st.User
	return s
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the cached profile, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// SetCredentials stores a new token and profile and persists them.
func (s *Store) SetCredentials(token string, user *models.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// SetUser updates only the cached profile.
func (s *Store) SetUser(user *models.User) error {
	s.mu.Lock()
	s.user = user
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// Clear drops the credential and profile and removes the state file.
// Safe to call repeatedly; used by the shared 401 handler and by logout.
func (s *Store) Clear() {
	s.mu.Lock()
	had := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", s.path).Msg("could not remove session file")
	}
	s.mu.Unlock()

	if had {
		s.notify()
	}
}

// Refresh re-fetches the profile from the backend and updates the cache.
// Subscribers are notified on success.
func (s *Store) Refresh(ctx context.Context, f ProfileFetcher) error {
	user, err := f.Me(ctx)
	if err != nil {
		return fmt.Errorf("profile refresh failed: %w", err)
	}
	return s.SetUser(user)
}

// Subscribe returns a channel that receives a signal whenever the session
// changes. The channel has a buffer of one; signals coalesce rather than
// block the store.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) persistLocked() error {
	data, err := json.Marshal(state{Token: s.token, User: s.user})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
