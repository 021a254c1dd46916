// Package session keeps the signed-in user and bearer token and mirrors
// them into durable storage.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/kickit-app/kickit/pkg/kickit"
)

// Storage keys. They match the keys the browser client kept in local storage.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is a durable string key/value store. SetAll writes every value
// in one step so a reader never sees half a session.
type Storage interface {
	Get(key string) (string, bool, error)
	SetAll(values map[string]string) error
	Delete(keys ...string) error
}

// State is the authentication state of a store.
type State int

const (
	// StateLoading means Restore has not finished yet.
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var _ kickit.Session = (*Store)(nil)

// Store holds the token and user pair of one client.
type Store struct {
	mu       sync.RWMutex
	storage  Storage
	token    string
	user     *kickit.User
	restored bool
}

// New returns a store backed by storage. It starts in StateLoading.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Open returns a store backed by storage that has already been restored.
func Open(storage Storage) (*Store, error) {
	s := New(storage)
	if err := s.Restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore loads the session from storage. A missing or unreadable user
// leaves the store unauthenticated. The token is not checked against the
// API; an expired token only shows up on the next API call.
func (s *Store) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	token, hasToken, err := s.storage.Get(KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}
	rawUser, hasUser, err := s.storage.Get(KeyUser)
	if err != nil {
		return fmt.Errorf("failed to read session user: %w", err)
	}

	if hasToken && hasUser && token != "" {
		var user kickit.User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			log.Warn("ignoring unreadable stored user", "error", err)
		} else {
			s.token = token
			s.user = &user
		}
	}

	s.restored = true
	return nil
}

// Login stores the user and token in memory and in storage.
func (s *Store) Login(user kickit.User, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetAll(map[string]string{
		KeyToken: token,
		KeyUser:  string(data),
	}); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.token = token
	s.user = &user
	s.restored = true
	return nil
}

// Logout clears the session from memory and storage, whatever its state.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	s.restored = true

	if err := s.storage.Delete(KeyToken, KeyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token returns the bearer token or an empty string.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user.
func (s *Store) User() (kickit.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return kickit.User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case !s.restored:
		return StateLoading
	case s.token != "" && s.user != nil:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}
