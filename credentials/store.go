// Package credentials holds the client-side session state: the signed-in
// user, the access/refresh token pair, and its durable copy. The Store is
// the single source of truth for the current session; the request pipeline
// reads tokens from it at dispatch time and writes refreshed tokens back
// through it.
package credentials

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Session is an immutable snapshot of the current identity.
// IsAuthenticated is true iff a non-empty access+refresh token pair exists.
type Session struct {
	User            *User
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
}

// Subscriber receives a session snapshot after every Store mutation.
type Subscriber func(Session)

// Store owns the current session and mirrors every mutation into the
// durable Keyring. All methods are safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	session     Session
	keyring     Keyring
	subscribers []Subscriber
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithSubscriber registers an observer before any mutation can occur.
func WithSubscriber(fn Subscriber) StoreOption {
	return func(s *Store) {
		s.subscribers = append(s.subscribers, fn)
	}
}

// NewStore creates a credential store backed by the given keyring.
func NewStore(keyring Keyring, options ...StoreOption) (*Store, error) {
	if keyring == nil {
		return nil, errors.New("[NewStore] keyring is required")
	}
	s := &Store{keyring: keyring}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Session returns a snapshot of the current session.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// AccessToken returns the current access token, empty when anonymous.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// RefreshToken returns the current refresh token, empty when anonymous.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.RefreshToken
}

// Subscribe registers an observer called with a snapshot after every
// mutation. Observers run outside the store lock and may call read methods.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SetCredentials replaces the whole session from a successful login or
// two-factor completion response and persists it durably.
func (s *Store) SetCredentials(user User, accessToken, refreshToken string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[Store.SetCredentials] marshal user")
	}

	s.mu.Lock()
	s.session = Session{
		User:            &user,
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		IsAuthenticated: accessToken != "" && refreshToken != "",
	}
	s.mu.Unlock()

	if err := s.keyring.Set(KeyAccessToken, accessToken); err != nil {
		return errors.Wrap(err, "[Store.SetCredentials] persist access token")
	}
	if err := s.keyring.Set(KeyRefreshToken, refreshToken); err != nil {
		return errors.Wrap(err, "[Store.SetCredentials] persist refresh token")
	}
	if err := s.keyring.Set(KeyUser, string(userJSON)); err != nil {
		return errors.Wrap(err, "[Store.SetCredentials] persist user")
	}

	s.notify()
	return nil
}

// UpdateAccessToken replaces only the access token and its durable copy.
// Used exclusively by the refresh flow; user and refresh token are untouched.
func (s *Store) UpdateAccessToken(accessToken string) error {
	s.mu.Lock()
	s.session.AccessToken = accessToken
	s.session.IsAuthenticated = accessToken != "" && s.session.RefreshToken != ""
	s.mu.Unlock()

	if err := s.keyring.Set(KeyAccessToken, accessToken); err != nil {
		return errors.Wrap(err, "[Store.UpdateAccessToken] persist access token")
	}

	s.notify()
	return nil
}

// Logout clears the session and removes the durable copy. Idempotent:
// logging out an anonymous session is a no-op state transition.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()

	if err := s.clearKeyring(); err != nil {
		return errors.Wrap(err, "[Store.Logout]")
	}

	s.notify()
	return nil
}

// Restore seeds the in-memory session from the keyring. Called once at
// startup. Fails closed: any missing key or unparseable user record wipes
// all durable keys and leaves the session anonymous, so a half-restored
// session can never appear authenticated.
func (s *Store) Restore() error {
	accessToken, okAccess, err := s.keyring.Get(KeyAccessToken)
	if err != nil {
		return errors.Wrap(err, "[Store.Restore] read access token")
	}
	refreshToken, okRefresh, err := s.keyring.Get(KeyRefreshToken)
	if err != nil {
		return errors.Wrap(err, "[Store.Restore] read refresh token")
	}
	userJSON, okUser, err := s.keyring.Get(KeyUser)
	if err != nil {
		return errors.Wrap(err, "[Store.Restore] read user")
	}

	if !okAccess || !okRefresh || !okUser || accessToken == "" || refreshToken == "" {
		if err := s.clearKeyring(); err != nil {
			return errors.Wrap(err, "[Store.Restore] wipe partial session")
		}
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		if wipeErr := s.clearKeyring(); wipeErr != nil {
			return errors.Wrap(wipeErr, "[Store.Restore] wipe corrupt session")
		}
		return nil
	}

	return s.SetCredentials(user, accessToken, refreshToken)
}

func (s *Store) clearKeyring() error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := s.keyring.Delete(key); err != nil {
			return errors.Wrapf(err, "delete %q", key)
		}
	}
	return nil
}

func (s *Store) notify() {
	s.mu.RLock()
	snapshot := s.session
	subscribers := make([]Subscriber, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}
