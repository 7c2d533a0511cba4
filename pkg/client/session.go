package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cinebook/internal/auth"
)

type SessionState int

const (
	SessionInit SessionState = iota
	SessionAuthenticated
	SessionUnauthenticated
	SessionTornDown
)

func (s SessionState) String() string {
	switch s {
	case SessionInit:
		return "init"
	case SessionAuthenticated:
		return "authenticated"
	case SessionUnauthenticated:
		return "unauthenticated"
	case SessionTornDown:
		return "torn_down"
	default:
		return "unknown"
	}
}

// Persisted keys. Everything under AuthKeyPrefix is dropped on sign-out.
const (
	AuthKeyPrefix     = "cinebook-auth-"
	authSessionKey    = AuthKeyPrefix + "session"
	AdminActiveTabKey = "cinebook-admin-active-tab"
)

var ErrSessionClosed = errors.New("session has been torn down")

// Store persists small string values between runs
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
}

type persistedAuth struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	User         auth.UserResponse `json:"user"`
}

// Session is the signed-in state handed to every component that needs it.
// It is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	state       SessionState
	data        persistedAuth
	store       Store
	subscribers map[int]func(SessionState)
	nextID      int
}

// NewSession starts in SessionInit; store may be nil.
func NewSession(store Store) *Session {
	return &Session{store: store, subscribers: make(map[int]func(SessionState))}
}

// Init restores a persisted sign-in, if any, and settles the session state.
func (s *Session) Init() error {
	s.mu.Lock()
	if s.state == SessionTornDown {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	var loadErr error
	s.state = SessionUnauthenticated
	if s.store != nil {
		raw, ok, err := s.store.Get(authSessionKey)
		switch {
		case err != nil:
			loadErr = err
		case ok:
			var data persistedAuth
			if err := json.Unmarshal([]byte(raw), &data); err != nil {
				loadErr = err
			} else if data.AccessToken != "" {
				s.data = data
				s.state = SessionAuthenticated
			}
		}
	}
	state, subs := s.state, s.snapshot()
	s.mu.Unlock()

	notify(subs, state)
	return loadErr
}

func (s *Session) SignIn(accessToken, refreshToken string, user auth.UserResponse) {
	s.mu.Lock()
	if s.state == SessionTornDown {
		s.mu.Unlock()
		return
	}
	s.data = persistedAuth{AccessToken: accessToken, RefreshToken: refreshToken, User: user}
	s.state = SessionAuthenticated
	s.persist()
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, SessionAuthenticated)
}

// UpdateTokens swaps tokens after a refresh without notifying subscribers.
func (s *Session) UpdateTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionAuthenticated {
		return
	}
	s.data.AccessToken = accessToken
	if refreshToken != "" {
		s.data.RefreshToken = refreshToken
	}
	s.persist()
}

func (s *Session) SignOut() {
	s.mu.Lock()
	if s.state == SessionTornDown {
		s.mu.Unlock()
		return
	}
	s.data = persistedAuth{}
	s.state = SessionUnauthenticated
	s.clearAuthKeys()
	subs := s.snapshot()
	s.mu.Unlock()

	notify(subs, SessionUnauthenticated)
}

// Teardown clears the tokens and drops every subscriber. The session is unusable afterwards.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = persistedAuth{}
	s.state = SessionTornDown
	s.subscribers = make(map[int]func(SessionState))
}

// Subscribe registers fn for state changes and returns its unsubscribe func
func (s *Session) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == SessionAuthenticated
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.AccessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.RefreshToken
}

func (s *Session) User() (auth.UserResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.User, s.state == SessionAuthenticated
}

// AdminTab returns the admin screen that was open last
func (s *Session) AdminTab() string {
	if s.store == nil {
		return ""
	}
	v, _, _ := s.store.Get(AdminActiveTabKey)
	return v
}

func (s *Session) SetAdminTab(tab string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Set(AdminActiveTabKey, tab)
}

// callers hold mu
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	raw, err := json.Marshal(s.data)
	if err != nil {
		return
	}
	_ = s.store.Set(authSessionKey, string(raw))
}

func (s *Session) clearAuthKeys() {
	if s.store == nil {
		return
	}
	keys, err := s.store.Keys()
	if err != nil {
		return
	}
	for _, k := range keys {
		if strings.HasPrefix(k, AuthKeyPrefix) {
			_ = s.store.Delete(k)
		}
	}
}

func (s *Session) snapshot() []func(SessionState) {
	subs := make([]func(SessionState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(SessionState), state SessionState) {
	for _, fn := range subs {
		fn(state)
	}
}

// FileStore keeps values in one JSON file
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) load() (map[string]string, error) {
	values := map[string]string{}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (f *FileStore) save(values map[string]string) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return f.save(values)
}

func (f *FileStore) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return keys, nil
}
