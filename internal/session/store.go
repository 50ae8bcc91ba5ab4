// Package session holds the signed-in identity shared by every screen.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"nexus-assist/internal/model"
	"nexus-assist/pkg/logger"
)

var ErrNotAuthenticated = errors.New("User not authenticated")

// Session is the persisted auth record. It is always written whole.
type Session struct {
	Token string     `json:"authToken"`
	User  model.User `json:"user"`
}

// Valid reports whether the record carries an owner identity.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.User.UserID) != ""
}

type Listener func(s Session, ok bool)

// Store is the session context: Get/Set/Clear plus change notification.
// An empty path keeps the session in memory only.
type Store struct {
	path string

	mu        sync.RWMutex
	current   *Session
	loaded    bool
	listeners map[int]Listener
	nextID    int
}

func NewStore(path string) *Store {
	return &Store{path: path, listeners: make(map[int]Listener)}
}

// Get returns the current session. A missing or unreadable record reads as
// not authenticated.
func (s *Store) Get() (Session, bool) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		if s.current == nil {
			return Session{}, false
		}
		return *s.current, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.current = s.readLocked()
		s.loaded = true
	}
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// UserID returns the owner id or ErrNotAuthenticated.
func (s *Store) UserID() (string, error) {
	sess, ok := s.Get()
	if !ok {
		return "", ErrNotAuthenticated
	}
	return sess.User.UserID, nil
}

// Set replaces the stored record entirely.
func (s *Store) Set(sess Session) error {
	if !sess.Valid() {
		return fmt.Errorf("session: user id is required")
	}

	s.mu.Lock()
	if err := s.writeLocked(&sess); err != nil {
		s.mu.Unlock()
		return err
	}
	cp := sess
	s.current = &cp
	s.loaded = true
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	for _, l := range listeners {
		l(sess, true)
	}
	return nil
}

// Clear removes the stored record.
func (s *Store) Clear() error {
	s.mu.Lock()
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			s.mu.Unlock()
			return err
		}
	}
	s.current = nil
	s.loaded = true
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	for _, l := range listeners {
		l(Session{}, false)
	}
	return nil
}

// Subscribe registers fn for login/logout/profile changes and returns a
// function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotListenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func (s *Store) readLocked() *Session {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("failed to read session %s: %v", s.path, err)
		}
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		logger.Warnf("ignoring corrupt session %s: %v", s.path, err)
		return nil
	}
	if !sess.Valid() {
		return nil
	}
	return &sess
}

func (s *Store) writeLocked(sess *Session) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	// write-then-rename so readers never see a partial record
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
