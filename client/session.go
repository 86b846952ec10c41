package client

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrNoSession signals an authenticated call attempted without a stored token.
var ErrNoSession = errors.New("client: no session")

// SessionStore is the single place the session token lives. Every networked
// operation that needs the token goes through it.
type SessionStore interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

// FileSessionStore persists the token in a file, surviving restarts the way
// the browser client survives reloads.
type FileSessionStore struct {
	mu   sync.Mutex
	path string
}

// NewFileSessionStore creates a store backed by the given path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("client: read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileSessionStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("client: write session file: %w", err)
	}
	return nil
}

func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("client: clear session file: %w", err)
	}
	return nil
}

// MemorySessionStore keeps the token in memory only; handy for tests.
type MemorySessionStore struct {
	mu    sync.Mutex
	token string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemorySessionStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
