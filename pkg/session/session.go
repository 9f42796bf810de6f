// Package session manages authentication session storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/promorang/promorang-cli/pkg/config"
	"github.com/promorang/promorang-cli/pkg/models"
)

var (
	mu            sync.RWMutex
	globalSess    *Session
	lastConfigDir string
)

var (
	// ErrNoSession is returned by Load when nobody is logged in.
	ErrNoSession = errors.New("no active session")
	// ErrExpired is returned by Load for a session past its expiry.
	ErrExpired = errors.New("session expired")
)

// Session represents an authenticated user session.
type Session struct {
	Token     string              `json:"token"`
	User      *models.SessionUser `json:"user"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt)
}

func sessionPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	// Drop the cached session when the config directory changed.
	if lastConfigDir != "" && lastConfigDir != dir {
		globalSess = nil
	}
	lastConfigDir = dir
	return filepath.Join(dir, "session.json"), nil
}

// Load reads the session from disk.
func Load() (*Session, error) {
	mu.Lock()
	defer mu.Unlock()

	path, err := sessionPath()
	if err != nil {
		return nil, err
	}

	if globalSess != nil {
		return globalSess, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.Expired() {
		return nil, ErrExpired
	}

	globalSess = &sess
	return globalSess, nil
}

// Save persists the session to disk.
func Save(sess *Session) error {
	mu.Lock()
	defer mu.Unlock()

	path, err := sessionPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	globalSess = sess
	return nil
}

// Clear removes the session from disk and memory.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	path, err := sessionPath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	globalSess = nil
	return nil
}

// IsAuthenticated checks if there's an active, non-expired session.
func IsAuthenticated() bool {
	mu.RLock()
	defer mu.RUnlock()

	return globalSess != nil && !globalSess.Expired()
}

// GetToken returns the current session token, or empty string if not authenticated.
func GetToken() string {
	mu.RLock()
	defer mu.RUnlock()

	if globalSess == nil || globalSess.Expired() {
		return ""
	}
	return globalSess.Token
}

// GetUser returns the current authenticated user, or nil if not authenticated.
func GetUser() *models.SessionUser {
	mu.RLock()
	defer mu.RUnlock()

	if globalSess == nil {
		return nil
	}
	return globalSess.User
}

// AuthHeaders is a client.HeaderProvider sending the session token. It sends
// nothing when there is no live session.
func AuthHeaders(context.Context) http.Header {
	h := http.Header{}
	if token := GetToken(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// Reset drops the cached session so the next Load reads from disk.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	globalSess = nil
	lastConfigDir = ""
}
