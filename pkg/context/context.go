// Package context manages the 'this' keyword resolution for CLI commands.
package context

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/promorang/promorang-cli/pkg/config"
)

const (
	// ContextTTL is the time-to-live for context entries (1 hour)
	ContextTTL = time.Hour

	TypeContent = "content"
	TypeUser    = "user"
)

var (
	mu        sync.RWMutex
	globalCtx *Context
)

func path() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "context.json"), nil
}

// Context represents the current CLI context.
type Context struct {
	LastID    string    `json:"last_id"`
	LastType  string    `json:"last_type"` // TypeContent or TypeUser
	UpdatedAt time.Time `json:"updated_at"`
}

// Load reads the context from disk.
func Load() (*Context, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalCtx != nil {
		// Check if context has expired
		if time.Since(globalCtx.UpdatedAt) > ContextTTL {
			globalCtx = nil
		} else {
			return globalCtx, nil
		}
	}

	contextPath, err := path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(contextPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no context available")
	}
	if err != nil {
		return nil, fmt.Errorf("read context file: %w", err)
	}

	var ctx Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("parse context: %w", err)
	}

	// Check if context has expired
	if time.Since(ctx.UpdatedAt) > ContextTTL {
		return nil, fmt.Errorf("context expired")
	}

	globalCtx = &ctx
	return globalCtx, nil
}

// Save persists the context to disk.
func Save(ctx *Context) error {
	mu.Lock()
	defer mu.Unlock()

	contextPath, err := path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}

	if err := os.WriteFile(contextPath, data, 0600); err != nil {
		return fmt.Errorf("write context file: %w", err)
	}

	globalCtx = ctx
	return nil
}

// Clear removes the context from disk and memory.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	contextPath, err := path()
	if err != nil {
		return err
	}

	if err := os.Remove(contextPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove context file: %w", err)
	}

	globalCtx = nil
	return nil
}

// Set sets the current context to an object.
func Set(id, typ string) error {
	ctx := &Context{
		LastID:    id,
		LastType:  typ,
		UpdatedAt: time.Now(),
	}
	return Save(ctx)
}

// Get returns the current context ID and type.
func Get() (string, string, error) {
	ctx, err := Load()
	if err != nil {
		return "", "", err
	}
	return ctx.LastID, ctx.LastType, nil
}

// GetID returns just the current context ID.
func GetID() (string, error) {
	id, _, err := Get()
	return id, err
}

// GetType returns just the current context type.
func GetType() (string, error) {
	_, typ, err := Get()
	return typ, err
}

// ResolveTarget resolves a target string ("this", an ID, or an @username).
// "this" must refer to an object of type typ. Returns the resolved target and
// whether it was resolved from context.
func ResolveTarget(target, typ string) (string, bool, error) {
	if target != "this" {
		return target, false, nil
	}
	id, lastType, err := Get()
	if err != nil {
		return "", false, fmt.Errorf("no context available: use an explicit ID")
	}
	if typ != "" && lastType != typ {
		return "", false, fmt.Errorf("\"this\" refers to a %s, not a %s", lastType, typ)
	}
	return id, true, nil
}

// Reset drops the cached context.
func Reset() {
	mu.Lock()
	globalCtx = nil
	mu.Unlock()
}
