// Package mcp provides an MCP server implementation for Promorang.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/promorang/promorang-cli/pkg/client"
	"github.com/promorang/promorang-cli/pkg/logger"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/services"
)

// TokenEnv is the environment variable holding a pre-configured token.
const TokenEnv = "PROMORANG_TOKEN"

// AuthState manages in-memory authentication state for the MCP server.
// This is separate from the CLI's disk-based session to support
// stateless MCP operation.
type AuthState struct {
	mu     sync.RWMutex
	token  string
	user   *models.SessionUser
	apiURL string
	opts   []client.Option
	client *client.Client
	log    logger.Logger
}

// NewAuthState creates a new authentication state manager. opts are applied
// to every client it builds.
func NewAuthState(apiURL string, opts ...client.Option) *AuthState {
	state := &AuthState{
		apiURL: apiURL,
		opts:   opts,
		token:  strings.TrimSpace(os.Getenv(TokenEnv)),
		log:    logger.Nop(),
	}
	state.client = client.New(apiURL, append(append([]client.Option{}, opts...), client.WithAuthHeaders(state.Headers))...)
	return state
}

// Headers is the client.HeaderProvider of the MCP session.
func (a *AuthState) Headers(context.Context) http.Header {
	h := http.Header{}
	if token := a.GetToken(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// IsAuthenticated returns true if there is a token.
func (a *AuthState) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token != ""
}

// GetToken returns the current authentication token.
func (a *AuthState) GetToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// GetUser returns the current authenticated user.
func (a *AuthState) GetUser() *models.SessionUser {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

// GetClient returns the API client. It always sends the current token.
func (a *AuthState) GetClient() *client.Client {
	return a.client
}

// SetLogger sets the logger handed to the services built from this state.
// A nil l restores the no-op logger.
func (a *AuthState) SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.Nop()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = l
}

func (a *AuthState) currentLogger() logger.Logger {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.log
}

// Content returns a content service over the current session.
func (a *AuthState) Content() *services.ContentService {
	return services.NewContentService(a.client, services.WithLogger(a.currentLogger()))
}

// Users returns a user service over the current session.
func (a *AuthState) Users() *services.UserService {
	return services.NewUserService(a.client, services.WithLogger(a.currentLogger()))
}

// SetAuth updates the authentication state.
func (a *AuthState) SetAuth(token string, user *models.SessionUser) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.user = user
}

// Clear removes the authentication state.
func (a *AuthState) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.user = nil
}

// Login verifies token against /api/users/me and stores it on success.
func (a *AuthState) Login(ctx context.Context, token string) (*models.SessionUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}

	c := client.New(a.apiURL, append(append([]client.Option{}, a.opts...), client.WithToken(token))...)
	me, err := services.NewUserService(c, services.WithLogger(a.currentLogger())).Me(ctx)
	if err != nil {
		return nil, err
	}

	a.SetAuth(token, &me)
	return &me, nil
}
