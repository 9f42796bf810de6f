package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promorang/promorang-cli/pkg/api"
	"github.com/promorang/promorang-cli/pkg/identity"
	"github.com/promorang/promorang-cli/pkg/normalize"
	"github.com/promorang/promorang-cli/pkg/services"
	"github.com/promorang/promorang-cli/pkg/viewstate"
)

// Handlers contains all tool handlers for the Promorang MCP server.
type Handlers struct {
	auth *AuthState
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(auth *AuthState) *Handlers {
	return &Handlers{auth: auth}
}

const notAuthenticated = "Not authenticated. Use promorang_login to authenticate."

// errorResult turns a service error into a tool error. Service errors already
// name the failed operation.
func errorResult(err error) *mcp.CallToolResult {
	if apiErr, ok := api.AsError(err); ok {
		if apiErr.IsNetwork() {
			return mcp.NewToolResultError(fmt.Sprintf("%s (%v)", apiErr.Error(), apiErr.Details["cause"]))
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s [%s]", apiErr.Error(), apiErr.Code))
	}
	return mcp.NewToolResultError(err.Error())
}

// === Authentication Handlers ===

// HandleLogin handles the promorang_login tool.
func (h *Handlers) HandleLogin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("token")
	if err != nil || strings.TrimSpace(token) == "" {
		return mcp.NewToolResultError("token is required"), nil
	}

	user, err := h.auth.Login(ctx, token)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Login failed", err), nil
	}

	text := fmt.Sprintf("Logged in as @%s\nUser ID: %s\nSession active.", user.Username, user.ID)
	return mcp.NewToolResultText(text), nil
}

// HandleStatus handles the promorang_status tool.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.auth.IsAuthenticated() {
		return mcp.NewToolResultText(notAuthenticated), nil
	}

	// Verify token is still valid by calling the API
	me, err := h.auth.Users().Me(ctx)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusUnauthorized {
			h.auth.Clear()
			return mcp.NewToolResultText(fmt.Sprintf("Session expired: %v", err)), nil
		}
		return errorResult(err), nil
	}

	h.auth.SetAuth(h.auth.GetToken(), &me)
	text := fmt.Sprintf("Authenticated as @%s\nUser ID: %s", me.Username, me.ID)
	return mcp.NewToolResultText(text), nil
}

// === Reading Handlers ===

// HandleContent handles the promorang_content tool.
func (h *Handlers) HandleContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contentID, err := req.RequireString("content_id")
	if err != nil || strings.TrimSpace(contentID) == "" {
		return mcp.NewToolResultError("content_id is required"), nil
	}

	svc := h.auth.Content()

	if !req.GetBool("detail", false) {
		c, err := svc.GetContent(ctx, contentID)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(FormatContent(c)), nil
	}

	holder := viewstate.New(services.ContentDetail{ContentID: contentID})
	defer holder.Close()

	d := svc.LoadDetail(ctx, contentID, holder)
	if d.Content == nil {
		return errorResult(d.Err(services.BranchContent)), nil
	}
	return mcp.NewToolResultText(FormatDetail(d)), nil
}

// HandleProfile handles the promorang_profile tool.
func (h *Handlers) HandleProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := strings.TrimSpace(req.GetString("user", ""))
	users := h.auth.Users()

	if ref == "" {
		if !h.auth.IsAuthenticated() {
			return mcp.NewToolResultError(notAuthenticated), nil
		}
		me, err := users.Me(ctx)
		if err != nil {
			return errorResult(err), nil
		}
		profile := normalize.AdaptSessionUser(me)
		return mcp.NewToolResultText(FormatProfile(profile, identity.Resolve(&profile, &me))), nil
	}

	profile, err := users.GetProfile(ctx, ref)
	if err != nil {
		return errorResult(err), nil
	}
	own := identity.Resolve(&profile, h.auth.GetUser())
	return mcp.NewToolResultText(FormatProfile(profile, own)), nil
}

// HandleWallets handles the promorang_wallets tool.
func (h *Handlers) HandleWallets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.auth.IsAuthenticated() {
		return mcp.NewToolResultError(notAuthenticated), nil
	}

	wallets, err := h.auth.Users().Wallets(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(FormatWallets(wallets)), nil
}

// === Action Handlers ===

// HandleBuyShares handles the promorang_buy_shares tool.
func (h *Handlers) HandleBuyShares(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.auth.IsAuthenticated() {
		return mcp.NewToolResultError(notAuthenticated), nil
	}

	res, err := h.auth.Content().BuyShares(ctx, services.BuySharesRequest{
		ContentID:   int64(req.GetInt("content_id", 0)),
		SharesCount: req.GetInt("shares", 0),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(FormatTrade(res)), nil
}

// HandleLike handles the promorang_like tool.
func (h *Handlers) HandleLike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.auth.IsAuthenticated() {
		return mcp.NewToolResultError(notAuthenticated), nil
	}

	contentID, err := req.RequireString("content_id")
	if err != nil || strings.TrimSpace(contentID) == "" {
		return mcp.NewToolResultError("content_id is required"), nil
	}

	svc := h.auth.Content()
	like := svc.Like
	if req.GetBool("unlike", false) {
		like = svc.Unlike
	}

	l, err := like(ctx, contentID)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(FormatLike(l)), nil
}
