package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolDefinitions returns all tool definitions for the Promorang MCP server.
func ToolDefinitions() []mcp.Tool {
	return []mcp.Tool{
		// Authentication tools
		toolLogin(),
		toolStatus(),

		// Reading tools
		toolContent(),
		toolProfile(),
		toolWallets(),

		// Action tools
		toolBuyShares(),
		toolLike(),
	}
}

// === Authentication Tools ===

func toolLogin() mcp.Tool {
	return mcp.NewTool("promorang_login",
		mcp.WithDescription("Authenticate with Promorang using an API token. Required before buying shares, liking, or reading wallets."),
		mcp.WithString("token",
			mcp.Description("Promorang API token"),
			mcp.Required(),
		),
	)
}

func toolStatus() mcp.Tool {
	return mcp.NewTool("promorang_status",
		mcp.WithDescription("Check authentication status"),
	)
}

// === Reading Tools ===

func toolContent() mcp.Tool {
	return mcp.NewTool("promorang_content",
		mcp.WithDescription(`Get a piece of content.

Missing fields are filled with placeholder values; placeholder records are marked as demo content.
With detail=true, sponsorship, metrics and your wallets are fetched alongside.`),
		mcp.WithString("content_id",
			mcp.Description("ID of the content"),
			mcp.Required(),
		),
		mcp.WithBoolean("detail",
			mcp.Description("Include sponsorship, metrics and wallets (default: false)"),
		),
	)
}

func toolProfile() mcp.Tool {
	return mcp.NewTool("promorang_profile",
		mcp.WithDescription("Get a user profile. Without a user, returns your own profile."),
		mcp.WithString("user",
			mcp.Description("User ID, or @username"),
		),
	)
}

func toolWallets() mcp.Tool {
	return mcp.NewTool("promorang_wallets",
		mcp.WithDescription("List your currency wallets"),
	)
}

// === Action Tools ===

func toolBuyShares() mcp.Tool {
	return mcp.NewTool("promorang_buy_shares",
		mcp.WithDescription("Buy shares of a piece of content"),
		mcp.WithNumber("content_id",
			mcp.Description("Numeric ID of the content"),
			mcp.Required(),
		),
		mcp.WithNumber("shares",
			mcp.Description("Number of shares to buy (1-1000)"),
			mcp.Required(),
		),
	)
}

func toolLike() mcp.Tool {
	return mcp.NewTool("promorang_like",
		mcp.WithDescription("Like a piece of content, or remove your like"),
		mcp.WithString("content_id",
			mcp.Description("ID of the content"),
			mcp.Required(),
		),
		mcp.WithBoolean("unlike",
			mcp.Description("Remove the like instead (default: false)"),
		),
	)
}
