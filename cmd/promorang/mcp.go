package main

import (
	"github.com/spf13/cobra"

	"github.com/promorang/promorang-cli/pkg/config"
	"github.com/promorang/promorang-cli/pkg/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP (Model Context Protocol) server",
	Long: `Run an MCP server that exposes Promorang to AI assistants.

The server communicates over stdio using the Model Context Protocol.

Available tools:
  Authentication:
    promorang_login       - Authenticate with an API token
    promorang_status      - Check authentication status

  Reading:
    promorang_content     - Get content, optionally with sponsorship, metrics and wallets
    promorang_profile     - Get a user profile
    promorang_wallets     - List your wallets

  Actions:
    promorang_buy_shares  - Buy shares of content
    promorang_like        - Like or unlike content

The API endpoint comes from the CLI configuration (see 'promorang config ls').

Environment variables:
  PROMORANG_TOKEN       - Pre-authenticated token (skip login)
  PROMORANG_CONFIG_DIR  - Custom config directory

Example MCP configuration:
  {
    "mcpServers": {
      "promorang": {
        "command": "promorang",
        "args": ["mcp"],
        "env": {
          "PROMORANG_TOKEN": "your-api-token"
        }
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcp.NewServer(config.GetAPIUrl(), clientOptions()...)
		srv.SetLogger(getLogger())
		return srv.ServeContext(cmd.Context())
	},
}
