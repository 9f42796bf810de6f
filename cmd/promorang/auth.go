package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promorang/promorang-cli/pkg/client"
	"github.com/promorang/promorang-cli/pkg/config"
	"github.com/promorang/promorang-cli/pkg/services"
	"github.com/promorang/promorang-cli/pkg/session"
)

var (
	flagToken string
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)

	loginCmd.Flags().StringVar(&flagToken, "token", "", "API token (read from stdin when omitted)")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Promorang",
	Long:  "Authenticate with an API token. The token is verified before it is stored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		// Check if already logged in
		if user := session.GetUser(); session.IsAuthenticated() && user != nil {
			if !confirm(cmd, out, fmt.Sprintf("Already logged in as @%s. Log in again?", user.Username)) {
				return nil
			}
		}

		token := strings.TrimSpace(flagToken)
		if token == "" && !out.IsJSON() {
			fmt.Fprint(cmd.OutOrStdout(), "Token: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			token = strings.TrimSpace(line)
		}
		if token == "" {
			return fail(out, fmt.Errorf("token is required"))
		}

		c := client.New(config.GetAPIUrl(), append(clientOptions(), client.WithToken(token))...)
		me, err := services.NewUserService(c, services.WithLogger(getLogger())).Me(cmd.Context())
		if err != nil {
			return fail(out, err)
		}

		sess := &session.Session{
			Token:     token,
			User:      &me,
			CreatedAt: time.Now(),
		}
		if err := session.Save(sess); err != nil {
			return fail(out, fmt.Errorf("save session: %w", err))
		}

		if out.IsJSON() {
			return out.Success(map[string]any{
				"authenticated": true,
				"user":          me,
			})
		}

		out.Printf("✓ Logged in as @%s\n", me.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		if err := session.Clear(); err != nil {
			return fail(out, err)
		}

		if out.IsJSON() {
			return out.Success(map[string]bool{"logged_out": true})
		}

		out.Println("Logged out successfully")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		sess, err := session.Load()
		if err != nil || sess.User == nil {
			if out.IsJSON() {
				return out.Success(map[string]any{
					"authenticated": false,
					"api_url":       config.GetAPIUrl(),
				})
			}
			out.Println("Not logged in")
			return nil
		}

		if out.IsJSON() {
			return out.Success(map[string]any{
				"authenticated": true,
				"user":          sess.User,
				"expires_at":    sess.ExpiresAt,
				"api_url":       config.GetAPIUrl(),
			})
		}

		out.Printf("Logged in as @%s\n", sess.User.Username)
		if sess.User.DisplayName != "" {
			out.Printf("Name: %s\n", sess.User.DisplayName)
		}
		out.Printf("User ID: %s\n", sess.User.ID)
		out.Printf("API: %s\n", config.GetAPIUrl())
		if sess.ExpiresAt != nil {
			out.Printf("Session expires: %s\n", sess.ExpiresAt.Format(time.RFC3339))
		}

		return nil
	},
}
