package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ctxpkg "github.com/promorang/promorang-cli/pkg/context"
	"github.com/promorang/promorang-cli/pkg/identity"
	"github.com/promorang/promorang-cli/pkg/mcp"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/normalize"
	"github.com/promorang/promorang-cli/pkg/output"
	"github.com/promorang/promorang-cli/pkg/services"
	"github.com/promorang/promorang-cli/pkg/session"
)

var (
	flagDisplayName string
	flagBio         string
	flagAvatarURL   string
)

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(walletsCmd)

	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileAvatarCmd)

	profileEditCmd.Flags().StringVar(&flagDisplayName, "display-name", "", "New display name")
	profileEditCmd.Flags().StringVar(&flagBio, "bio", "", "New bio")
	profileEditCmd.Flags().StringVar(&flagAvatarURL, "avatar-url", "", "New avatar URL")
}

var profileCmd = &cobra.Command{
	Use:   "profile [id|@username|this]",
	Short: "Show a profile",
	Long:  "Show a user profile. Without an argument, shows your own profile.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)
		users := getUserService()

		if len(args) == 0 {
			if err := requireAuth(out); err != nil {
				return err
			}
			me, err := users.Me(cmd.Context())
			if err != nil {
				return fail(out, err)
			}
			p := normalize.AdaptSessionUser(me)
			return printProfile(out, p, identity.Resolve(&p, &me))
		}

		ref, _, err := ctxpkg.ResolveTarget(args[0], ctxpkg.TypeUser)
		if err != nil {
			return fail(out, err)
		}

		p, err := users.GetProfile(cmd.Context(), ref)
		if err != nil {
			return fail(out, err)
		}
		if p.ID != "" {
			ctxpkg.Set(p.ID, ctxpkg.TypeUser)
		}

		return printProfile(out, p, identity.Resolve(&p, session.GetUser()))
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		if err := requireAuth(out); err != nil {
			return err
		}

		var update services.ProfileUpdate
		if cmd.Flags().Changed("display-name") {
			update.DisplayName = &flagDisplayName
		}
		if cmd.Flags().Changed("bio") {
			update.Bio = &flagBio
		}
		if cmd.Flags().Changed("avatar-url") {
			update.AvatarURL = &flagAvatarURL
		}

		p, err := getUserService().UpdateProfile(cmd.Context(), update)
		if err != nil {
			return fail(out, err)
		}

		if out.IsJSON() {
			return out.Success(p)
		}

		out.Println("✓ Profile updated")
		return printProfile(out, p, identity.Ownership{State: identity.StateResolved, IsOwner: true})
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <file>",
	Short: "Upload a new avatar image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		if err := requireAuth(out); err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fail(out, fmt.Errorf("open avatar: %w", err))
		}
		defer f.Close()

		p, err := getUserService().UploadAvatar(cmd.Context(), args[0], f)
		if err != nil {
			return fail(out, err)
		}

		if out.IsJSON() {
			return out.Success(p)
		}
		out.Println("✓ Avatar updated")
		if p.AvatarURL != "" {
			out.Printf("Avatar: %s\n", p.AvatarURL)
		}
		return nil
	},
}

var walletsCmd = &cobra.Command{
	Use:   "wallets",
	Short: "List your currency wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		if err := requireAuth(out); err != nil {
			return err
		}

		wallets, err := getUserService().Wallets(cmd.Context())
		if err != nil {
			return fail(out, err)
		}

		if out.IsJSON() {
			return out.Success(wallets)
		}
		if out.IsRaw() || len(wallets) == 0 {
			out.Println(mcp.FormatWallets(wallets))
			return nil
		}

		rows := make([][]string, 0, len(wallets))
		for _, w := range wallets {
			rows = append(rows, []string{w.CurrencyType, fmt.Sprintf("%.2f", w.Balance)})
		}
		return out.Table([]string{"Currency", "Balance"}, rows)
	},
}

// profileView is the JSON shape of a profile. IsOwner is omitted while
// ownership is unknown.
type profileView struct {
	models.ProfileUser
	IsOwner *bool `json:"is_owner,omitempty"`
}

func printProfile(out *output.Printer, p models.ProfileUser, own identity.Ownership) error {
	if out.IsJSON() {
		v := profileView{ProfileUser: p}
		if own.Known() {
			owner := own.IsOwner
			v.IsOwner = &owner
		}
		return out.Success(v)
	}

	if out.IsRaw() {
		out.Printf("@%s\n", p.Username)
		return nil
	}

	out.Println(mcp.FormatProfile(p, own))
	return nil
}
