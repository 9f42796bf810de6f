package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	ctxpkg "github.com/promorang/promorang-cli/pkg/context"
	"github.com/promorang/promorang-cli/pkg/mcp"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/output"
	"github.com/promorang/promorang-cli/pkg/services"
	"github.com/promorang/promorang-cli/pkg/viewstate"
)

var (
	flagDetail bool
)

func init() {
	rootCmd.AddCommand(contentCmd)

	contentCmd.AddCommand(contentShowCmd)
	contentCmd.AddCommand(contentBuyCmd)
	contentCmd.AddCommand(contentLikeCmd)
	contentCmd.AddCommand(contentUnlikeCmd)

	contentShowCmd.Flags().BoolVar(&flagDetail, "detail", false, "Include sponsorship, metrics and your wallets")
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Browse and trade content",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var contentShowCmd = &cobra.Command{
	Use:   "show <id|this>",
	Short: "Show a piece of content",
	Long: `Show a piece of content.

Fields the server leaves out are filled with placeholder values; such records
are marked [demo]. The shown content becomes "this" for later commands.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		id, _, err := ctxpkg.ResolveTarget(args[0], ctxpkg.TypeContent)
		if err != nil {
			return fail(out, err)
		}

		svc := getContentService()

		if flagDetail {
			holder := viewstate.New(services.ContentDetail{ContentID: id})
			defer holder.Close()

			d := svc.LoadDetail(cmd.Context(), id, holder)
			if d.Content == nil {
				return fail(out, d.Err(services.BranchContent))
			}
			ctxpkg.Set(id, ctxpkg.TypeContent)

			if out.IsJSON() {
				return out.Success(newDetailView(d))
			}
			out.Println(mcp.FormatDetail(d))
			return nil
		}

		c, err := svc.GetContent(cmd.Context(), id)
		if err != nil {
			return fail(out, err)
		}
		ctxpkg.Set(id, ctxpkg.TypeContent)

		return printContent(out, c)
	},
}

var contentBuyCmd = &cobra.Command{
	Use:   "buy <id|this> <shares>",
	Short: "Buy shares of a piece of content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := getOutputPrinter(cmd)

		if err := requireAuth(out); err != nil {
			return err
		}

		id, _, err := ctxpkg.ResolveTarget(args[0], ctxpkg.TypeContent)
		if err != nil {
			return fail(out, err)
		}
		contentID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return fail(out, fmt.Errorf("content id must be numeric: %q", id))
		}
		shares, err := strconv.Atoi(args[1])
		if err != nil {
			return fail(out, fmt.Errorf("shares must be a whole number: %q", args[1]))
		}

		if !confirm(cmd, out, fmt.Sprintf("Buy %d shares of content %s?", shares, id)) {
			out.Println("Cancelled")
			return nil
		}

		res, err := getContentService().BuyShares(cmd.Context(), services.BuySharesRequest{
			ContentID:   contentID,
			SharesCount: shares,
		})
		if err != nil {
			return fail(out, err)
		}

		if out.IsJSON() {
			return out.Success(res)
		}
		out.Println(mcp.FormatTrade(res))
		return nil
	},
}

var contentLikeCmd = &cobra.Command{
	Use:   "like <id|this>",
	Short: "Like a piece of content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLike(cmd, args[0], true)
	},
}

var contentUnlikeCmd = &cobra.Command{
	Use:   "unlike <id|this>",
	Short: "Remove your like from a piece of content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLike(cmd, args[0], false)
	},
}

func runLike(cmd *cobra.Command, target string, like bool) error {
	out := getOutputPrinter(cmd)

	if err := requireAuth(out); err != nil {
		return err
	}

	id, _, err := ctxpkg.ResolveTarget(target, ctxpkg.TypeContent)
	if err != nil {
		return fail(out, err)
	}

	svc := getContentService()
	do := svc.Unlike
	if like {
		do = svc.Like
	}

	l, err := do(cmd.Context(), id)
	if err != nil {
		return fail(out, err)
	}

	if out.IsJSON() {
		return out.Success(l)
	}
	if !out.IsRaw() {
		out.Println(mcp.FormatLike(l))
	}
	return nil
}

func printContent(out *output.Printer, c models.Content) error {
	switch {
	case out.IsJSON():
		return out.Success(c)
	case out.IsRaw():
		out.Println(mcp.FormatContentCompact(c))
	default:
		out.Println(mcp.FormatContent(c))
	}
	return nil
}

// detailView is the JSON shape of a content detail. Failed branches are
// reported by message.
type detailView struct {
	Content     *models.Content            `json:"content"`
	Sponsorship *models.Sponsorship        `json:"sponsorship"`
	Metrics     *models.ContentMetrics     `json:"metrics"`
	Wallets     []models.Wallet            `json:"wallets"`
	IsOwner     *bool                      `json:"is_owner,omitempty"`
	Errors      map[services.Branch]string `json:"errors,omitempty"`
}

func newDetailView(d services.ContentDetail) detailView {
	v := detailView{
		Content:     d.Content,
		Sponsorship: d.Sponsorship,
		Metrics:     d.Metrics,
		Wallets:     d.Wallets,
	}
	if d.Ownership.Known() {
		owner := d.Ownership.IsOwner
		v.IsOwner = &owner
	}
	for b, err := range d.Errors {
		if v.Errors == nil {
			v.Errors = make(map[services.Branch]string, len(d.Errors))
		}
		v.Errors[b] = err.Error()
	}
	return v
}
