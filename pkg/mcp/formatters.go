package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/promorang/promorang-cli/pkg/identity"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/services"
)

// FormatContent formats a piece of content for text display.
func FormatContent(c models.Content) string {
	var lines []string

	title := c.Title
	if c.IsDemo {
		title += " [demo]"
	}
	lines = append(lines, fmt.Sprintf("%s (%s)", title, c.ID))

	creator := c.CreatorName
	if c.CreatorUsername != "" {
		creator = fmt.Sprintf("%s (@%s)", c.CreatorName, c.CreatorUsername)
	}
	lines = append(lines, fmt.Sprintf("By: %s on %s", creator, c.Platform))

	if c.Description != "" {
		lines = append(lines, c.Description)
	}

	// Stats
	lines = append(lines, fmt.Sprintf("Views: %d | Likes: %d | Comments: %d",
		c.ViewsCount, c.LikesCount, c.CommentsCount))
	lines = append(lines, fmt.Sprintf("Share price: %.2f | Revenue: %.2f | Shares: %d/%d available",
		c.SharePrice, c.CurrentRevenue, c.EngagementSharesRemaining, c.EngagementSharesTotal))

	var flags []string
	if c.IsSponsored {
		flags = append(flags, "sponsored")
	}
	if c.IsClaimed {
		flags = append(flags, "claimed")
	}
	if len(flags) > 0 {
		lines = append(lines, "Status: "+strings.Join(flags, ", "))
	}

	lines = append(lines, "Media: "+c.MediaURL)

	return strings.Join(lines, "\n")
}

// FormatContentCompact formats content in a compact single-line format.
func FormatContentCompact(c models.Content) string {
	title := strings.ReplaceAll(c.Title, "\n", " ")
	if len(title) > 60 {
		title = title[:57] + "..."
	}
	return fmt.Sprintf("%s: %s (%d views, %.2f/share)", c.ID, title, c.ViewsCount, c.SharePrice)
}

// FormatProfile formats a profile for text display.
func FormatProfile(p models.ProfileUser, own identity.Ownership) string {
	var lines []string

	header := "@" + p.Username
	if own.Known() && own.IsOwner {
		header += " (you)"
	}
	lines = append(lines, header)

	if p.DisplayName != "" && p.DisplayName != p.Username {
		lines = append(lines, fmt.Sprintf("Name: %s", p.DisplayName))
	}
	if p.Bio != "" {
		lines = append(lines, fmt.Sprintf("Bio: %s", p.Bio))
	}
	if p.UserType != "" {
		lines = append(lines, fmt.Sprintf("Type: %s", p.UserType))
	}

	lines = append(lines, fmt.Sprintf("ID: %s", p.ID))
	lines = append(lines, fmt.Sprintf("Level %d (%.0f%% to next)", p.Level, p.LevelProgress))
	lines = append(lines, fmt.Sprintf("Followers: %d | Following: %d", p.FollowerCount, p.FollowingCount))

	// Balances are only meaningful to their owner.
	if own.Known() && own.IsOwner {
		lines = append(lines, fmt.Sprintf("Points: %d | Keys: %d | Gems: %.2f | Gold: %d",
			p.PointsBalance, p.KeysBalance, p.GemsBalance, p.GoldCollected))
	}

	if p.CreatedAt != "" {
		lines = append(lines, fmt.Sprintf("Joined: %s", p.CreatedAt))
	}

	return strings.Join(lines, "\n")
}

// FormatWallets formats a wallet list for text display.
func FormatWallets(wallets []models.Wallet) string {
	if len(wallets) == 0 {
		return "No wallets."
	}

	sorted := append([]models.Wallet(nil), wallets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CurrencyType < sorted[j].CurrencyType
	})

	lines := make([]string, 0, len(sorted))
	for _, w := range sorted {
		lines = append(lines, fmt.Sprintf("%s: %.2f", w.CurrencyType, w.Balance))
	}
	return strings.Join(lines, "\n")
}

// FormatTrade formats the outcome of a share purchase.
func FormatTrade(t models.TradeResult) string {
	if !t.Success {
		msg := "Purchase not confirmed"
		if t.Message != "" {
			msg += ": " + t.Message
		}
		return msg
	}
	text := fmt.Sprintf("Bought %d shares of content %s", t.SharesCount, t.ContentID)
	if t.TotalCost > 0 {
		text += fmt.Sprintf(" for %.2f", t.TotalCost)
	}
	return text
}

// FormatLike formats a like or unlike result.
func FormatLike(l models.LikeState) string {
	verb := "Unliked"
	if l.Liked {
		verb = "Liked"
	}
	return fmt.Sprintf("%s content %s (%d likes)", verb, l.ContentID, l.LikesCount)
}

// FormatDetail formats a content detail view. Failed sections are reported
// inline; the others still render.
func FormatDetail(d services.ContentDetail) string {
	var sections []string

	if d.Content != nil {
		sections = append(sections, FormatContent(*d.Content))
	} else {
		sections = append(sections, unavailable(d, services.BranchContent))
	}

	sponsorship := "=== Sponsorship ===\n"
	if s := d.Sponsorship; s != nil {
		sponsorship += fmt.Sprintf("Sponsors: %d | Gems allocated: %.2f | Boost: x%.2f",
			s.SponsorCount, s.TotalGems, s.BoostMultiple)
		if s.TopSponsor != "" {
			sponsorship += "\nTop sponsor: " + s.TopSponsor
		}
	} else {
		sponsorship += unavailable(d, services.BranchSponsorship)
	}
	sections = append(sections, sponsorship)

	metrics := "=== Metrics ===\n"
	if m := d.Metrics; m != nil {
		metrics += fmt.Sprintf("Views: %d | Likes: %d | Comments: %d | Shares: %d\nEngagement: %.2f%% | Holders: %d",
			m.Views, m.Likes, m.Comments, m.Shares, m.EngagementRate, m.HoldersCount)
	} else {
		metrics += unavailable(d, services.BranchMetrics)
	}
	sections = append(sections, metrics)

	wallets := "=== Your Wallets ===\n"
	if d.Wallets != nil {
		wallets += FormatWallets(d.Wallets)
	} else {
		wallets += unavailable(d, services.BranchWallets)
	}
	sections = append(sections, wallets)

	if d.Ownership.Known() && d.Ownership.IsOwner {
		sections = append(sections, "You created this content.")
	}

	return strings.Join(sections, "\n\n")
}

func unavailable(d services.ContentDetail, b services.Branch) string {
	if err := d.Err(b); err != nil {
		return fmt.Sprintf("[%s unavailable: %v]", b, err)
	}
	return fmt.Sprintf("[%s not loaded]", b)
}
