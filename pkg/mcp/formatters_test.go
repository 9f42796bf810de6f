package mcp

import (
	"errors"
	"strings"
	"testing"

	"github.com/promorang/promorang-cli/pkg/identity"
	"github.com/promorang/promorang-cli/pkg/models"
	"github.com/promorang/promorang-cli/pkg/services"
)

func TestFormatContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     models.Content
		contains    []string
		notContains []string
	}{
		{
			name: "basic content",
			content: models.Content{
				ID:              "7",
				Title:           "Launch Day",
				CreatorName:     "Maya",
				CreatorUsername: "maya",
				Platform:        "instagram",
				ViewsCount:      120,
				LikesCount:      9,
				SharePrice:      1.5,
				MediaURL:        "https://cdn.promorang.co/7.jpg",
			},
			contains: []string{
				"Launch Day (7)",
				"By: Maya (@maya) on instagram",
				"Views: 120 | Likes: 9",
				"Share price: 1.50",
				"Media: https://cdn.promorang.co/7.jpg",
			},
			notContains: []string{"[demo]", "Status:"},
		},
		{
			name: "demo content",
			content: models.Content{
				ID:     "0",
				Title:  "Sample",
				IsDemo: true,
			},
			contains: []string{"Sample [demo] (0)"},
		},
		{
			name: "sponsored and claimed",
			content: models.Content{
				ID:          "3",
				IsSponsored: true,
				IsClaimed:   true,
			},
			contains: []string{"Status: sponsored, claimed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatContent(tt.content)

			for _, s := range tt.contains {
				if !strings.Contains(result, s) {
					t.Errorf("FormatContent() missing %q in:\n%s", s, result)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(result, s) {
					t.Errorf("FormatContent() should not contain %q in:\n%s", s, result)
				}
			}
		})
	}
}

func TestFormatContentCompact(t *testing.T) {
	t.Parallel()

	c := models.Content{
		ID:         "7",
		Title:      strings.Repeat("x", 80),
		ViewsCount: 5,
		SharePrice: 2,
	}

	result := FormatContentCompact(c)

	if strings.Contains(result, "\n") {
		t.Error("compact format should be a single line")
	}
	if !strings.Contains(result, strings.Repeat("x", 57)+"...") {
		t.Errorf("long title not truncated: %q", result)
	}
	if !strings.HasSuffix(result, "(5 views, 2.00/share)") {
		t.Errorf("unexpected suffix: %q", result)
	}
}

func TestFormatProfile(t *testing.T) {
	t.Parallel()

	p := models.ProfileUser{
		ID:            "u1",
		Username:      "maya",
		DisplayName:   "Maya",
		Level:         2,
		LevelProgress: 25,
		PointsBalance: 40,
		GemsBalance:   2.5,
	}

	t.Run("owner", func(t *testing.T) {
		result := FormatProfile(p, identity.Ownership{State: identity.StateResolved, IsOwner: true})

		for _, s := range []string{"@maya (you)", "Name: Maya", "Level 2 (25% to next)", "Points: 40", "Gems: 2.50"} {
			if !strings.Contains(result, s) {
				t.Errorf("FormatProfile() missing %q in:\n%s", s, result)
			}
		}
	})

	t.Run("other user", func(t *testing.T) {
		result := FormatProfile(p, identity.Ownership{State: identity.StateResolved})

		if strings.Contains(result, "(you)") || strings.Contains(result, "Points:") {
			t.Errorf("non-owner view leaks owner fields:\n%s", result)
		}
	})

	t.Run("unknown ownership", func(t *testing.T) {
		result := FormatProfile(p, identity.Ownership{IsOwner: true})

		if strings.Contains(result, "(you)") || strings.Contains(result, "Points:") {
			t.Errorf("unresolved ownership rendered as owner:\n%s", result)
		}
	})
}

func TestFormatWallets(t *testing.T) {
	t.Parallel()

	if got := FormatWallets(nil); got != "No wallets." {
		t.Errorf("FormatWallets(nil) = %q", got)
	}

	wallets := []models.Wallet{
		{ID: "w2", CurrencyType: "points", Balance: 10},
		{ID: "w1", CurrencyType: "gems", Balance: 2.25},
	}
	if got := FormatWallets(wallets); got != "gems: 2.25\npoints: 10.00" {
		t.Errorf("FormatWallets() = %q", got)
	}
	if wallets[0].ID != "w2" {
		t.Error("FormatWallets() reordered its input")
	}
}

func TestFormatTrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		trade models.TradeResult
		want  string
	}{
		{
			name:  "confirmed",
			trade: models.TradeResult{Success: true, ContentID: "42", SharesCount: 3},
			want:  "Bought 3 shares of content 42",
		},
		{
			name:  "confirmed with cost",
			trade: models.TradeResult{Success: true, ContentID: "42", SharesCount: 3, TotalCost: 7.5},
			want:  "Bought 3 shares of content 42 for 7.50",
		},
		{
			name:  "not confirmed",
			trade: models.TradeResult{ContentID: "42", SharesCount: 3, Message: "sold out"},
			want:  "Purchase not confirmed: sold out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTrade(tt.trade); got != tt.want {
				t.Errorf("FormatTrade() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLike(t *testing.T) {
	t.Parallel()

	if got := FormatLike(models.LikeState{ContentID: "7", Liked: true, LikesCount: 11}); got != "Liked content 7 (11 likes)" {
		t.Errorf("FormatLike() = %q", got)
	}
	if got := FormatLike(models.LikeState{ContentID: "7", LikesCount: 10}); got != "Unliked content 7 (10 likes)" {
		t.Errorf("FormatLike() = %q", got)
	}
}

func TestFormatDetail(t *testing.T) {
	t.Parallel()

	d := services.ContentDetail{
		ContentID:   "7",
		Content:     &models.Content{ID: "7", Title: "Drop"},
		Sponsorship: &models.Sponsorship{SponsorCount: 2, BoostMultiple: 1, TopSponsor: "Acme"},
		Wallets:     []models.Wallet{},
		Ownership:   identity.Ownership{State: identity.StateResolved, IsOwner: true},
		Errors: map[services.Branch]error{
			services.BranchMetrics: errors.New("metrics unavailable"),
		},
	}

	result := FormatDetail(d)

	for _, s := range []string{
		"Drop (7)",
		"=== Sponsorship ===\nSponsors: 2",
		"Top sponsor: Acme",
		"=== Metrics ===\n[metrics unavailable: metrics unavailable]",
		"=== Your Wallets ===\nNo wallets.",
		"You created this content.",
	} {
		if !strings.Contains(result, s) {
			t.Errorf("FormatDetail() missing %q in:\n%s", s, result)
		}
	}
}

func TestFormatDetail_Pending(t *testing.T) {
	t.Parallel()

	result := FormatDetail(services.ContentDetail{ContentID: "7"})

	for _, s := range []string{"[content not loaded]", "[wallets not loaded]"} {
		if !strings.Contains(result, s) {
			t.Errorf("FormatDetail() missing %q in:\n%s", s, result)
		}
	}
	if strings.Contains(result, "You created this content.") {
		t.Error("pending detail should not claim ownership")
	}
}
