// Package models defines the normalized view models shared by the services,
// the CLI and the MCP server.
package models

import (
	"encoding/json"
)

// Content is the normalized content view model. Every field is populated;
// fields the server omitted carry deterministic fallbacks.
type Content struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"media_url"`
	Platform    string `json:"platform"`
	PlatformURL string `json:"platform_url"`
	Status      string `json:"status"`

	CreatorID       string `json:"creator_id"`
	CreatorName     string `json:"creator_name"`
	CreatorUsername string `json:"creator_username"`
	CreatorAvatar   string `json:"creator_avatar"`

	ViewsCount    int64 `json:"views_count"`
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
	SponsorCount  int64 `json:"sponsor_count"`

	SharePrice                float64 `json:"share_price"`
	CurrentRevenue            float64 `json:"current_revenue"`
	TotalShares               int64   `json:"total_shares"`
	EngagementSharesTotal     int64   `json:"engagement_shares_total"`
	EngagementSharesRemaining int64   `json:"engagement_shares_remaining"`

	IsDemo      bool `json:"is_demo"`
	IsSponsored bool `json:"is_sponsored"`
	IsClaimed   bool `json:"is_claimed"`

	CreatedAt string `json:"created_at"`

	// Extra keeps raw fields that have no typed counterpart.
	Extra map[string]json.RawMessage `json:"-"`
}

type contentAlias Content

// MarshalJSON emits the raw extra fields overlaid with the typed fields.
func (c Content) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(contentAlias(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return typed, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(typed, &fields); err != nil {
		return nil, err
	}
	merged := make(map[string]json.RawMessage, len(c.Extra)+len(fields))
	for k, v := range c.Extra {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// SessionUser is the authenticated "me" shape returned by /api/users/me and
// stored in the local session.
type SessionUser struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name"`
	AvatarURL   string       `json:"avatar_url"`
	Role        string       `json:"role"`
	Balances    UserBalances `json:"balances"`
	Level       int64        `json:"level"`
	XP          int64        `json:"xp"`
	CreatedAt   string       `json:"created_at"`
}

// UserBalances holds the currency balances of the "me" shape.
type UserBalances struct {
	Points int64   `json:"points"`
	Keys   int64   `json:"keys"`
	Gems   float64 `json:"gems"`
	Gold   int64   `json:"gold"`
}

// LegacyUser is the public-profile shape returned by /api/users/{id}.
type LegacyUser struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	DisplayName    string  `json:"display_name"`
	AvatarURL      string  `json:"avatar_url"`
	Bio            string  `json:"bio"`
	UserType       string  `json:"user_type"`
	UserTier       string  `json:"user_tier"`
	PointsBalance  int64   `json:"points_balance"`
	KeysBalance    int64   `json:"keys_balance"`
	GemsBalance    float64 `json:"gems_balance"`
	GoldCollected  int64   `json:"gold_collected"`
	Level          int64   `json:"level"`
	XPPoints       int64   `json:"xp_points"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	CreatedAt      string  `json:"created_at"`
}

// ProfileUser is the single profile shape produced from either SessionUser or
// LegacyUser.
type ProfileUser struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	DisplayName    string  `json:"display_name"`
	AvatarURL      string  `json:"avatar_url"`
	Bio            string  `json:"bio"`
	Email          string  `json:"email"`
	UserType       string  `json:"user_type"`
	UserTier       string  `json:"user_tier"`
	Level          int64   `json:"level"`
	XP             int64   `json:"xp"`
	LevelProgress  float64 `json:"level_progress"`
	PointsBalance  int64   `json:"points_balance"`
	KeysBalance    int64   `json:"keys_balance"`
	GemsBalance    float64 `json:"gems_balance"`
	GoldCollected  int64   `json:"gold_collected"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	CreatedAt      string  `json:"created_at"`
}

// Wallet is one currency balance of the viewer.
type Wallet struct {
	ID           string  `json:"id"`
	CurrencyType string  `json:"currency_type"`
	Balance      float64 `json:"balance"`
}

// Sponsorship summarizes the sponsors of a piece of content.
type Sponsorship struct {
	ContentID     string  `json:"content_id"`
	SponsorCount  int64   `json:"sponsor_count"`
	TotalGems     float64 `json:"total_gems_allocated"`
	TopSponsor    string  `json:"top_sponsor"`
	BoostMultiple float64 `json:"boost_multiplier"`
}

// ContentMetrics are the engagement counters of a piece of content.
type ContentMetrics struct {
	ContentID      string  `json:"content_id"`
	Views          int64   `json:"views"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	Shares         int64   `json:"shares"`
	EngagementRate float64 `json:"engagement_rate"`
	HoldersCount   int64   `json:"holders_count"`
}

// TradeResult is the outcome of a share purchase.
type TradeResult struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message,omitempty"`
	ContentID   string  `json:"content_id"`
	SharesCount int64   `json:"shares_count"`
	TotalCost   float64 `json:"total_cost"`
}

// LikeState is the like status of a piece of content after a like or unlike.
type LikeState struct {
	ContentID  string `json:"content_id"`
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likes_count"`
}
