package normalize

import (
	"encoding/json"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/promorang/promorang-cli/pkg/models"
)

// PlaceholderSeed seeds content that has no identifier at all.
const PlaceholderSeed int64 = 0

var fallbackImages = []string{
	"https://images.unsplash.com/photo-1611162617474-5b21e879e113?w=1200",
	"https://images.unsplash.com/photo-1611605698335-8b1569810432?w=1200",
	"https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?w=1200",
	"https://images.unsplash.com/photo-1557838923-2985c318be48?w=1200",
	"https://images.unsplash.com/photo-1533750349088-cd871a92f312?w=1200",
}

var fallbackTitles = []string{
	"Behind the scenes of a viral drop",
	"Creator spotlight: weekly highlights",
	"Top moments from the community",
	"Fresh campaign teaser",
	"Trending now on Promorang",
}

var fallbackPlatforms = []string{"instagram", "tiktok", "youtube", "twitter"}

const (
	fallbackAvatar      = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=200"
	fallbackCreatedAt   = "2024-01-01T00:00:00Z"
	fallbackTotalShares = 100
	fallbackEngagement  = 50
)

// SeedFor derives the fallback seed of an identifier. Numeric ids seed with
// their value, other ids with their FNV-1a hash, and the empty id with
// PlaceholderSeed.
func SeedFor(id string) int64 {
	id = strings.TrimSpace(id)
	if id == "" {
		return PlaceholderSeed
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return int64(h.Sum32())
}

// FallbackImage returns the placeholder image for seed.
func FallbackImage(seed int64) string {
	return fallbackImages[absMod(seed, int64(len(fallbackImages)))]
}

// FallbackContent builds the placeholder record for seed. It is a pure
// function of seed.
func FallbackContent(seed int64) models.Content {
	return models.Content{
		ID:          "demo-" + strconv.FormatInt(seed, 10),
		Title:       fallbackTitles[absMod(seed, int64(len(fallbackTitles)))],
		Description: "Preview content shown while the live record is unavailable.",
		MediaURL:    FallbackImage(seed),
		Platform:    fallbackPlatforms[absMod(seed, int64(len(fallbackPlatforms)))],
		PlatformURL: "",
		Status:      "demo",

		CreatorID:       "",
		CreatorName:     "Promorang Creator",
		CreatorUsername: "promorang",
		CreatorAvatar:   fallbackAvatar,

		ViewsCount:    1000 + absMod(seed, 500),
		LikesCount:    100 + absMod(seed, 250),
		CommentsCount: 10 + absMod(seed, 50),
		SponsorCount:  0,

		SharePrice:                1 + float64(absMod(seed, 20))*0.05,
		CurrentRevenue:            float64(absMod(seed, 100)) * 1.5,
		TotalShares:               fallbackTotalShares,
		EngagementSharesTotal:     fallbackEngagement,
		EngagementSharesRemaining: fallbackEngagement - absMod(seed, fallbackEngagement),

		IsDemo:      true,
		IsSponsored: false,
		IsClaimed:   false,

		CreatedAt: fallbackCreatedAt,
	}
}

// contentKeys are the raw fields mapped onto typed Content fields; all other
// raw fields are kept in Content.Extra.
var contentKeys = map[string]bool{
	"id": true, "title": true, "description": true, "media_url": true,
	"image_url": true, "thumbnail_url": true, "platform": true,
	"platform_url": true, "status": true, "creator_id": true,
	"creator_name": true, "creator_username": true, "creator_avatar": true,
	"views_count": true, "likes_count": true, "comments_count": true,
	"sponsor_count": true, "share_price": true, "current_revenue": true,
	"total_shares": true, "engagement_shares_total": true,
	"engagement_shares_remaining": true, "is_demo": true,
	"is_sponsored": true, "is_claimed": true, "created_at": true,
}

// ContentFromBody normalizes a content response body for the requested id.
func ContentFromBody(body *json.RawMessage, id string) models.Content {
	return Content(FromRaw(body, "content"), id)
}

// Content normalizes a content payload. id is the requested identifier and
// seeds the fallback record; it may be empty for synthetic placeholders.
func Content(p Payload, id string) models.Content {
	seed := SeedFor(id)
	fb := FallbackContent(seed)
	if strings.TrimSpace(id) != "" {
		fb.ID = id
	}

	raw := p.Value
	if !p.Present() || !raw.IsObject() {
		return fb
	}

	out := models.Content{
		ID:          stringOr(raw.Get("id"), fb.ID),
		Title:       stringOr(raw.Get("title"), fb.Title),
		Description: stringOr(raw.Get("description"), fb.Description),
		MediaURL:    urlOr(first(raw, "media_url", "image_url", "thumbnail_url"), fb.MediaURL),
		Platform:    stringOr(raw.Get("platform"), fb.Platform),
		PlatformURL: stringOr(raw.Get("platform_url"), fb.PlatformURL),
		Status:      stringOr(raw.Get("status"), fb.Status),

		CreatorID:       stringOr(first(raw, "creator_id", "creator.id"), fb.CreatorID),
		CreatorName:     stringOr(first(raw, "creator_name", "creator.display_name", "creator.username"), fb.CreatorName),
		CreatorUsername: stringOr(first(raw, "creator_username", "creator.username"), fb.CreatorUsername),
		CreatorAvatar:   urlOr(first(raw, "creator_avatar", "creator.avatar_url"), fb.CreatorAvatar),

		ViewsCount:    intOr(raw.Get("views_count"), fb.ViewsCount),
		LikesCount:    intOr(raw.Get("likes_count"), fb.LikesCount),
		CommentsCount: intOr(raw.Get("comments_count"), fb.CommentsCount),
		SponsorCount:  intOr(raw.Get("sponsor_count"), fb.SponsorCount),

		SharePrice:                floatOr(raw.Get("share_price"), fb.SharePrice),
		CurrentRevenue:            floatOr(raw.Get("current_revenue"), fb.CurrentRevenue),
		TotalShares:               intOr(raw.Get("total_shares"), fb.TotalShares),
		EngagementSharesTotal:     intOr(raw.Get("engagement_shares_total"), fb.EngagementSharesTotal),
		EngagementSharesRemaining: intOr(raw.Get("engagement_shares_remaining"), fb.EngagementSharesRemaining),

		IsDemo:      boolOr(raw.Get("is_demo"), fb.IsDemo),
		IsSponsored: sponsored(raw, fb.IsSponsored),
		IsClaimed:   claimed(raw, fb.IsClaimed),

		CreatedAt: stringOr(raw.Get("created_at"), fb.CreatedAt),
	}

	raw.ForEach(func(key, value gjson.Result) bool {
		if contentKeys[key.String()] {
			return true
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[key.String()] = json.RawMessage(value.Raw)
		return true
	})

	return out
}

// claimed prefers the explicit flag, then a published status.
func claimed(raw gjson.Result, fallback bool) bool {
	if flag := raw.Get("is_claimed"); present(flag) {
		return boolOr(flag, fallback)
	}
	if status := raw.Get("status"); status.Type == gjson.String {
		return status.Str == "published"
	}
	return fallback
}

// sponsored prefers the explicit flag, then a positive sponsor count.
func sponsored(raw gjson.Result, fallback bool) bool {
	if flag := raw.Get("is_sponsored"); present(flag) {
		return boolOr(flag, fallback)
	}
	if n, ok := number(raw.Get("sponsor_count")); ok {
		return n > 0
	}
	return fallback
}
