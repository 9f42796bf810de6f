package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/promorang/promorang-cli/pkg/models"
)

// Wallets normalizes a wallet list. Items that are not objects are skipped;
// the result is never nil.
func Wallets(p Payload) []models.Wallet {
	out := []models.Wallet{}
	if !p.Present() || !p.Value.IsArray() {
		return out
	}
	p.Value.ForEach(func(_, w gjson.Result) bool {
		if !w.IsObject() {
			return true
		}
		out = append(out, models.Wallet{
			ID:           stringOr(w.Get("id"), ""),
			CurrencyType: stringOr(first(w, "currency_type", "currency"), "unknown"),
			Balance:      floatOr(w.Get("balance"), 0),
		})
		return true
	})
	return out
}

// Sponsorship normalizes the sponsorship summary of contentID.
func Sponsorship(p Payload, contentID string) models.Sponsorship {
	out := models.Sponsorship{ContentID: contentID, BoostMultiple: 1}
	raw := p.Value
	if !p.Present() || !raw.IsObject() {
		return out
	}

	sponsors := raw.Get("sponsors")
	count := int64(0)
	if sponsors.IsArray() {
		count = int64(len(sponsors.Array()))
	}

	out.SponsorCount = intOr(raw.Get("sponsor_count"), count)
	out.TotalGems = floatOr(first(raw, "total_gems_allocated", "total_gems"), 0)
	out.TopSponsor = stringOr(first(raw, "top_sponsor", "sponsors.0.advertiser_name", "sponsors.0.name"), "")
	out.BoostMultiple = floatOr(raw.Get("boost_multiplier"), 1)
	return out
}

// Metrics normalizes the engagement counters of contentID. A missing
// engagement rate is derived from the counters.
func Metrics(p Payload, contentID string) models.ContentMetrics {
	out := models.ContentMetrics{ContentID: contentID}
	raw := p.Value
	if !p.Present() || !raw.IsObject() {
		return out
	}

	out.Views = intOr(first(raw, "views", "views_count"), 0)
	out.Likes = intOr(first(raw, "likes", "likes_count"), 0)
	out.Comments = intOr(first(raw, "comments", "comments_count"), 0)
	out.Shares = intOr(first(raw, "shares", "shares_count"), 0)
	out.HoldersCount = intOr(raw.Get("holders_count"), 0)

	derived := 0.0
	if out.Views > 0 {
		derived = float64(out.Likes+out.Comments+out.Shares) / float64(out.Views) * 100
	}
	out.EngagementRate = floatOr(raw.Get("engagement_rate"), derived)
	return out
}
