package normalize

import (
	"github.com/promorang/promorang-cli/pkg/models"
)

// TradeResult normalizes a buy-shares response. The requested values are used
// when the server does not echo them.
func TradeResult(p Payload, contentID string, shares int64) models.TradeResult {
	out := models.TradeResult{ContentID: contentID, SharesCount: shares}
	raw := p.Value
	if !p.Present() || !raw.IsObject() {
		return out
	}
	out.Success = boolOr(raw.Get("success"), false)
	out.Message = stringOr(raw.Get("message"), "")
	out.ContentID = stringOr(raw.Get("content_id"), contentID)
	out.SharesCount = intOr(first(raw, "shares_count", "shares"), shares)
	out.TotalCost = floatOr(first(raw, "total_cost", "cost"), 0)
	return out
}

// LikeState normalizes a like or unlike response. liked is the state the
// request asked for and wins when the server does not report one.
func LikeState(p Payload, contentID string, liked bool) models.LikeState {
	out := models.LikeState{ContentID: contentID, Liked: liked}
	raw := p.Value
	if !p.Present() || !raw.IsObject() {
		return out
	}
	out.Liked = boolOr(first(raw, "liked", "is_liked"), liked)
	out.LikesCount = intOr(first(raw, "likes_count", "likes"), 0)
	return out
}
