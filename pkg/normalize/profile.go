package normalize

import (
	"encoding/json"
	"math"

	"github.com/tidwall/gjson"

	"github.com/promorang/promorang-cli/pkg/models"
)

// XPPerLevel is the experience needed per level step.
const XPPerLevel = 1000

// SessionUser reads the authenticated "me" shape. Missing numbers are 0 and
// missing strings are empty.
func SessionUser(p Payload) models.SessionUser {
	raw := p.Value
	if !p.Present() || !raw.IsObject() {
		return models.SessionUser{}
	}
	return models.SessionUser{
		ID:          stringOr(raw.Get("id"), ""),
		Email:       stringOr(raw.Get("email"), ""),
		Username:    stringOr(raw.Get("username"), ""),
		DisplayName: stringOr(first(raw, "display_name", "name"), ""),
		AvatarURL:   urlOr(first(raw, "avatar_url", "avatar"), ""),
		Role:        stringOr(first(raw, "role", "user_type"), ""),
		Balances: models.UserBalances{
			Points: intOr(raw.Get("balances.points"), 0),
			Keys:   intOr(raw.Get("balances.keys"), 0),
			Gems:   floatOr(raw.Get("balances.gems"), 0),
			Gold:   intOr(raw.Get("balances.gold"), 0),
		},
		Level:     intOr(raw.Get("level"), 0),
		XP:        intOr(first(raw, "xp", "xp_points"), 0),
		CreatedAt: stringOr(raw.Get("created_at"), ""),
	}
}

// LegacyUser reads the public-profile shape.
func LegacyUser(p Payload) models.LegacyUser {
	raw := p.Value
	if !p.Present() || !raw.IsObject() {
		return models.LegacyUser{}
	}
	return models.LegacyUser{
		ID:             stringOr(raw.Get("id"), ""),
		Username:       stringOr(raw.Get("username"), ""),
		DisplayName:    stringOr(raw.Get("display_name"), ""),
		AvatarURL:      urlOr(raw.Get("avatar_url"), ""),
		Bio:            stringOr(raw.Get("bio"), ""),
		UserType:       stringOr(raw.Get("user_type"), ""),
		UserTier:       stringOr(raw.Get("user_tier"), ""),
		PointsBalance:  intOr(raw.Get("points_balance"), 0),
		KeysBalance:    intOr(raw.Get("keys_balance"), 0),
		GemsBalance:    floatOr(raw.Get("gems_balance"), 0),
		GoldCollected:  intOr(raw.Get("gold_collected"), 0),
		Level:          intOr(raw.Get("level"), 0),
		XPPoints:       intOr(raw.Get("xp_points"), 0),
		FollowerCount:  intOr(first(raw, "follower_count", "followers_count"), 0),
		FollowingCount: intOr(raw.Get("following_count"), 0),
		CreatedAt:      stringOr(raw.Get("created_at"), ""),
	}
}

// AdaptSessionUser maps the "me" shape onto ProfileUser.
func AdaptSessionUser(u models.SessionUser) models.ProfileUser {
	return models.ProfileUser{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    displayName(u.DisplayName, u.Username),
		AvatarURL:      u.AvatarURL,
		Bio:            "",
		Email:          u.Email,
		UserType:       u.Role,
		UserTier:       "",
		Level:          u.Level,
		XP:             u.XP,
		LevelProgress:  LevelProgress(u.Level, u.XP),
		PointsBalance:  u.Balances.Points,
		KeysBalance:    u.Balances.Keys,
		GemsBalance:    u.Balances.Gems,
		GoldCollected:  u.Balances.Gold,
		FollowerCount:  0,
		FollowingCount: 0,
		CreatedAt:      u.CreatedAt,
	}
}

// AdaptLegacyUser maps the public-profile shape onto ProfileUser.
func AdaptLegacyUser(u models.LegacyUser) models.ProfileUser {
	return models.ProfileUser{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    displayName(u.DisplayName, u.Username),
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
		Email:          "",
		UserType:       u.UserType,
		UserTier:       u.UserTier,
		Level:          u.Level,
		XP:             u.XPPoints,
		LevelProgress:  LevelProgress(u.Level, u.XPPoints),
		PointsBalance:  u.PointsBalance,
		KeysBalance:    u.KeysBalance,
		GemsBalance:    u.GemsBalance,
		GoldCollected:  u.GoldCollected,
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
	}
}

// IsSessionShape reports whether a user record looks like the "me" shape.
func IsSessionShape(raw gjson.Result) bool {
	return raw.Get("balances").IsObject() || raw.Get("xp").Exists() || raw.Get("role").Exists()
}

// Profile normalizes a user payload of either shape.
func Profile(p Payload) models.ProfileUser {
	if p.Present() && IsSessionShape(p.Value) {
		return AdaptSessionUser(SessionUser(p))
	}
	return AdaptLegacyUser(LegacyUser(p))
}

// ProfileFromBody normalizes a user response body.
func ProfileFromBody(body *json.RawMessage) models.ProfileUser {
	return Profile(FromRaw(body, "user"))
}

// SessionUserFromBody reads a /api/users/me response body.
func SessionUserFromBody(body *json.RawMessage) models.SessionUser {
	return SessionUser(FromRaw(body, "user"))
}

// LevelProgress is the percentage towards the next level, in [0, 100].
func LevelProgress(level, xp int64) float64 {
	if level < 1 {
		level = 1
	}
	if xp <= 0 {
		return 0
	}
	target := float64(level) * XPPerLevel
	pct := float64(xp) / target * 100
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	return math.Min(pct, 100)
}

func displayName(name, username string) string {
	if name != "" {
		return name
	}
	return username
}
