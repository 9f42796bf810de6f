package normalize

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(s string) *json.RawMessage {
	m := json.RawMessage(s)
	return &m
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
		want Kind
	}{
		{"empty", "", "content", KindAbsent},
		{"invalid", "{not json", "content", KindAbsent},
		{"null", "null", "content", KindAbsent},
		{"scalar", `"hello"`, "content", KindAbsent},
		{"raw object", `{"id":1,"title":"x"}`, "content", KindRaw},
		{"wrapped", `{"content":{"id":1}}`, "content", KindWrapped},
		{"data wrapper", `{"data":{"id":1}}`, "content", KindWrapped},
		{"wrapped null", `{"content":null}`, "content", KindAbsent},
		{"wrapped null with siblings", `{"content":null,"success":false}`, "content", KindAbsent},
		{"data null with siblings", `{"data":null,"message":"gone"}`, "content", KindAbsent},
		{"text field named like wrapper", `{"id":1,"content":"caption text"}`, "content", KindRaw},
		{"array", `[{"id":1}]`, "wallets", KindRaw},
		{"wrapped array", `{"wallets":[{"id":1}]}`, "wallets", KindWrapped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unwrap([]byte(tt.body), tt.key)
			assert.Equal(t, tt.want, got.Kind, "kind = %s", got.Kind)
		})
	}
}

func TestSeedFor(t *testing.T) {
	assert.Equal(t, int64(7), SeedFor("7"))
	assert.Equal(t, int64(-3), SeedFor(" -3 "))
	assert.Equal(t, PlaceholderSeed, SeedFor(""))
	assert.Equal(t, SeedFor("abc"), SeedFor("abc"))
	assert.NotEqual(t, SeedFor("abc"), SeedFor("abd"))
	assert.GreaterOrEqual(t, SeedFor("abc"), int64(0))
}

func TestAbsMod(t *testing.T) {
	assert.Equal(t, int64(2), absMod(7, 5))
	assert.Equal(t, int64(2), absMod(-7, 5))
	assert.Equal(t, int64(0), absMod(0, 5))
	assert.GreaterOrEqual(t, absMod(math.MinInt64, 5), int64(0))
	assert.Less(t, absMod(math.MinInt64, 5), int64(5))
}

func TestContent_FallbackIsDeterministic(t *testing.T) {
	for _, id := range []string{"7", "abc", "", "-42", "9223372036854775807"} {
		a, err := json.Marshal(ContentFromBody(nil, id))
		require.NoError(t, err)
		b, err := json.Marshal(ContentFromBody(body("null"), id))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "id %q", id)
	}
}

func TestContent_NeverPanics(t *testing.T) {
	inputs := []*json.RawMessage{
		nil,
		body(""),
		body("null"),
		body("{}"),
		body(`{"content":{"title":{"nested":["x"]},"views_count":{"a":1},"media_url":42}}`),
		body(`{"title":null,"likes_count":[1,2],"is_claimed":"maybe"}`),
		body(`[1,2,3]`),
		body(`{"id":42,"title":"Full","description":"d","media_url":"https://cdn.promorang.co/a.jpg",
			"views_count":10,"likes_count":2,"share_price":"1.25","status":"published"}`),
	}

	for i, in := range inputs {
		assert.NotPanics(t, func() {
			c := ContentFromBody(in, "99")
			assertNumericSafe(t, c)
		}, "input %d", i)
	}
}

func TestContent_TitleOnlyUsesFallbackForEverythingElse(t *testing.T) {
	got := ContentFromBody(body(`{"title":"Hi"}`), "7")

	want := FallbackContent(7)
	want.ID = "7"
	want.Title = "Hi"

	assert.Equal(t, want, got)
	assert.Equal(t, fallbackImages[7%5], got.MediaURL)
	assert.Equal(t, int64(1000+7%500), got.ViewsCount)
	assert.Equal(t, int64(100+7%250), got.LikesCount)
}

func TestContent_Coercion(t *testing.T) {
	got := ContentFromBody(body(`{"content":{
		"id": 42,
		"views_count": "1500",
		"likes_count": "not a number",
		"comments_count": 3.9,
		"share_price": "2.5",
		"current_revenue": "NaN",
		"total_shares": true,
		"is_sponsored": "true",
		"media_url": "javascript:alert(1)",
		"creator_avatar": "HTTPS://cdn.promorang.co/u.png"
	}}`), "42")

	fb := FallbackContent(42)
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, int64(1500), got.ViewsCount)
	assert.Equal(t, fb.LikesCount, got.LikesCount)
	assert.Equal(t, int64(3), got.CommentsCount)
	assert.Equal(t, 2.5, got.SharePrice)
	assert.Equal(t, fb.CurrentRevenue, got.CurrentRevenue)
	assert.Equal(t, int64(1), got.TotalShares)
	assert.True(t, got.IsSponsored)
	assert.Equal(t, fb.MediaURL, got.MediaURL)
	assert.Equal(t, "HTTPS://cdn.promorang.co/u.png", got.CreatorAvatar)
	assertNumericSafe(t, got)
}

func TestContent_MediaURLAlternates(t *testing.T) {
	got := ContentFromBody(body(`{"image_url":"https://cdn.promorang.co/i.jpg"}`), "1")
	assert.Equal(t, "https://cdn.promorang.co/i.jpg", got.MediaURL)

	got = ContentFromBody(body(`{"media_url":"ftp://cdn.promorang.co/i.jpg"}`), "1")
	assert.Equal(t, FallbackImage(1), got.MediaURL)
}

func TestContent_ClaimedDerivation(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"is_claimed":true,"status":"draft"}`, true},
		{`{"is_claimed":false,"status":"published"}`, false},
		{`{"status":"published"}`, true},
		{`{"status":"draft"}`, false},
		{`{}`, false},
	}

	for _, tt := range tests {
		got := ContentFromBody(body(tt.body), "5")
		assert.Equal(t, tt.want, got.IsClaimed, tt.body)
	}
}

func TestContent_SponsoredDerivation(t *testing.T) {
	assert.True(t, ContentFromBody(body(`{"sponsor_count":2}`), "1").IsSponsored)
	assert.False(t, ContentFromBody(body(`{"sponsor_count":0}`), "1").IsSponsored)
	assert.False(t, ContentFromBody(body(`{"is_sponsored":false,"sponsor_count":3}`), "1").IsSponsored)
}

func TestContent_KeepsExtraFields(t *testing.T) {
	got := ContentFromBody(body(`{"id":"c1","title":"T","hashtags":["#a"],"creator":{"username":"maya"}}`), "c1")

	assert.Equal(t, "maya", got.CreatorUsername)
	require.Contains(t, got.Extra, "hashtags")

	out, err := json.Marshal(got)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []any{"#a"}, decoded["hashtags"])
	assert.Equal(t, "T", decoded["title"])
	assert.Contains(t, decoded, "views_count")
}

func TestContent_ExtraCannotShadowTypedFields(t *testing.T) {
	c := FallbackContent(3)
	c.Extra = map[string]json.RawMessage{"title": json.RawMessage(`"shadow"`)}

	out, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, c.Title, decoded["title"])
}

// assertNumericSafe checks every float field of v is finite.
func assertNumericSafe(t *testing.T, v any) {
	t.Helper()
	rv := reflect.ValueOf(v)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.Float64 {
			x := f.Float()
			assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), "%s = %v", rv.Type().Field(i).Name, x)
		}
	}
}
