package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promorang/promorang-cli/pkg/models"
)

func TestWallets(t *testing.T) {
	got := Wallets(FromRaw(body(`{"wallets":[
		{"id":"w1","currency_type":"gems","balance":"12.5"},
		"garbage",
		null,
		{"id":2,"currency":"keys","balance":3},
		{}
	]}`), "wallets"))

	require.Len(t, got, 3)
	assert.Equal(t, models.Wallet{ID: "w1", CurrencyType: "gems", Balance: 12.5}, got[0])
	assert.Equal(t, models.Wallet{ID: "2", CurrencyType: "keys", Balance: 3}, got[1])
	assert.Equal(t, models.Wallet{ID: "", CurrencyType: "unknown", Balance: 0}, got[2])
}

func TestWallets_NeverNil(t *testing.T) {
	for _, in := range []string{"", "null", "{}", `{"wallets":null}`, `{"wallets":"x"}`} {
		got := Wallets(FromRaw(body(in), "wallets"))
		assert.NotNil(t, got, "input %q", in)
		assert.Empty(t, got, "input %q", in)
	}
}

func TestSponsorship(t *testing.T) {
	got := Sponsorship(FromRaw(body(`{"sponsorship":{
		"sponsors":[{"advertiser_name":"Acme"},{"advertiser_name":"Globex"}],
		"total_gems_allocated":"40"
	}}`), "sponsorship"), "7")

	assert.Equal(t, models.Sponsorship{
		ContentID:     "7",
		SponsorCount:  2,
		TotalGems:     40,
		TopSponsor:    "Acme",
		BoostMultiple: 1,
	}, got)
}

func TestSponsorship_Absent(t *testing.T) {
	got := Sponsorship(Absent, "7")
	assert.Equal(t, models.Sponsorship{ContentID: "7", BoostMultiple: 1}, got)
}

func TestSponsorship_ExplicitCountWins(t *testing.T) {
	got := Sponsorship(FromRaw(body(`{"sponsor_count":5,"sponsors":[],"boost_multiplier":1.5}`), "sponsorship"), "7")
	assert.Equal(t, int64(5), got.SponsorCount)
	assert.Equal(t, 1.5, got.BoostMultiple)
}

func TestMetrics(t *testing.T) {
	got := Metrics(FromRaw(body(`{"metrics":{"views":200,"likes":10,"comments":6,"shares":4,"holders_count":"3"}}`), "metrics"), "7")

	assert.Equal(t, int64(200), got.Views)
	assert.Equal(t, int64(3), got.HoldersCount)
	assert.InDelta(t, 10.0, got.EngagementRate, 0.0001)
}

func TestMetrics_ExplicitRateAndZeroViews(t *testing.T) {
	got := Metrics(FromRaw(body(`{"views_count":0,"likes_count":5,"engagement_rate":"2.5"}`), "metrics"), "7")
	assert.Equal(t, 2.5, got.EngagementRate)

	got = Metrics(FromRaw(body(`{"views":0,"likes":5}`), "metrics"), "7")
	assert.Equal(t, 0.0, got.EngagementRate)
	assert.Equal(t, int64(5), got.Likes)
}
