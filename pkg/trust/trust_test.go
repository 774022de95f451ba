package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.nordstrom.com/s/silk-dress/123", "nordstrom.com"},
		{"https://shop.nordstrom.com/x", "nordstrom.com"},
		{"https://www.amazon.co.uk/dp/B0001", "amazon.co.uk"},
		{"http://WWW.Zara.COM/", "zara.com"},
		{"https://someone.blogspot.com/post", "someone.blogspot.com"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, RootDomain(tt.url))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	set := toSet([]string{"blogspot.com", "abcnews.go.com"})

	assert.True(t, MatchesAny("blogspot.com", set))
	assert.True(t, MatchesAny("someone.blogspot.com", set))
	assert.True(t, MatchesAny("ABCNEWS.go.com", set))
	assert.False(t, MatchesAny("go.com", set))
	assert.False(t, MatchesAny("notblogspot.com", set))
	assert.False(t, MatchesAny("", set))
}

func TestClassifyAndCap(t *testing.T) {
	table := Default()

	tests := []struct {
		domain string
		tier   Tier
		cap    int
	}{
		{"nordstrom.com", TierTier1, 7},
		{"amazon.co.uk", TierMarketplace, 1},
		{"lyst.com", TierAggregator, 1},
		{"zara.com", TierTrustedRetail, 5},
		{"tinyboutique.com", TierOther, 3},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.tier, table.Classify(tt.domain))
			assert.Equal(t, tt.cap, table.Cap(tt.domain))
		})
	}

	assert.True(t, table.IsBanned("pinterest.com"))
	assert.True(t, table.IsTrusted("etsy.com"))
	assert.False(t, table.IsTrusted("pinterest.com"))
	assert.Equal(t, "marketplace", TierMarketplace.String())
}

func TestNewRejectsOverlappingTiers(t *testing.T) {
	_, err := New(Lists{
		Tier1:       []string{"shop.com"},
		Marketplace: []string{"Shop.com"},
	}, DefaultCaps())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop.com")
}

func TestNewRejectsNonPositiveCaps(t *testing.T) {
	caps := DefaultCaps()
	caps.Other = 0

	_, err := New(Lists{}, caps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "other")
}

func TestDefaultListsAreDisjoint(t *testing.T) {
	table := Default()
	require.NoError(t, table.Validate())

	lists := table.Lists()
	assert.Contains(t, lists.Tier1, "ssense.com")
	assert.True(t, len(lists.Banned) > 100)
	assert.IsIncreasing(t, lists.Marketplace)
}
