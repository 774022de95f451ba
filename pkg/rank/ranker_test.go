package rank

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/lookfinder/pkg/trust"
	"github.com/menta2k/lookfinder/pkg/types"
)

func result(url, name string, price float64) types.NormalizedResult {
	return types.NormalizedResult{ID: url, ProductName: name, Price: price, PurchaseURL: url, Confidence: 0.75}
}

func urls(rs []types.NormalizedResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.PurchaseURL
	}
	return out
}

func countByDomain(rs []types.NormalizedResult) map[string]int {
	counts := make(map[string]int)
	for _, r := range rs {
		counts[trust.RootDomain(r.PurchaseURL)]++
	}
	return counts
}

func TestFashionScore(t *testing.T) {
	r := New(trust.Default())

	tests := []struct {
		name string
		res  types.NormalizedResult
		want float64
	}{
		{"other domain", result("https://tinyboutique.com/x", "Wrap top", 0), 0.75},
		{"tier1 silk priced", result("https://www.nordstrom.com/s/1", "Silk blouse", 89), 0.75 * 1.15 * 1.06 * 1.02},
		{"marketplace", result("https://www.amazon.com/dp/B01", "Wrap top", 0), 0.75 * 0.88},
		{"aggregator", result("https://www.lyst.com/clothing/x", "Wrap top", 0), 0.75 * 0.90},
		{"all styles", result("https://tinyboutique.com/x", "Silk satin lace midi slip", 0), 0.75 * 1.06 * 1.06 * 1.08 * 1.03 * 1.04},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.FashionScore(tt.res), 1e-9)
		})
	}
}

func TestLooksLikePDP(t *testing.T) {
	assert.True(t, LooksLikePDP("https://shop.com/products/wrap-top", "Wrap top"))
	assert.True(t, LooksLikePDP("https://www.amazon.com/dp/B01", ""))
	assert.True(t, LooksLikePDP("https://shop.com/shop/top-123", ""))
	assert.True(t, LooksLikePDP("https://shop.com/a", "Satin Slip"))
	assert.False(t, LooksLikePDP("https://shop.com/women/tops", "Wrap top"))
}

func TestLooksLikeCollection(t *testing.T) {
	assert.True(t, LooksLikeCollection("https://shop.com/x", "Women's Dresses | Shop"))
	assert.True(t, LooksLikeCollection("https://shop.com/collections/summer", ""))
	assert.True(t, LooksLikeCollection("https://shop.com/women/", ""))
	assert.True(t, LooksLikeCollection("https://shop.com/sale", ""))
	assert.True(t, LooksLikeCollection("https://shop.com/dresses/index.html", ""))
	assert.False(t, LooksLikeCollection("https://shop.com/products/wrap-dress", "Wrap Dress"))
	assert.False(t, LooksLikeCollection("https://shop.com/x", "Dresses"))
}

func TestRankAndDedupeCapsPerTier(t *testing.T) {
	var in []types.NormalizedResult
	for _, d := range []string{"amazon.com", "ebay.com", "etsy.com"} {
		for i := range 2 {
			in = append(in, result(fmt.Sprintf("https://www.%s/listing/%d", d, i), "Wrap dress", 0))
		}
	}
	for i := range 9 {
		in = append(in, result(fmt.Sprintf("https://www.nordstrom.com/s/%d", i), "Wrap dress", 0))
	}
	for i := range 5 {
		in = append(in, result(fmt.Sprintf("https://www.ssense.com/s/%d", i), "Wrap dress", 0))
	}
	require.Len(t, in, 20)

	out := New(trust.Default()).RankAndDedupe(in)

	counts := countByDomain(out)
	assert.Equal(t, 1, counts["amazon.com"])
	assert.Equal(t, 1, counts["ebay.com"])
	assert.Equal(t, 1, counts["etsy.com"])
	assert.Equal(t, 7, counts["nordstrom.com"])
	assert.Equal(t, 5, counts["ssense.com"])
	assert.Len(t, out, 15)
}

func TestRankAndDedupeNeverExceedsCaps(t *testing.T) {
	table := trust.Default()
	r := New(table)
	domains := []string{"amazon.com", "lyst.com", "nordstrom.com", "zara.com", "tinyboutique.com", "another.shop"}
	paths := []string{"/products/", "/women/", "/p/", "/collections/", "/x/"}
	titles := []string{"Silk dress", "Wrap top", "Lace skirt", "Jeans"}
	rng := rand.New(rand.NewSource(7))

	for round := range 50 {
		n := rng.Intn(80)
		in := make([]types.NormalizedResult, n)
		for i := range in {
			url := fmt.Sprintf("https://%s%s%d", domains[rng.Intn(len(domains))], paths[rng.Intn(len(paths))], rng.Intn(40))
			in[i] = result(url, titles[rng.Intn(len(titles))], float64(rng.Intn(2)*50))
		}

		out := r.RankAndDedupe(in)
		for d, c := range countByDomain(out) {
			assert.LessOrEqual(t, c, table.Cap(d), "round %d domain %s", round, d)
		}
		seen := make(map[string]bool)
		for _, res := range out {
			assert.False(t, seen[res.PurchaseURL], "duplicate url %s", res.PurchaseURL)
			seen[res.PurchaseURL] = true
		}
	}
}

func TestRankAndDedupeProductPageReplacesListing(t *testing.T) {
	in := []types.NormalizedResult{
		result("https://tinyboutique.com/women/tops?page=1", "Slip top", 10),
		result("https://tinyboutique.com/women/tops?page=2", "Slip top", 10),
		result("https://tinyboutique.com/women/tops?page=3", "Slip top", 10),
		result("https://tinyboutique.com/products/wrap-top", "Wrap top", 0),
		result("https://tinyboutique.com/women/tops?page=4", "Wrap top", 0),
	}

	out := New(trust.Default()).RankAndDedupe(in)

	assert.Equal(t, []string{
		"https://tinyboutique.com/products/wrap-top",
		"https://tinyboutique.com/women/tops?page=2",
		"https://tinyboutique.com/women/tops?page=3",
	}, urls(out))
}

func TestRankAndDedupeSkipsDuplicatesAndEmptyURLs(t *testing.T) {
	in := []types.NormalizedResult{
		result("https://www.zara.com/p/1", "Wrap top", 0),
		result("https://www.zara.com/p/1", "Wrap top", 0),
		result("", "Wrap top", 0),
		result("   ", "Wrap top", 0),
		result("no-host", "Wrap top", 0),
	}

	out := New(trust.Default()).RankAndDedupe(in)
	assert.Equal(t, []string{"https://www.zara.com/p/1"}, urls(out))
}

func TestRankAndDedupeGroupsByDomainInScoreOrder(t *testing.T) {
	in := []types.NormalizedResult{
		result("https://tinyboutique.com/a", "Wrap top", 0),
		result("https://www.nordstrom.com/s/1", "Wrap top", 0),
		result("https://tinyboutique.com/b", "Silk top", 0),
		result("https://www.nordstrom.com/s/2", "Silk top", 0),
	}

	out := New(trust.Default()).RankAndDedupe(in)

	assert.Equal(t, []string{
		"https://www.nordstrom.com/s/2",
		"https://www.nordstrom.com/s/1",
		"https://tinyboutique.com/b",
		"https://tinyboutique.com/a",
	}, urls(out))
}

func TestRankAndDedupeDoesNotMutateInput(t *testing.T) {
	in := []types.NormalizedResult{
		result("https://tinyboutique.com/a", "Wrap top", 0),
		result("https://www.nordstrom.com/s/1", "Silk top", 0),
	}
	before := append([]types.NormalizedResult(nil), in...)

	New(trust.Default()).RankAndDedupe(in)
	assert.Equal(t, before, in)
}

func TestRankAndDedupeEmpty(t *testing.T) {
	assert.Empty(t, New(trust.Default()).RankAndDedupe(nil))
}

func TestPreFilter(t *testing.T) {
	r := New(trust.Default())
	var in []types.NormalizedResult
	for i := range 9 {
		in = append(in, result(fmt.Sprintf("https://shop.com/products/%d", i), "Wrap top", 0))
	}
	in = append(in, result("https://shop.com/collections/tops", "Tops", 0))

	assert.Len(t, r.PreFilter(in), 10, "below the threshold nothing is dropped")

	in = append(in, result("https://shop.com/products/9", "Wrap top", 0))
	got := r.PreFilter(in)
	assert.Len(t, got, 10)
	for _, res := range got {
		assert.False(t, LooksLikeCollection(res.PurchaseURL, res.ProductName))
	}
}
