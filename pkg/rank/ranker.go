// Package rank orders normalized search results by a fashion-aware score
// and limits how many results each shopping domain may contribute.
package rank

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/menta2k/lookfinder/pkg/trust"
	"github.com/menta2k/lookfinder/pkg/types"
)

// Score multipliers.
const (
	BaseScore = 0.75

	Tier1Boost         = 1.15
	MarketplacePenalty = 0.88
	AggregatorPenalty  = 0.90
	PricedBoost        = 1.02
)

// MinPDPsForCollectionDrop is the number of non-collection results from
// which PreFilter discards collection pages.
const MinPDPsForCollectionDrop = 10

// styleBoosts apply cumulatively when the keyword occurs in the title.
var styleBoosts = []struct {
	keyword string
	mult    float64
}{
	{"silk", 1.06},
	{"satin", 1.06},
	{"lace", 1.08},
	{"midi", 1.03},
	{"slip", 1.04},
}

var (
	pdpURL          = regexp.MustCompile(`/product/|/products?/|/p/|/pd/|/sku/|/item/|/buy/|/dp/|/gp/product/|/shop/[^/]*\d`)
	pdpTitle        = regexp.MustCompile(`\b(sku|style|model|size|midi|maxi|silk|satin|lace)\b`)
	collectionTitle = regexp.MustCompile(`\b(women|men|kids|midi|maxi|skirts?|dresses|clothing)\b`)
	collectionURL   = regexp.MustCompile(`/c/|/category/|/collections?/|/shop/[^/]+/?$|/women/[^/]+/?$|/women/?$|/new-arrivals/?$|/sale/?$`)
)

// Config holds the ranker's trust table and logger.
type Config struct {
	Trust  *trust.Table
	Logger zerolog.Logger
}

// Ranker scores and deduplicates results. It is safe for concurrent use.
type Ranker struct {
	trust *trust.Table
	log   zerolog.Logger
}

// New creates a Ranker without logging.
func New(t *trust.Table) *Ranker {
	return NewWithConfig(Config{Trust: t, Logger: zerolog.Nop()})
}

// NewWithConfig creates a Ranker with custom configuration.
func NewWithConfig(cfg Config) *Ranker {
	if cfg.Trust == nil {
		cfg.Trust = trust.Default()
	}
	return &Ranker{trust: cfg.Trust, log: cfg.Logger}
}

// FashionScore rates a result by the trust tier of its shop, style keywords
// in its name and whether it carries a price.
func (r *Ranker) FashionScore(res types.NormalizedResult) float64 {
	domain := trust.RootDomain(res.PurchaseURL)
	mult := 1.0

	// tiers are disjoint, so at most one of these applies
	if r.trust.IsTier1(domain) {
		mult *= Tier1Boost
	}
	if r.trust.IsMarketplace(domain) {
		mult *= MarketplacePenalty
	}
	if r.trust.IsAggregator(domain) {
		mult *= AggregatorPenalty
	}

	title := strings.ToLower(res.ProductName)
	for _, b := range styleBoosts {
		if strings.Contains(title, b.keyword) {
			mult *= b.mult
		}
	}

	if res.Price > 0 {
		mult *= PricedBoost
	}
	return BaseScore * mult
}

// LooksLikePDP reports whether the URL or title points at a single product.
func LooksLikePDP(url, title string) bool {
	return pdpURL.MatchString(strings.ToLower(url)) || pdpTitle.MatchString(strings.ToLower(title))
}

// LooksLikeCollection reports whether the URL or title points at a category
// or landing page.
func LooksLikeCollection(url, title string) bool {
	u, t := strings.ToLower(url), strings.ToLower(title)
	if collectionTitle.MatchString(t) && strings.Contains(t, " | ") {
		return true
	}
	if collectionURL.MatchString(u) {
		return true
	}
	return strings.HasSuffix(u, "/index.html") || strings.HasSuffix(u, "/index")
}

// PreFilter drops collection pages once at least MinPDPsForCollectionDrop
// other results exist. The input is not modified.
func (r *Ranker) PreFilter(results []types.NormalizedResult) []types.NormalizedResult {
	isCollection := make([]bool, len(results))
	products := 0
	for i, res := range results {
		isCollection[i] = LooksLikeCollection(res.PurchaseURL, res.ProductName)
		if !isCollection[i] {
			products++
		}
	}
	if products < MinPDPsForCollectionDrop {
		return slices.Clone(results)
	}

	out := make([]types.NormalizedResult, 0, products)
	for i, res := range results {
		if !isCollection[i] {
			out = append(out, res)
		}
	}
	r.log.Debug().Int("removed", len(results)-len(out)).Msg("removed collection pages")
	return out
}

type scored struct {
	types.NormalizedResult
	score float64
	pdp   bool
}

// RankAndDedupe sorts results by FashionScore and admits at most the trust
// cap of results per root domain. Once a domain is full, a product page
// replaces its lowest scoring non-product page. Results with an empty or
// repeated purchase URL are skipped. The output groups results by domain in
// the order domains were first admitted. The input is not modified.
func (r *Ranker) RankAndDedupe(results []types.NormalizedResult) []types.NormalizedResult {
	pool := make([]scored, len(results))
	for i, res := range results {
		pool[i] = scored{
			NormalizedResult: res,
			score:            r.FashionScore(res),
			pdp:              LooksLikePDP(res.PurchaseURL, res.ProductName),
		}
	}
	slices.SortStableFunc(pool, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	byDomain := make(map[string][]scored)
	var order []string
	seen := make(map[string]struct{}, len(pool))

	for _, res := range pool {
		url := strings.TrimSpace(res.PurchaseURL)
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}

		domain := trust.RootDomain(url)
		if domain == "" {
			continue
		}

		list, ok := byDomain[domain]
		if !ok {
			order = append(order, domain)
		}
		if len(list) < r.trust.Cap(domain) {
			byDomain[domain] = append(list, res)
			continue
		}

		if !res.pdp {
			continue
		}
		if i := lowestNonPDP(list); i >= 0 {
			r.log.Debug().Str("domain", domain).Str("url", url).Msg("product page replaces listing")
			list[i] = res
		}
	}

	var out []types.NormalizedResult
	for _, d := range order {
		for _, res := range byDomain[d] {
			out = append(out, res.NormalizedResult)
		}
	}
	r.log.Debug().Int("results", len(out)).Int("domains", len(order)).Msg("deduplicated results")
	return out
}

func lowestNonPDP(list []scored) int {
	idx, worst := -1, math.Inf(1)
	for i, s := range list {
		if !s.pdp && s.score < worst {
			idx, worst = i, s.score
		}
	}
	return idx
}
