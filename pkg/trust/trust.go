// Package trust classifies shopping domains into trust tiers and derives the
// per-domain result caps used when ranking search results.
package trust

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Tier is the trust class of a domain.
type Tier int

const (
	TierOther Tier = iota
	TierTrustedRetail
	TierTier1
	TierAggregator
	TierMarketplace
)

func (t Tier) String() string {
	switch t {
	case TierTrustedRetail:
		return "trusted_retail"
	case TierTier1:
		return "tier1"
	case TierAggregator:
		return "aggregator"
	case TierMarketplace:
		return "marketplace"
	default:
		return "other"
	}
}

// Lists are the curated domain lists a Table is built from.
type Lists struct {
	Tier1         []string `json:"tier1"`
	Marketplace   []string `json:"marketplace"`
	TrustedRetail []string `json:"trusted_retail"`
	Aggregator    []string `json:"aggregator"`
	Banned        []string `json:"banned"`
}

// Caps are the maximum number of results admitted per domain of each tier.
type Caps struct {
	Marketplace   int `json:"marketplace"`
	Aggregator    int `json:"aggregator"`
	Tier1         int `json:"tier1"`
	TrustedRetail int `json:"trusted_retail"`
	Other         int `json:"other"`
}

// DefaultCaps returns the standard caps.
func DefaultCaps() Caps {
	return Caps{Marketplace: 1, Aggregator: 1, Tier1: 7, TrustedRetail: 5, Other: 3}
}

// Table is an immutable domain trust table.
type Table struct {
	tier1         map[string]struct{}
	marketplace   map[string]struct{}
	trustedRetail map[string]struct{}
	aggregator    map[string]struct{}
	banned        map[string]struct{}
	caps          Caps
}

// New builds a Table and checks that the tier lists are disjoint.
func New(lists Lists, caps Caps) (*Table, error) {
	t := &Table{
		tier1:         toSet(lists.Tier1),
		marketplace:   toSet(lists.Marketplace),
		trustedRetail: toSet(lists.TrustedRetail),
		aggregator:    toSet(lists.Aggregator),
		banned:        toSet(lists.Banned),
		caps:          caps,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate reports an error when a domain appears in more than one tier or
// a cap is not positive.
func (t *Table) Validate() error {
	tiers := []struct {
		name string
		set  map[string]struct{}
	}{
		{"tier1", t.tier1},
		{"marketplace", t.marketplace},
		{"trusted_retail", t.trustedRetail},
		{"aggregator", t.aggregator},
	}
	for i := range tiers {
		for j := i + 1; j < len(tiers); j++ {
			for d := range tiers[i].set {
				if _, ok := tiers[j].set[d]; ok {
					return fmt.Errorf("domain %q is listed as both %s and %s", d, tiers[i].name, tiers[j].name)
				}
			}
		}
	}

	for name, c := range map[string]int{
		"marketplace":    t.caps.Marketplace,
		"aggregator":     t.caps.Aggregator,
		"tier1":          t.caps.Tier1,
		"trusted_retail": t.caps.TrustedRetail,
		"other":          t.caps.Other,
	} {
		if c <= 0 {
			return fmt.Errorf("cap for %s must be positive, got %d", name, c)
		}
	}
	return nil
}

// Hostname returns the lower-cased host of rawURL without a leading "www.".
func Hostname(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// RootDomain returns the registrable domain of rawURL ("www.shop.example.co.uk"
// becomes "example.co.uk"), or "" when rawURL has no host.
func RootDomain(rawURL string) string {
	host := Hostname(rawURL)
	if host == "" {
		return ""
	}
	if root, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return root
	}

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "." + parts[len(parts)-1]
	}
	return host
}

// MatchesAny reports whether domain equals, or is a subdomain of, any entry
// in set.
func MatchesAny(domain string, set map[string]struct{}) bool {
	domain = strings.ToLower(domain)
	if domain == "" {
		return false
	}
	if _, ok := set[domain]; ok {
		return true
	}
	for i := strings.IndexByte(domain, '.'); i >= 0; i = strings.IndexByte(domain, '.') {
		domain = domain[i+1:]
		if _, ok := set[domain]; ok {
			return true
		}
	}
	return false
}

func (t *Table) IsTier1(domain string) bool         { return MatchesAny(domain, t.tier1) }
func (t *Table) IsMarketplace(domain string) bool   { return MatchesAny(domain, t.marketplace) }
func (t *Table) IsAggregator(domain string) bool    { return MatchesAny(domain, t.aggregator) }
func (t *Table) IsTrustedRetail(domain string) bool { return MatchesAny(domain, t.trustedRetail) }
func (t *Table) IsBanned(domain string) bool        { return MatchesAny(domain, t.banned) }

// IsTrusted reports whether domain belongs to any of the four tiers.
func (t *Table) IsTrusted(domain string) bool {
	return t.IsTier1(domain) || t.IsMarketplace(domain) || t.IsAggregator(domain) || t.IsTrustedRetail(domain)
}

// Classify returns the tier of domain. Penalised tiers take precedence.
func (t *Table) Classify(domain string) Tier {
	switch {
	case t.IsMarketplace(domain):
		return TierMarketplace
	case t.IsAggregator(domain):
		return TierAggregator
	case t.IsTier1(domain):
		return TierTier1
	case t.IsTrustedRetail(domain):
		return TierTrustedRetail
	}
	return TierOther
}

// Cap returns the maximum number of results admitted for domain.
func (t *Table) Cap(domain string) int {
	switch t.Classify(domain) {
	case TierMarketplace:
		return t.caps.Marketplace
	case TierAggregator:
		return t.caps.Aggregator
	case TierTier1:
		return t.caps.Tier1
	case TierTrustedRetail:
		return t.caps.TrustedRetail
	}
	return t.caps.Other
}

// Caps returns the table's caps.
func (t *Table) Caps() Caps { return t.caps }

// Lists returns sorted copies of the table's domain lists.
func (t *Table) Lists() Lists {
	return Lists{
		Tier1:         sortedKeys(t.tier1),
		Marketplace:   sortedKeys(t.marketplace),
		TrustedRetail: sortedKeys(t.trustedRetail),
		Aggregator:    sortedKeys(t.aggregator),
		Banned:        sortedKeys(t.banned),
	}
}

func toSet(domains []string) map[string]struct{} {
	s := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			s[d] = struct{}{}
		}
	}
	return s
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
