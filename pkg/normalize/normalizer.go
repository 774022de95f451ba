// Package normalize turns raw visual-search hits into NormalizedResults and
// filters out hits that are not shoppable fashion items.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/menta2k/lookfinder/pkg/policy"
	"github.com/menta2k/lookfinder/pkg/trust"
	"github.com/menta2k/lookfinder/pkg/types"
)

const (
	// BaseConfidence is the confidence assigned to every search result.
	BaseConfidence = 0.75

	maxTitleLen       = 60
	maxDescriptionLen = 200

	UnknownTitle = "Unknown item"
	UnknownBrand = "Unknown"
)

var (
	boilerplate  = regexp.MustCompile(`(?i)(buy\s+now|official\s+store|free\s+shipping|online\s+shop|sale|discount|deal|brand\s+new|shop\s+now)`)
	titleSep     = regexp.MustCompile(`[\|\-:–—]+`)
	whitespace   = regexp.MustCompile(`\s+`)
	leadingBrand = regexp.MustCompile(`^[A-Za-z0-9'& ]{2,20}`)

	priceHint   = regexp.MustCompile(`(\$|€|£|¥)\s?\d`)
	cartHint    = regexp.MustCompile(`(?i)(add[\s_-]?to[\s_-]?cart|buy\s?now|checkout|in\s?stock)`)
	productPath = regexp.MustCompile(`(?i)/(product|shop|store|item|buy)[/\-_]`)
)

// Config holds the normalizer's policy, trust table and logger.
type Config struct {
	Policy *policy.Policy
	Trust  *trust.Table
	Logger zerolog.Logger
}

// Normalizer converts and filters search hits. It is safe for concurrent use.
type Normalizer struct {
	policy *policy.Policy
	trust  *trust.Table
	log    zerolog.Logger
	// whole-word matchers per category keyword
	words map[string]*regexp.Regexp
}

// New creates a Normalizer without logging.
func New(p *policy.Policy, t *trust.Table) *Normalizer {
	return NewWithConfig(Config{Policy: p, Trust: t, Logger: zerolog.Nop()})
}

// NewWithConfig creates a Normalizer with custom configuration. Nil tables
// fall back to the defaults.
func NewWithConfig(cfg Config) *Normalizer {
	if cfg.Policy == nil {
		cfg.Policy = policy.Default()
	}
	if cfg.Trust == nil {
		cfg.Trust = trust.Default()
	}
	n := &Normalizer{
		policy: cfg.Policy,
		trust:  cfg.Trust,
		log:    cfg.Logger,
		words:  make(map[string]*regexp.Regexp),
	}
	for _, cat := range cfg.Policy.CategoryOrder() {
		for _, kw := range cfg.Policy.CategoryKeywords(cat) {
			if _, ok := n.words[kw]; !ok {
				n.words[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			}
		}
	}
	return n
}

// Normalize converts hit into a NormalizedResult. The ID is derived from the
// link so the same hit always gets the same ID.
func (n *Normalizer) Normalize(hit types.SearchHit) types.NormalizedResult {
	title := FormatTitle(hit.Title)
	brand := n.ExtractBrand(hit.Title, hit.Source)
	return types.NormalizedResult{
		ID:          ResultID(hit.Link),
		ProductName: title,
		Brand:       brand,
		Price:       ParsePrice(hit.Price),
		ImageURL:    hit.Thumbnail,
		Category:    n.CategorizeGarment(title, brand),
		Confidence:  BaseConfidence,
		Description: truncate(strings.TrimSpace(hit.Snippet), maxDescriptionLen),
		PurchaseURL: hit.Link,
	}
}

// NormalizeAll normalizes every hit in order.
func (n *Normalizer) NormalizeAll(hits []types.SearchHit) []types.NormalizedResult {
	out := make([]types.NormalizedResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, n.Normalize(h))
	}
	return out
}

// ResultID returns the stable ID of a result with the given link.
func ResultID(link string) string {
	return "serp_" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

// FormatTitle strips store boilerplate from a product title, keeps its most
// informative segment and limits it to 60 characters.
func FormatTitle(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return UnknownTitle
	}

	clean := boilerplate.ReplaceAllString(raw, "")
	for _, part := range titleSep.Split(clean, -1) {
		part = strings.TrimSpace(part)
		if strings.IndexFunc(part, isASCIILetter) >= 0 {
			clean = part
			break
		}
	}
	clean = strings.TrimSpace(whitespace.ReplaceAllString(clean, " "))
	if clean == "" {
		return UnknownTitle
	}

	r, size := utf8.DecodeRuneInString(clean)
	clean = string(unicode.ToUpper(r)) + clean[size:]
	if utf8.RuneCountInString(clean) > maxTitleLen {
		clean = string([]rune(clean)[:maxTitleLen-3]) + "..."
	}
	return clean
}

// ExtractBrand returns the title-cased source when present, otherwise a
// short leading phrase of the title unless it is a stop word.
func (n *Normalizer) ExtractBrand(title, source string) string {
	if s := strings.TrimSpace(source); s != "" {
		return titleCase(s)
	}
	if m := leadingBrand.FindString(title); m != "" {
		candidate := strings.TrimSpace(m)
		if candidate != "" && !n.policy.IsStopWord(strings.ToLower(candidate)) {
			return titleCase(candidate)
		}
	}
	return UnknownBrand
}

// CategorizeGarment votes title keywords into one of the fixed categories.
// A whole-word keyword match scores 2 and a substring match 1. Ties go to the
// earlier category in the policy order, so a title with no keyword match
// falls to the first category. A known brand overrides the vote when its
// category scores at least 80% of the winner.
func (n *Normalizer) CategorizeGarment(title, brand string) string {
	lower := strings.ToLower(title)
	brandLower := strings.ToLower(brand)

	order := n.policy.CategoryOrder()
	votes := make(map[string]int, len(order))
	best, bestScore := order[0], -1
	for _, cat := range order {
		v := 0
		for _, kw := range n.policy.CategoryKeywords(cat) {
			switch {
			case n.words[kw].MatchString(lower):
				v += 2
			case strings.Contains(lower, kw):
				v++
			}
		}
		votes[cat] = v
		if v > bestScore {
			best, bestScore = cat, v
		}
	}

	for _, hint := range n.policy.BrandHints() {
		if !strings.Contains(brandLower, hint.Brand) && !strings.Contains(lower, hint.Brand) {
			continue
		}
		if float64(votes[hint.Category]) >= float64(bestScore)*0.8 {
			return hint.Category
		}
	}
	return best
}

// IsEcommerce reports whether hit looks like a shoppable page: banned hosts
// are rejected, trusted retailers accepted, and anything else needs a price,
// cart wording or a product-like URL.
func (n *Normalizer) IsEcommerce(hit types.SearchHit) bool {
	host := trust.Hostname(hit.Link)
	if n.trust.IsBanned(host) {
		return false
	}
	if n.trust.IsTrusted(host) {
		return true
	}

	text := hit.Link + " " + hit.Source + " " + strings.ToLower(hit.Title) + " " + strings.ToLower(hit.Snippet)
	return priceHint.MatchString(text) || cartHint.MatchString(text) || productPath.MatchString(hit.Link)
}

// IsRelevant reports whether title names a fashion item rather than a
// texture, tutorial or unrelated product.
func (n *Normalizer) IsRelevant(title string) bool {
	lower := strings.ToLower(title)
	if containsAny(lower, n.policy.RelevanceBannedTerms()) {
		return false
	}
	return containsAny(lower, n.policy.GarmentKeywords()) || containsAny(lower, n.policy.StyleHints())
}

// FilterHits keeps hits that have a link and title and pass both the
// ecommerce and the relevance checks.
func (n *Normalizer) FilterHits(hits []types.SearchHit) []types.SearchHit {
	out := make([]types.SearchHit, 0, len(hits))
	for _, h := range hits {
		switch {
		case h.Link == "" || h.Title == "":
			continue
		case !n.IsEcommerce(h):
			n.log.Debug().Str("link", h.Link).Msg("dropping non-commerce hit")
			continue
		case !n.IsRelevant(h.Title):
			n.log.Debug().Str("title", h.Title).Msg("dropping irrelevant hit")
			continue
		}
		out = append(out, h)
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
