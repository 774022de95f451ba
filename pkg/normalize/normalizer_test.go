package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/lookfinder/pkg/policy"
	"github.com/menta2k/lookfinder/pkg/trust"
	"github.com/menta2k/lookfinder/pkg/types"
)

func newNormalizer() *Normalizer {
	return New(policy.Default(), trust.Default())
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"euro with comma decimal", "€1.234,56", 1234.56},
		{"dollar", "$19.99", 19.99},
		{"extracted value", map[string]any{"extracted_value": 42}, 42},
		{"no digits", "no digits", 0},
		{"comma thousands", "1,234", 1234},
		{"comma decimal", "12,50 €", 12.5},
		{"dot decimal with comma thousands", "USD 1,234.56", 1234.56},
		{"many dots", "1.234.567", 1234567},
		{"nested", map[string]any{"price": map[string]any{"value": "$5"}}, 5},
		{"key order", map[string]any{"raw": "$9", "value": 7.0}, 7},
		{"list", []any{0.0, "free", "€3"}, 3},
		{"json number", json.Number("42.5"), 42.5},
		{"negative", -5.0, 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePrice(tt.in), 1e-9)
		})
	}
}

func TestFormatTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Buy Now Silk Midi Dress | Nordstrom", "Silk Midi Dress"},
		{"lace top - free shipping", "Lace top"},
		{"2024 - Linen   Shirt: Women", "Linen Shirt"},
		{"", UnknownTitle},
		{"   ", UnknownTitle},
		{"Sale", UnknownTitle},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTitle(tt.in))
		})
	}
}

func TestFormatTitleTruncates(t *testing.T) {
	got := FormatTitle(strings.Repeat("a", 70))

	assert.Len(t, got, 60)
	assert.True(t, strings.HasPrefix(got, "Aaa"))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExtractBrand(t *testing.T) {
	n := newNormalizer()

	assert.Equal(t, "Nordstrom", n.ExtractBrand("Silk dress", "nordstrom"))
	assert.Equal(t, "Mr Porter", n.ExtractBrand("Silk dress", "  MR PORTER "))
	assert.Equal(t, "Reformation Juliette", n.ExtractBrand("Reformation Juliette Dress", ""))
	assert.Equal(t, UnknownBrand, n.ExtractBrand("shop - dresses", ""))
	assert.Equal(t, UnknownBrand, n.ExtractBrand("", ""))
}

func TestCategorizeGarment(t *testing.T) {
	n := newNormalizer()

	tests := []struct {
		title string
		brand string
		want  string
	}{
		{"Slim Fit Jeans", "", policy.CategoryBottoms},
		{"Silk Midi Slip Dress", "", policy.CategoryDresses},
		{"Leather Tote Bag", "", policy.CategoryBags},
		{"Nike Running Tee", "Nike", policy.CategoryTops},
		{"Adidas Sneaker Tee", "", policy.CategoryShoes},
		{"Fleece", "Patagonia", policy.CategoryOuterwear},
		{"Something Else", "", policy.CategoryBottoms},
		{"Gift card", "", policy.CategoryBottoms},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, n.CategorizeGarment(tt.title, tt.brand))
		})
	}
}

func TestIsEcommerce(t *testing.T) {
	n := newNormalizer()

	tests := []struct {
		name string
		hit  types.SearchHit
		want bool
	}{
		{"banned even with price", types.SearchHit{Link: "https://www.pinterest.com/pin/1", Title: "Dress $20"}, false},
		{"banned subdomain", types.SearchHit{Link: "https://someone.blogspot.com/p/dress", Title: "Dress"}, false},
		{"trusted retailer", types.SearchHit{Link: "https://www.zara.com/us/en/dress-p123.html", Title: "Dress"}, true},
		{"price hint", types.SearchHit{Link: "https://tinyshop.io/x", Title: "Dress", Snippet: "Now $29"}, true},
		{"cart hint", types.SearchHit{Link: "https://tinyshop.io/x", Title: "Dress", Snippet: "Add to cart"}, true},
		{"product path", types.SearchHit{Link: "https://tinyshop.io/product/dress", Title: "Dress"}, true},
		{"plain page", types.SearchHit{Link: "https://tinyshop.io/about", Title: "Our story"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.IsEcommerce(tt.hit))
		})
	}
}

func TestIsRelevant(t *testing.T) {
	n := newNormalizer()

	assert.True(t, n.IsRelevant("Silk Midi Dress"))
	assert.True(t, n.IsRelevant("Satin ribbon"))
	assert.False(t, n.IsRelevant("Dress texture pattern"))
	assert.False(t, n.IsRelevant("Phone case"))
	assert.False(t, n.IsRelevant("Garden chair"))
}

func TestFilterHits(t *testing.T) {
	n := newNormalizer()
	hits := []types.SearchHit{
		{Link: "https://www.zara.com/dress-p1.html", Title: "Satin Slip Dress"},
		{Link: "", Title: "Satin Slip Dress"},
		{Link: "https://www.zara.com/dress-p2.html", Title: ""},
		{Link: "https://www.pinterest.com/pin/2", Title: "Satin Slip Dress"},
		{Link: "https://www.zara.com/dress-p3.html", Title: "Dress sewing tutorial"},
	}

	got := n.FilterHits(hits)
	require.Len(t, got, 1)
	assert.Equal(t, "https://www.zara.com/dress-p1.html", got[0].Link)
}

func TestNormalize(t *testing.T) {
	n := newNormalizer()
	hit := types.SearchHit{
		Title:     "Buy Now Silk Midi Slip Dress | Reformation",
		Link:      "https://www.reformation.com/products/silk-midi",
		Source:    "reformation",
		Thumbnail: "https://img.example.com/t.jpg",
		Snippet:   strings.Repeat("x", 250),
		Price:     map[string]any{"value": "$248.00", "extracted_value": 248.0},
	}

	r := n.Normalize(hit)
	assert.Equal(t, "Silk Midi Slip Dress", r.ProductName)
	assert.Equal(t, "Reformation", r.Brand)
	assert.Equal(t, 248.0, r.Price)
	assert.Equal(t, policy.CategoryDresses, r.Category)
	assert.Equal(t, BaseConfidence, r.Confidence)
	assert.Equal(t, hit.Thumbnail, r.ImageURL)
	assert.Equal(t, hit.Link, r.PurchaseURL)
	assert.Len(t, r.Description, 200)
	assert.True(t, strings.HasPrefix(r.ID, "serp_"))

	again := n.Normalize(hit)
	assert.Equal(t, r.ID, again.ID)
	assert.NotEqual(t, r.ID, n.Normalize(types.SearchHit{Link: "https://other.example.com"}).ID)
}

func TestNormalizeAll(t *testing.T) {
	n := newNormalizer()
	got := n.NormalizeAll([]types.SearchHit{{Title: "Jeans", Link: "a"}, {Title: "Dress", Link: "b"}})

	require.Len(t, got, 2)
	assert.Equal(t, "Jeans", got[0].ProductName)
	assert.Equal(t, "Dress", got[1].ProductName)
	assert.Empty(t, got[0].Description)
}
