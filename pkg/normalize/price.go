package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// priceKeys are searched, in order, when a price is a nested object.
var priceKeys = []string{"extracted_value", "value", "amount", "price", "min", "max", "low", "high", "raw"}

var numberToken = regexp.MustCompile(`\d[\d.,]*`)

// ParsePrice extracts the first positive amount from v, which may be a
// number, a formatted string such as "€1.234,56", or a nested object or list
// as found in search provider payloads. It returns 0 when no positive amount
// is present.
func ParsePrice(v any) float64 {
	switch p := v.(type) {
	case nil:
		return 0
	case float64:
		return positive(p)
	case float32:
		return positive(float64(p))
	case int:
		return positive(float64(p))
	case int64:
		return positive(float64(p))
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0
		}
		return positive(f)
	case string:
		return parsePriceString(p)
	case map[string]any:
		for _, k := range priceKeys {
			if f := ParsePrice(p[k]); f > 0 {
				return f
			}
		}
	case []any:
		for _, e := range p {
			if f := ParsePrice(e); f > 0 {
				return f
			}
		}
	}
	return 0
}

func parsePriceString(s string) float64 {
	for _, tok := range numberToken.FindAllString(s, -1) {
		tok = strings.TrimRight(tok, ".,")
		if f, err := strconv.ParseFloat(normalizeSeparators(tok), 64); err == nil && f > 0 {
			return f
		}
	}
	return 0
}

// normalizeSeparators rewrites tok so the decimal point is "." and no
// thousands separators remain. When both separators occur the later one is
// the decimal point. A lone comma followed by exactly three digits groups
// thousands.
func normalizeSeparators(tok string) string {
	dot, comma := strings.LastIndexByte(tok, '.'), strings.LastIndexByte(tok, ',')
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			tok = strings.ReplaceAll(tok, ".", "")
			return strings.Replace(tok, ",", ".", 1)
		}
		return strings.ReplaceAll(tok, ",", "")
	case comma >= 0:
		if strings.Count(tok, ",") > 1 || len(tok)-comma-1 == 3 {
			return strings.ReplaceAll(tok, ",", "")
		}
		return strings.Replace(tok, ",", ".", 1)
	case strings.Count(tok, ".") > 1:
		return strings.ReplaceAll(tok, ".", "")
	}
	return tok
}

func positive(f float64) float64 {
	if f > 0 {
		return f
	}
	return 0
}
