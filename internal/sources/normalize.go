package sources

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`\$?([\d,]+\.?\d*)`)

// ParsePrice extracts a decimal price from arbitrary retailer text.
// Tolerates currency symbols, thousands separators and surrounding noise;
// returns nil when no number is present.
func ParsePrice(s string) *float64 {
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// Decode resolves HTML entities in extracted text.
func Decode(s string) string {
	return html.UnescapeString(strings.TrimSpace(s))
}

// InStockFromButton derives availability from a purchase-action button:
// a disabled button or "sold out"/"coming soon" text means not purchasable.
func InStockFromButton(text string, disabled bool) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if disabled {
		return false
	}
	return t != "sold out" && t != "coming soon"
}

// ldProduct is the subset of a schema.org Product block the adapters read.
// Offers may be a single object or an array; image may be a string or an
// array of strings. The raw fields keep both shapes parseable.
type ldProduct struct {
	Name   string
	Image  string
	Price  *float64
	Avail  string
	hasOff bool
}

func (p ldProduct) InStock() bool {
	return strings.Contains(p.Avail, "InStock")
}

// parseJSONLD parses one application/ld+json block and returns the Product
// it describes, if any.
func parseJSONLD(raw string) (ldProduct, bool) {
	var doc struct {
		Type   string          `json:"@type"`
		Name   string          `json:"name"`
		Image  json.RawMessage `json:"image"`
		Offers json.RawMessage `json:"offers"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return ldProduct{}, false
	}
	if doc.Type != "Product" {
		return ldProduct{}, false
	}

	p := ldProduct{Name: Decode(doc.Name)}

	if len(doc.Image) > 0 {
		var one string
		var many []string
		if err := json.Unmarshal(doc.Image, &one); err == nil {
			p.Image = one
		} else if err := json.Unmarshal(doc.Image, &many); err == nil && len(many) > 0 {
			p.Image = many[0]
		}
	}

	if len(doc.Offers) > 0 {
		type offer struct {
			Price        json.RawMessage `json:"price"`
			Availability string          `json:"availability"`
		}
		var one offer
		var many []offer
		if err := json.Unmarshal(doc.Offers, &one); err == nil && (len(one.Price) > 0 || one.Availability != "") {
			p.Price = priceFromRaw(one.Price)
			p.Avail = one.Availability
			p.hasOff = true
		} else if err := json.Unmarshal(doc.Offers, &many); err == nil && len(many) > 0 {
			p.Price = priceFromRaw(many[0].Price)
			p.Avail = many[0].Availability
			p.hasOff = true
		}
	}

	return p, true
}

// priceFromRaw handles JSON-LD prices serialized as either number or string.
func priceFromRaw(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == 0 {
			return nil
		}
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParsePrice(s)
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func floatPtr(f float64) *float64 {
	if f == 0 {
		return nil
	}
	v := f
	return &v
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	v := n
	return &v
}
