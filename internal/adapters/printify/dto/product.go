package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type ProductDto struct {
	ID       FlexString   `json:"id"`
	Title    string       `json:"title"`
	Variants []VariantDto `json:"variants"`
}

type VariantDto struct {
	ID           FlexString  `json:"id"`
	SKU          string      `json:"sku"`
	OfferID      FlexString  `json:"offer_id"`
	Price        FlexDecimal `json:"price"`
	RetailPrice  FlexDecimal `json:"retail_price"`
	DefaultPrice FlexDecimal `json:"default_price"`
	VariantPrice FlexDecimal `json:"variant_price"`
}

// PriceCandidates lists the price fields in lookup order.
func (v VariantDto) PriceCandidates() []FlexDecimal {
	return []FlexDecimal{v.Price, v.RetailPrice, v.DefaultPrice, v.VariantPrice}
}

// ProductsPage accepts both a bare JSON array and an object wrapping the list
// in "data" or "products".
type ProductsPage []ProductDto

func (p *ProductsPage) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []ProductDto
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*p = list
		return nil
	}
	var wrapped struct {
		Data     []ProductDto `json:"data"`
		Products []ProductDto `json:"products"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	if len(wrapped.Data) > 0 {
		*p = wrapped.Data
		return nil
	}
	*p = wrapped.Products
	return nil
}

// FlexString decodes identifiers that arrive either as strings or as numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// FlexDecimal is a price that may arrive as a number, a quoted number, an
// empty string or null. Anything that does not parse leaves Valid false.
type FlexDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (f *FlexDecimal) UnmarshalJSON(raw []byte) error {
	*f = FlexDecimal{}
	value := string(bytes.TrimSpace(raw))
	if value == "null" {
		return nil
	}
	if strings.HasPrefix(value, `"`) {
		var quoted string
		if err := json.Unmarshal([]byte(value), &quoted); err != nil {
			return nil
		}
		value = strings.TrimSpace(quoted)
	}
	if value == "" {
		return nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil
	}
	*f = FlexDecimal{Decimal: parsed, Valid: true}
	return nil
}
