package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID       int64
	Title    string
	Vendor   string
	Variants []Variant
}

// Variant is a storefront variant together with the parent product fields
// the cost resolver routes on.
type Variant struct {
	ID           int64
	ProductID    int64
	SKU          string
	Price        decimal.Decimal
	Vendor       string
	ProductTitle string
}

func (v Variant) TrimmedSKU() string {
	return strings.TrimSpace(v.SKU)
}

// FlattenVariants copies the parent vendor and title onto every variant.
func FlattenVariants(products []Product) []Variant {
	total := 0
	for _, p := range products {
		total += len(p.Variants)
	}
	variants := make([]Variant, 0, total)
	for _, p := range products {
		for _, v := range p.Variants {
			v.ProductID = p.ID
			v.Vendor = p.Vendor
			v.ProductTitle = p.Title
			variants = append(variants, v)
		}
	}
	return variants
}
