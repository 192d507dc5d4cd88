package dto

import "github.com/shopspring/decimal"

type ProductsResponse struct {
	Products []ProductDto `json:"products"`
}

type ProductDto struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Vendor   string       `json:"vendor"`
	Status   string       `json:"status,omitempty"`
	Variants []VariantDto `json:"variants"`
}

type VariantDto struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id,omitempty"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
}

type VariantUpdateRequest struct {
	Variant VariantPriceInput `json:"variant"`
}

// VariantPriceInput carries the price as a fixed two-decimal string.
type VariantPriceInput struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}
