package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"shopify-repricer/internal/adapters/shopify/dto"
	"shopify-repricer/internal/domain/model"

	"go.uber.org/zap"
)

const productsPageSize = 250

// FetchAllProducts walks the products listing following the Link rel="next" cursor.
// A failing page ends the walk and the products gathered so far are returned.
// Only missing credentials are reported as an error.
func (c *Client) FetchAllProducts(ctx context.Context) ([]model.Product, error) {
	endpoint, err := c.adminURL(fmt.Sprintf("products.json?limit=%d", productsPageSize))
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0)
	page := 0
	for endpoint != "" {
		page++
		raw, header, err := c.shopifyAPIRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			c.logger.LogError("shopify products fetch failed, keeping partial catalog", err,
				zap.Int("page", page),
				zap.Int("products_so_far", len(products)),
			)
			return products, nil
		}

		var resp dto.ProductsResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			c.logger.LogError("shopify products decode failed, keeping partial catalog", err,
				zap.Int("page", page),
				zap.Int("products_so_far", len(products)),
			)
			return products, nil
		}
		for _, p := range resp.Products {
			products = append(products, mapShopifyProduct(p))
		}
		c.logger.Log("shopify products page fetched",
			zap.Int("page", page),
			zap.Int("fetched", len(resp.Products)),
			zap.Int("total", len(products)),
		)

		next := nextPageURL(header.Get("Link"))
		if next == endpoint {
			c.logger.LogWarning("shopify returned the same next page, stopping", zap.String("url", next))
			break
		}
		endpoint = next
	}
	return products, nil
}

func mapShopifyProduct(p dto.ProductDto) model.Product {
	variants := make([]model.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, model.Variant{
			ID:           v.ID,
			ProductID:    p.ID,
			SKU:          strings.TrimSpace(v.SKU),
			Price:        v.Price,
			Vendor:       p.Vendor,
			ProductTitle: p.Title,
		})
	}
	return model.Product{
		ID:       p.ID,
		Title:    p.Title,
		Vendor:   p.Vendor,
		Variants: variants,
	}
}

// nextPageURL extracts the rel="next" target from a Link header such as
// <https://shop/admin/api/2024-01/products.json?page_info=abc&limit=250>; rel="next".
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		sections := strings.Split(part, ";")
		if len(sections) < 2 {
			continue
		}
		target := strings.TrimSpace(sections[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range sections[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}
			if strings.EqualFold(strings.Trim(strings.TrimSpace(value), `"`), "next") {
				return strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
			}
		}
	}
	return ""
}
