package printify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shopify-repricer/internal/adapters/printify/dto"
	"shopify-repricer/internal/config"

	"github.com/shopspring/decimal"
)

const (
	productsPageSize = 50
	maxPages         = 1000
)

type CostLookupService interface {
	FindVariantCost(ctx context.Context, sku string) (decimal.Decimal, bool, error)
}

type Client struct {
	config     config.PrintifyConfig
	httpClient *http.Client
	pageSize   int
}

func NewClient(cfg config.PrintifyConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		pageSize:   productsPageSize,
	}
}

// FindVariantCost scans the remote catalog page by page for sku and returns the
// first populated price of the matching variant. found is false when no variant
// matches after the last page.
func (c *Client) FindVariantCost(ctx context.Context, sku string) (decimal.Decimal, bool, error) {
	if !c.config.Enabled() {
		return decimal.Zero, false, fmt.Errorf("%w: PRINTIFY_BASE_URL/PRINTIFY_TOKEN", config.ErrMissing)
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return decimal.Zero, false, nil
	}

	for page := 1; page <= maxPages; page++ {
		products, err := c.ListProducts(ctx, page, c.pageSize)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("printify page %d: %w", page, err)
		}
		if len(products) == 0 {
			return decimal.Zero, false, nil
		}
		if variant, ok := findVariant(products, sku); ok {
			return variantCost(variant), true, nil
		}
		if len(products) < c.pageSize {
			return decimal.Zero, false, nil
		}
	}
	return decimal.Zero, false, fmt.Errorf("printify catalog exceeded %d pages", maxPages)
}

func (c *Client) ListProducts(ctx context.Context, page, limit int) ([]dto.ProductDto, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	endpoint := strings.TrimRight(c.config.BaseUrl, "/") + "/products?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("printify products request failed: %s", resp.Status)
	}

	var products dto.ProductsPage
	if err := json.Unmarshal(respBody, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func findVariant(products []dto.ProductDto, sku string) (dto.VariantDto, bool) {
	for _, product := range products {
		for _, variant := range product.Variants {
			if variantIdentifier(variant) == sku {
				return variant, true
			}
		}
	}
	return dto.VariantDto{}, false
}

// variantIdentifier is the trimmed SKU, or the offer id when the SKU is blank.
func variantIdentifier(v dto.VariantDto) string {
	if sku := strings.TrimSpace(v.SKU); sku != "" {
		return sku
	}
	return strings.TrimSpace(string(v.OfferID))
}

func variantCost(v dto.VariantDto) decimal.Decimal {
	for _, candidate := range v.PriceCandidates() {
		if candidate.Valid && candidate.Decimal.IsPositive() {
			return candidate.Decimal
		}
	}
	return decimal.Zero
}
