package shopify

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"shopify-repricer/internal/config"
	"shopify-repricer/internal/domain/model"
	"shopify-repricer/internal/logging"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// CatalogService is the storefront surface used by a pricing pass.
type CatalogService interface {
	FetchAllProducts(ctx context.Context) ([]model.Product, error)
	UpdateVariantPrice(ctx context.Context, variantID int64, price decimal.Decimal) bool
}

type Client struct {
	config     config.ShopifyConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.LoggerService
}

func NewClient(cfg config.ShopifyConfig, httpClient *http.Client, logger logging.LoggerService) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
}

// adminURL builds an Admin REST endpoint for the configured shop and API version.
func (c *Client) adminURL(path string) (string, error) {
	if err := c.config.Validate(); err != nil {
		return "", err
	}
	domain := strings.TrimSpace(c.config.ShopDomain)
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	domain = strings.TrimRight(domain, "/")
	return domain + "/admin/api/" + c.config.APIVer + "/" + strings.TrimLeft(path, "/"), nil
}

func (c *Client) shopifyAPIRequest(ctx context.Context, method string, endpoint string, body io.Reader) ([]byte, http.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.Header, newHTTPStatusError(resp.StatusCode, resp.Status, respBody)
	}
	return respBody, resp.Header, nil
}
