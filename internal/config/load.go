package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrMissing = errors.New("missing required config")

const (
	defaultShopifyAPIVersion = "2024-01"
	defaultSchedule          = "0 */6 * * *"
)

// LoadForPricing reads the pricing service configuration from the environment.
// Storefront credentials are not enforced here; commands that talk to the
// storefront call ShopifyConfig.Validate.
func LoadForPricing() (Config, error) {
	var cfg Config
	var err error

	cfg.Shopify.ShopDomain = stringWithDefault("SHOPIFY_SHOP_DOMAIN", "")
	cfg.Shopify.Token = stringWithDefault("SHOPIFY_TOKEN", "")
	cfg.Shopify.APIVer = stringWithDefault("SHOPIFY_API_VERSION", defaultShopifyAPIVersion)
	if cfg.Shopify.Timeout, err = durationWithDefault("SHOPIFY_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Shopify.RateLimit, err = floatWithDefault("SHOPIFY_RATE_LIMIT", 2); err != nil {
		return Config{}, err
	}
	if cfg.Shopify.RateBurst, err = intWithDefault("SHOPIFY_RATE_BURST", 4); err != nil {
		return Config{}, err
	}

	cfg.Printify.BaseUrl = stringWithDefault("PRINTIFY_BASE_URL", "")
	cfg.Printify.Token = stringWithDefault("PRINTIFY_TOKEN", "")
	if cfg.Printify.Timeout, err = durationWithDefault("PRINTIFY_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}

	cfg.Pricing.RoundingMode = stringWithDefault("PRICING_ROUNDING_MODE", "none")
	if cfg.Pricing.FeeRate, err = decimalWithDefault("PRICING_FEE_RATE", "0.029"); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.FixedFee, err = decimalWithDefault("PRICING_FIXED_FEE", "0.30"); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.MarginRate, err = decimalWithDefault("PRICING_MARGIN_RATE", "0.01"); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.Tolerance, err = decimalWithDefault("PRICE_TOLERANCE", "0.009"); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.MinCost, err = decimalWithDefault("MIN_COST", "0"); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.VendorMap, err = mapWithDefault("SUPPLIER_VENDOR_MAP", nil); err != nil {
		return Config{}, err
	}
	cfg.Pricing.RemoteMarkers = sliceWithDefault("REMOTE_CATALOG_MARKERS", []string{"printify"})
	if cfg.Pricing.DryRun, err = boolWithDefault("PRICING_DRY_RUN", false); err != nil {
		return Config{}, err
	}

	cfg.Feed.Path = stringWithDefault("COST_FEED_PATH", "data/costs.csv")
	cfg.Schedule.Expression = stringWithDefault("PRICING_SCHEDULE", defaultSchedule)
	cfg.Server.Addr = stringWithDefault("HTTP_ADDR", ":8080")

	cfg.Logger.Level = stringWithDefault("LOGGER_LEVEL", "info")
	cfg.Logger.Encoding = stringWithDefault("LOGGER_ENCODING", "json")

	cfg.TelegramBot.ChatId = stringWithDefault("TELEGRAM_CHAT_ID", "")
	cfg.TelegramBot.Token = stringWithDefault("TELEGRAM_TOKEN", "")

	cfg.Kafka.Brokers = sliceWithDefault("KAFKA_BROKERS", nil)
	cfg.Kafka.Topic = stringWithDefault("KAFKA_TOPIC", "repricer.pass.completed")

	if err := cfg.Pricing.Formula().Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Pricing.Tolerance.IsNegative() {
		return Config{}, fmt.Errorf("PRICE_TOLERANCE must not be negative, got %s", cfg.Pricing.Tolerance)
	}

	return cfg, nil
}

// Validate reports the first missing storefront credential.
func (c ShopifyConfig) Validate() error {
	if c.ShopDomain == "" {
		return fmt.Errorf("%w: SHOPIFY_SHOP_DOMAIN", ErrMissing)
	}
	if c.Token == "" {
		return fmt.Errorf("%w: SHOPIFY_TOKEN", ErrMissing)
	}
	if c.APIVer == "" {
		return fmt.Errorf("%w: SHOPIFY_API_VERSION", ErrMissing)
	}
	return nil
}
