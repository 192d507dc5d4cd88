package config

import (
	"time"

	"shopify-repricer/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

type Config struct {
	Shopify     ShopifyConfig
	Printify    PrintifyConfig
	Pricing     PricingConfig
	Feed        FeedConfig
	Schedule    ScheduleConfig
	Server      ServerConfig
	Logger      LoggerConfig
	TelegramBot TelegramBotConfig
	Kafka       KafkaConfig
}

type ShopifyConfig struct {
	ShopDomain string
	Token      string
	APIVer     string
	Timeout    time.Duration
	RateLimit  float64
	RateBurst  int
}

// PrintifyConfig is optional: an empty BaseUrl or Token disables remote cost lookups.
type PrintifyConfig struct {
	BaseUrl string
	Token   string
	Timeout time.Duration
}

func (c PrintifyConfig) Enabled() bool {
	return c.BaseUrl != "" && c.Token != ""
}

type PricingConfig struct {
	RoundingMode  string
	FeeRate       decimal.Decimal
	FixedFee      decimal.Decimal
	MarginRate    decimal.Decimal
	Tolerance     decimal.Decimal
	MinCost       decimal.Decimal
	VendorMap     map[string]string
	RemoteMarkers []string
	DryRun        bool
}

func (c PricingConfig) Formula() pricing.Formula {
	return pricing.Formula{
		FeeRate:    c.FeeRate,
		FixedFee:   c.FixedFee,
		MarginRate: c.MarginRate,
	}
}

type FeedConfig struct {
	Path string
}

type ScheduleConfig struct {
	Expression string
}

type ServerConfig struct {
	Addr string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type TelegramBotConfig struct {
	ChatId string
	Token  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}
