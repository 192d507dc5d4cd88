package main

import (
	"shopify-repricer/internal/adapters/printify"
	"shopify-repricer/internal/adapters/shopify"
	"shopify-repricer/internal/app/costs"
	"shopify-repricer/internal/app/usecases"
	"shopify-repricer/internal/config"
	infrahttp "shopify-repricer/internal/infra/http"
	"shopify-repricer/internal/infra/kafka"
	"shopify-repricer/internal/logging"

	"go.uber.org/zap"
)

type application struct {
	cfg       config.Config
	logger    *logging.Logger
	repricer  *usecases.Repricer
	publisher *kafka.OutcomePublisher
}

func buildApplication(dryRun bool) (*application, error) {
	cfg, err := config.LoadForPricing()
	if err != nil {
		return nil, err
	}
	if dryRun {
		cfg.Pricing.DryRun = true
	}

	var notifier logging.Notifier
	if telegram := logging.NewTelegramNotifier(cfg.TelegramBot, infrahttp.NewClient(0)); telegram != nil {
		notifier = telegram
	}
	logger, err := logging.New(cfg.Logger, notifier)
	if err != nil {
		return nil, err
	}

	shopifyClient := shopify.NewClient(cfg.Shopify, infrahttp.NewClient(cfg.Shopify.Timeout), logger)
	printifyClient := printify.NewClient(cfg.Printify, infrahttp.NewClient(cfg.Printify.Timeout))
	if !cfg.Printify.Enabled() {
		logger.LogWarning("remote catalog disabled: PRINTIFY_BASE_URL or PRINTIFY_TOKEN not set")
	}

	router, rejected := costs.NewRouter(cfg.Pricing.VendorMap, cfg.Pricing.RemoteMarkers)
	for _, entry := range rejected {
		logger.LogWarning("ignoring vendor map entry with unknown supplier", zap.String("entry", entry))
	}
	store := costs.NewStore()
	resolver := costs.NewResolver(router, store, printifyClient, logger)

	publisher := kafka.NewOutcomePublisher(cfg.Kafka)
	var outcomes usecases.OutcomePublisher
	if publisher != nil {
		outcomes = publisher
	}

	repricer := usecases.NewRepricer(shopifyClient, resolver, store, outcomes, logger, usecases.RepricerOptionsFromConfig(cfg))
	return &application{
		cfg:       cfg,
		logger:    logger,
		repricer:  repricer,
		publisher: publisher,
	}, nil
}

func (a *application) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.LogWarning("kafka writer close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}
