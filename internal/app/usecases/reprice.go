package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"shopify-repricer/internal/adapters/feed"
	"shopify-repricer/internal/adapters/shopify"
	"shopify-repricer/internal/app/costs"
	"shopify-repricer/internal/config"
	"shopify-repricer/internal/domain/model"
	"shopify-repricer/internal/domain/pricing"
	"shopify-repricer/internal/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrPassInProgress = errors.New("pricing pass already in progress")
	ErrUpdateFailed   = errors.New("variant price update failed")
)

const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerCLI       = "cli"
)

type RepricerService interface {
	Run(ctx context.Context, trigger string) (model.PricingOutcome, error)
	ReloadFeed(ctx context.Context) (int, error)
}

type CostResolver interface {
	Resolve(ctx context.Context, v model.Variant) (decimal.Decimal, costs.Source)
}

type OutcomePublisher interface {
	Publish(ctx context.Context, outcome model.PricingOutcome) error
}

type RepricerOptions struct {
	FeedPath  string
	Formula   pricing.Formula
	Rounding  pricing.RoundingMode
	Tolerance decimal.Decimal
	MinCost   decimal.Decimal
	DryRun    bool
}

func RepricerOptionsFromConfig(cfg config.Config) RepricerOptions {
	return RepricerOptions{
		FeedPath:  cfg.Feed.Path,
		Formula:   cfg.Pricing.Formula(),
		Rounding:  pricing.ParseRoundingMode(cfg.Pricing.RoundingMode),
		Tolerance: cfg.Pricing.Tolerance,
		MinCost:   cfg.Pricing.MinCost,
		DryRun:    cfg.Pricing.DryRun,
	}
}

type Repricer struct {
	catalog   shopify.CatalogService
	resolver  CostResolver
	store     *costs.Store
	publisher OutcomePublisher
	logger    logging.LoggerService
	opts      RepricerOptions

	running atomic.Bool
}

// NewRepricer builds the reconciliation pass. publisher may be nil.
func NewRepricer(
	catalog shopify.CatalogService,
	resolver CostResolver,
	store *costs.Store,
	publisher OutcomePublisher,
	logger logging.LoggerService,
	opts RepricerOptions,
) *Repricer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Repricer{
		catalog:   catalog,
		resolver:  resolver,
		store:     store,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
	}
}

// Run executes one full pricing pass. Only one pass runs at a time; a
// concurrent call returns ErrPassInProgress without doing any work.
func (r *Repricer) Run(ctx context.Context, trigger string) (model.PricingOutcome, error) {
	if !r.running.CompareAndSwap(false, true) {
		return model.PricingOutcome{}, ErrPassInProgress
	}
	defer r.running.Store(false)

	outcome := model.PricingOutcome{
		PassID:    uuid.NewString(),
		Trigger:   trigger,
		DryRun:    r.opts.DryRun,
		StartedAt: time.Now().UTC(),
	}
	passFields := []zap.Field{zap.String("pass_id", outcome.PassID), zap.String("trigger", trigger)}
	r.logger.Log("pricing pass started", append(passFields, zap.Bool("dry_run", r.opts.DryRun))...)

	// A missing or broken feed leaves an empty table; feed variants then skip.
	outcome.FeedEntries, _ = r.ReloadFeed(ctx)

	products, err := r.catalog.FetchAllProducts(ctx)
	if err != nil {
		outcome.FinishedAt = time.Now().UTC()
		r.logger.LogError("pricing pass aborted: catalog fetch failed", err, passFields...)
		return outcome, fmt.Errorf("fetch products: %w", err)
	}

	variants := model.FlattenVariants(products)
	outcome.Products = len(products)
	outcome.Variants = len(variants)

	for _, variant := range variants {
		if ctx.Err() != nil {
			outcome.FinishedAt = time.Now().UTC()
			r.logger.LogWarning("pricing pass interrupted", append(passFields,
				zap.Int("updated", outcome.Updated),
				zap.Int("skipped", outcome.Skipped),
				zap.Int("errors", outcome.Errors),
			)...)
			return outcome, ctx.Err()
		}
		outcome.Add(r.priceVariant(ctx, variant))
	}

	outcome.FinishedAt = time.Now().UTC()
	r.logger.LogSuccess("pricing pass completed", append(passFields,
		zap.Int("products", outcome.Products),
		zap.Int("variants", outcome.Variants),
		zap.Int("updated", outcome.Updated),
		zap.Int("skipped", outcome.Skipped),
		zap.Int("errors", outcome.Errors),
		zap.Int("feed_entries", outcome.FeedEntries),
		zap.Bool("dry_run", outcome.DryRun),
		zap.Duration("duration", outcome.Duration()),
	)...)

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, outcome); err != nil {
			r.logger.LogWarning("pricing outcome publish failed", append(passFields, zap.Error(err))...)
		}
	}
	return outcome, nil
}

// ReloadFeed rebuilds the cost table from the bulk feed and swaps it in. An
// unreadable feed installs an empty table and returns the load error.
func (r *Repricer) ReloadFeed(_ context.Context) (int, error) {
	entries, stats, err := feed.LoadCostTable(r.opts.FeedPath)
	if err != nil {
		r.store.Swap(costs.NewTable(nil))
		r.logger.LogError("cost feed unreadable, using empty cost table", err, zap.String("path", r.opts.FeedPath))
		return 0, err
	}

	table := costs.NewTable(entries)
	r.store.Swap(table)
	r.logger.Log("cost feed loaded",
		zap.String("path", r.opts.FeedPath),
		zap.Int("rows", stats.Rows),
		zap.Int("loaded", table.Len()),
		zap.Int("skipped_empty_sku", stats.SkippedEmptySKU),
		zap.Int("invalid_cost", stats.InvalidCost),
		zap.Int("duplicates", stats.Duplicates),
	)
	return table.Len(), nil
}

func (r *Repricer) priceVariant(ctx context.Context, v model.Variant) (result model.VariantResult) {
	sku := v.TrimmedSKU()
	result = model.VariantResult{VariantID: v.ID, SKU: sku, OldPrice: v.Price}
	fields := []zap.Field{zap.Int64("variant_id", v.ID), zap.String("sku", sku)}

	defer func() {
		if rec := recover(); rec != nil {
			result.Status = model.VariantErrored
			result.Reason = model.ReasonUnexpected
			result.Err = fmt.Errorf("unexpected error pricing variant %d: %v", v.ID, rec)
			r.logger.LogWarning("variant pricing failed", append(fields, zap.Error(result.Err))...)
		}
	}()

	cost, source := r.resolver.Resolve(ctx, v)
	result.Cost = cost
	if cost.IsZero() || cost.LessThanOrEqual(r.opts.MinCost) {
		result.Status = model.VariantSkipped
		result.Reason = model.ReasonNoCost
		r.logger.Log("variant skipped: no usable cost", append(fields, zap.String("source", string(source)))...)
		return result
	}

	target := r.opts.Formula.TargetPrice(cost, r.opts.Rounding)
	result.NewPrice = target
	fields = append(fields,
		zap.String("cost", cost.StringFixed(2)),
		zap.String("old_price", v.Price.StringFixed(2)),
		zap.String("new_price", target.StringFixed(2)),
	)

	if target.Sub(v.Price).Abs().LessThanOrEqual(r.opts.Tolerance) {
		result.Status = model.VariantSkipped
		result.Reason = model.ReasonWithinTolerance
		return result
	}

	if r.opts.DryRun {
		result.Status = model.VariantUpdated
		result.Reason = model.ReasonDryRun
		r.logger.Log("variant price would change", fields...)
		return result
	}

	if !r.catalog.UpdateVariantPrice(ctx, v.ID, target) {
		result.Status = model.VariantErrored
		result.Reason = model.ReasonUpdateFailed
		result.Err = ErrUpdateFailed
		return result
	}

	result.Status = model.VariantUpdated
	r.logger.Log("variant price updated", fields...)
	return result
}
