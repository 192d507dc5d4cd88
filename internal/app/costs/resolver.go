package costs

import (
	"context"
	"errors"
	"sync"

	"shopify-repricer/internal/adapters/printify"
	"shopify-repricer/internal/config"
	"shopify-repricer/internal/domain/model"
	"shopify-repricer/internal/logging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Source reports where a resolved cost came from.
type Source string

const (
	SourceFeed     Source = "feed"
	SourceRemote   Source = "remote"
	SourceNotFound Source = "not_found"
	SourceFailed   Source = "lookup_failed"
)

type Resolver struct {
	router *Router
	store  *Store
	remote printify.CostLookupService
	logger logging.LoggerService

	missingOnce sync.Once
}

// NewResolver wires the routing rules to the feed store and the remote catalog.
// remote may be nil; remote variants then resolve to zero.
func NewResolver(router *Router, store *Store, remote printify.CostLookupService, logger logging.LoggerService) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		router: router,
		store:  store,
		remote: remote,
		logger: logger,
	}
}

// Resolve returns the supplier cost of v. Zero means no usable cost.
func (r *Resolver) Resolve(ctx context.Context, v model.Variant) (decimal.Decimal, Source) {
	sku := v.TrimmedSKU()
	if r.router.Classify(v.Vendor, v.ProductTitle) == SupplierRemoteCatalog {
		return r.resolveRemote(ctx, v.ID, sku)
	}
	cost, ok := r.store.Current().Lookup(sku)
	if !ok {
		return decimal.Zero, SourceNotFound
	}
	return cost, SourceFeed
}

func (r *Resolver) resolveRemote(ctx context.Context, variantID int64, sku string) (decimal.Decimal, Source) {
	if r.remote == nil {
		r.warnMissing()
		return decimal.Zero, SourceNotFound
	}
	cost, found, err := r.remote.FindVariantCost(ctx, sku)
	if errors.Is(err, config.ErrMissing) {
		r.warnMissing()
		return decimal.Zero, SourceNotFound
	}
	if err != nil {
		r.logger.LogWarning("remote cost lookup failed",
			zap.String("sku", sku),
			zap.Int64("variant_id", variantID),
			zap.Error(err),
		)
		return decimal.Zero, SourceFailed
	}
	if !found {
		return decimal.Zero, SourceNotFound
	}
	return cost, SourceRemote
}

func (r *Resolver) warnMissing() {
	r.missingOnce.Do(func() {
		r.logger.LogWarning("remote catalog credentials missing, remote variants resolve to zero cost")
	})
}
