package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type VariantStatus string

const (
	VariantUpdated VariantStatus = "updated"
	VariantSkipped VariantStatus = "skipped"
	VariantErrored VariantStatus = "error"
)

// Skip and error reasons reported on VariantResult.Reason.
const (
	ReasonNoCost          = "no_cost"
	ReasonWithinTolerance = "within_tolerance"
	ReasonUpdateFailed    = "update_failed"
	ReasonUnexpected      = "unexpected"
	ReasonDryRun          = "dry_run"
)

type VariantResult struct {
	VariantID int64
	SKU       string
	Status    VariantStatus
	Reason    string
	Cost      decimal.Decimal
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
	Err       error
}

type PricingOutcome struct {
	PassID      string    `json:"pass_id"`
	Trigger     string    `json:"trigger"`
	DryRun      bool      `json:"dry_run"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	FeedEntries int       `json:"feed_entries"`
	Products    int       `json:"products"`
	Variants    int       `json:"variants"`
	Updated     int       `json:"updated"`
	Skipped     int       `json:"skipped"`
	Errors      int       `json:"errors"`
}

// Add folds one variant result into the counters.
func (o *PricingOutcome) Add(result VariantResult) {
	switch result.Status {
	case VariantUpdated:
		o.Updated++
	case VariantSkipped:
		o.Skipped++
	default:
		o.Errors++
	}
}

func (o PricingOutcome) Duration() time.Duration {
	if o.FinishedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}
