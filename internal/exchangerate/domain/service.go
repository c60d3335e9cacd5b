package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service resolves conversion rates for slip generation.
type Service interface {
	// ResolveDate applies a date rule to a document date. The custom
	// date is only consulted for DateRuleCustom; when absent the
	// document date is used as-is.
	ResolveDate(rule DateRule, documentDate time.Time, billingCycle string, custom *time.Time) (time.Time, error)

	// Lookup returns the requested rate variant for a day, or
	// ErrRateNotFound when no quote is stored.
	Lookup(ctx context.Context, day time.Time, from, to string, rt RateType) (decimal.Decimal, error)

	// ResolveForCategory applies the category policy, including the
	// refresh-and-retry and the degraded fallback.
	ResolveForCategory(ctx context.Context, req CategoryRequest) (Resolution, error)

	List(ctx context.Context, req ListRequest) ([]ExchangeRate, error)

	// Latest returns the most recent stored quote for a pair.
	Latest(ctx context.Context, from, to string) (*ExchangeRate, error)

	Upsert(ctx context.Context, rates []ExchangeRate) (int, error)

	// Sync pulls a day's quotes from the external feed into the store.
	Sync(ctx context.Context, day time.Time) (int, error)
}
