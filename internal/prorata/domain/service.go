package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ContractDates supplies the contract window for automatic derivation.
type ContractDates struct {
	Start *time.Time
	End   *time.Time
}

// Service manages manual periods and answers ratio lookups.
type Service interface {
	CreatePeriod(ctx context.Context, req CreateRequest) (*ProRataPeriod, error)
	UpdatePeriod(ctx context.Context, id snowflake.ID, req UpdateRequest) (*ProRataPeriod, error)
	DeletePeriod(ctx context.Context, id snowflake.ID) error
	GetPeriod(ctx context.Context, id snowflake.ID) (*ProRataPeriod, error)
	ListPeriods(ctx context.Context, filter Filter) ([]ProRataPeriod, error)

	// Calculate reports the ratio and its source, manual first.
	Calculate(ctx context.Context, contractID snowflake.ID, cycle string, dates ContractDates) (Result, error)

	// RatioFor is the generation-time lookup. A nil ratio means the
	// full amount is billable. vendorEnabled is the vendor default,
	// override the per-contract profile setting.
	RatioFor(ctx context.Context, contractID snowflake.ID, cycle string, dates ContractDates, vendorEnabled bool, override string) (*decimal.Decimal, string, error)
}
