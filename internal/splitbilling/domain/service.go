package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Service manages split rules and applies them during generation.
type Service interface {
	CreateRule(ctx context.Context, req CreateRequest) (*SplitBillingRule, error)
	UpdateRule(ctx context.Context, id snowflake.ID, req UpdateRequest) (*SplitBillingRule, error)
	DeleteRule(ctx context.Context, id snowflake.ID) error
	GetRule(ctx context.Context, id snowflake.ID) (*SplitBillingRule, error)
	ListRules(ctx context.Context, filter Filter) ([]SplitBillingRule, error)

	// RuleFor returns the active rule applying to an account for a
	// billing cycle, or nil when the account is not split.
	RuleFor(ctx context.Context, accountUID, billingCycle string) (*SplitBillingRule, error)

	// Simulate applies a rule to an amount without writing anything.
	Simulate(ctx context.Context, id snowflake.ID, amount decimal.Decimal) (SplitResult, error)
}
