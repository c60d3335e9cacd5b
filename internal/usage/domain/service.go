package domain

import "context"

type Service interface {
	// Import stores a usage batch. Replace drops existing records for
	// the same (vendor, cycle, billing type) first.
	Import(ctx context.Context, req ImportRequest) (int, error)

	List(ctx context.Context, vendor, billingCycle string) ([]UsageRecord, error)

	// TotalsByAccount aggregates the cycle's usage per billing key in
	// deterministic account order.
	TotalsByAccount(ctx context.Context, vendor, billingCycle string, billingType BillingType) ([]AccountTotal, error)
}
