package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, charge *AdditionalCharge) error
	Update(ctx context.Context, id snowflake.ID, patch Update) (*AdditionalCharge, error)
	Get(ctx context.Context, id snowflake.ID) (*AdditionalCharge, error)
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, filter Filter) ([]AdditionalCharge, error)

	// Applicable returns the active charges of the contract that land
	// in the billing cycle for the given side (sales when true).
	Applicable(ctx context.Context, contractID snowflake.ID, billingCycle string, sales bool) ([]AdditionalCharge, error)
}
