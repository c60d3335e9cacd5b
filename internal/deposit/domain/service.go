package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Service is the deposit ledger.
type Service interface {
	// WithTx returns a copy of the service bound to tx so deposit
	// mutations can join a caller-owned transaction.
	WithTx(tx *gorm.DB) Service

	Create(ctx context.Context, req CreateRequest) (*Deposit, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Deposit, error)
	Get(ctx context.Context, id snowflake.ID) (*Deposit, error)
	List(ctx context.Context, filter Filter) ([]Deposit, error)
	Usages(ctx context.Context, depositID snowflake.ID) ([]DepositUsage, error)
	Balance(ctx context.Context, owner ProfileRef) ([]CurrencyBalance, error)

	// ConsumeFIFO consumes the requested amount against the owner's
	// deposits oldest first, all inside one transaction. When the
	// outstanding balance cannot cover the amount nothing is written
	// and ErrInsufficientBalance is returned.
	ConsumeFIFO(ctx context.Context, req ConsumeRequest) (*ConsumeResult, error)

	// Reverse undoes every usage written under a slip batch and
	// restores the corresponding remaining balances.
	Reverse(ctx context.Context, slipBatchID string) (int, error)
}
