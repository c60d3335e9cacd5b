package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/pkg/rounding"
)

// ProfileRef identifies the billing profile a deposit belongs to.
// Exactly one of the two ids is set.
type ProfileRef struct {
	CompanyProfileID  *snowflake.ID
	ContractProfileID *snowflake.ID
}

func (r ProfileRef) Valid() bool {
	return (r.CompanyProfileID != nil) != (r.ContractProfileID != nil)
}

// Deposit is a pre-paid amount consumed FIFO by slip generation.
//
// Invariants: remaining_amount stays within [0, amount] and
// is_exhausted holds exactly when remaining_amount is zero.
type Deposit struct {
	ID                snowflake.ID     `gorm:"primaryKey" json:"id,string"`
	CompanyProfileID  *snowflake.ID    `gorm:"index" json:"company_profile_id,string,omitempty"`
	ContractProfileID *snowflake.ID    `gorm:"index" json:"contract_profile_id,string,omitempty"`
	DepositDate       time.Time        `json:"deposit_date"`
	Amount            decimal.Decimal  `gorm:"type:numeric(18,2)" json:"amount"`
	Currency          string           `json:"currency"`
	ExchangeRate      *decimal.Decimal `gorm:"type:numeric(18,6)" json:"exchange_rate,omitempty"`
	RemainingAmount   decimal.Decimal  `gorm:"type:numeric(18,2)" json:"remaining_amount"`
	IsExhausted       bool             `json:"is_exhausted"`
	Reference         string           `json:"reference"`
	Description       string           `json:"description"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (Deposit) TableName() string { return "deposits" }

// DepositUsage is the append-only record of one consumption against one
// deposit.
type DepositUsage struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	DepositID       snowflake.ID    `gorm:"index" json:"deposit_id,string"`
	UsageDate       time.Time       `json:"usage_date"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2)" json:"amount"`
	AmountConverted decimal.Decimal `gorm:"type:numeric(18,2)" json:"amount_converted"`
	AppliedRate     decimal.Decimal `gorm:"type:numeric(18,6)" json:"applied_rate"`
	BillingCycle    string          `gorm:"index" json:"billing_cycle"`
	SlipBatchID     string          `gorm:"index" json:"slip_batch_id"`
	AccountUID      string          `json:"account_uid"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (DepositUsage) TableName() string { return "deposit_usages" }

// CreateRequest opens a new deposit with remaining = amount.
type CreateRequest struct {
	Owner        ProfileRef
	DepositDate  time.Time
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate *decimal.Decimal
	Reference    string
	Description  string
}

// UpdateRequest is an administrative correction. An amount change moves
// the remaining balance by the same delta, clamped to the invariant.
type UpdateRequest struct {
	DepositDate  *time.Time
	Amount       *decimal.Decimal
	ExchangeRate *decimal.Decimal
	Reference    *string
	Description  *string
}

// ConsumeRequest asks for an all-or-nothing FIFO consumption.
type ConsumeRequest struct {
	Owner        ProfileRef
	Amount       decimal.Decimal
	Currency     string
	UsageDate    time.Time
	BillingCycle string
	SlipBatchID  string
	AccountUID   string
	Description  string
	// FallbackRate converts deposits that have no stored rate.
	FallbackRate decimal.Decimal
	RoundingRule rounding.Rule
}

// ConsumeResult reports the usages written by one consumption call.
type ConsumeResult struct {
	Usages         []DepositUsage  `json:"usages"`
	Consumed       decimal.Decimal `json:"consumed"`
	ConvertedTotal decimal.Decimal `json:"converted_total"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// Filter narrows deposit listings.
type Filter struct {
	Owner            *ProfileRef
	Currency         string
	IncludeExhausted bool
	Limit            int
	Offset           int
}

// CurrencyBalance is the outstanding balance for one currency.
type CurrencyBalance struct {
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
	Deposits  int             `json:"deposits"`
}
