package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ChargeType string

const (
	ChargeCredit     ChargeType = "credit"
	ChargeSupportFee ChargeType = "support_fee"
	ChargeSetupFee   ChargeType = "setup_fee"
	ChargeOther      ChargeType = "other"
)

type RecurrenceType string

const (
	RecurrenceRecurring RecurrenceType = "recurring"
	RecurrenceOneTime   RecurrenceType = "one_time"
	RecurrencePeriod    RecurrenceType = "period"
)

// AdditionalCharge is a contract-level extra line item. A negative
// amount is a deduction (credits are stored negative).
type AdditionalCharge struct {
	ID                snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	ContractID        snowflake.ID    `gorm:"index" json:"contract_id,string"`
	Name              string          `json:"name"`
	ChargeType        ChargeType      `json:"charge_type"`
	Amount            decimal.Decimal `gorm:"type:numeric(20,6)" json:"amount"`
	Currency          string          `json:"currency"`
	RecurrenceType    RecurrenceType  `json:"recurrence_type"`
	StartDate         *time.Time      `json:"start_date,omitempty"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	AppliesToSales    bool            `json:"applies_to_sales"`
	AppliesToPurchase bool            `json:"applies_to_purchase"`
	IsActive          bool            `json:"is_active"`
	Note              string          `json:"note"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (AdditionalCharge) TableName() string { return "additional_charges" }

// Update patches a charge.
type Update struct {
	Name              *string
	ChargeType        *ChargeType
	Amount            *decimal.Decimal
	Currency          *string
	RecurrenceType    *RecurrenceType
	StartDate         *time.Time
	EndDate           *time.Time
	AppliesToSales    *bool
	AppliesToPurchase *bool
	IsActive          *bool
	Note              *string
}

// Filter narrows List.
type Filter struct {
	ContractID *snowflake.ID
	ChargeType ChargeType
	ActiveOnly bool
}
