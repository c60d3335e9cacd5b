package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SplitType is how one allocation's share is expressed.
type SplitType string

const (
	SplitTypePercentage  SplitType = "percentage"
	SplitTypeFixedAmount SplitType = "fixed_amount"
)

// SplitBillingRule fans one account's billed amount out to several
// companies. The rule applies to a cycle when its effective window
// contains the first day of the cycle month.
type SplitBillingRule struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Name             string       `json:"name"`
	SourceAccountUID string       `gorm:"index" json:"source_account_uid"`
	SourceContractID snowflake.ID `json:"source_contract_id,string"`
	EffectiveFrom    *time.Time   `json:"effective_from,omitempty"`
	EffectiveTo      *time.Time   `json:"effective_to,omitempty"`
	IsActive         bool         `json:"is_active"`
	Note             string       `json:"note"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	Allocations []SplitBillingAllocation `gorm:"foreignKey:RuleID" json:"allocations"`
}

func (SplitBillingRule) TableName() string { return "split_billing_rules" }

// SplitBillingAllocation is one target company's share under a rule.
type SplitBillingAllocation struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	RuleID          snowflake.ID    `gorm:"index" json:"rule_id,string"`
	TargetCompanyID snowflake.ID    `json:"target_company_id,string"`
	SplitType       SplitType       `json:"split_type"`
	SplitValue      decimal.Decimal `gorm:"type:numeric(18,6)" json:"split_value"`
	Priority        int             `json:"priority"`
	Note            string          `json:"note"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (SplitBillingAllocation) TableName() string { return "split_billing_allocations" }

// AllocationAmount is one computed share of a source amount.
type AllocationAmount struct {
	AllocationID    snowflake.ID    `json:"allocation_id,string"`
	TargetCompanyID snowflake.ID    `json:"target_company_id,string"`
	SplitType       SplitType       `json:"split_type"`
	Amount          decimal.Decimal `json:"amount"`
}

// SplitResult is the deterministic outcome of applying a rule.
type SplitResult struct {
	Allocations []AllocationAmount `json:"allocations"`
	Remainder   decimal.Decimal    `json:"remainder"`
}

// AllocationInput is one allocation line on a create or update request.
type AllocationInput struct {
	TargetCompanyID snowflake.ID
	SplitType       SplitType
	SplitValue      decimal.Decimal
	Priority        int
	Note            string
}

// CreateRequest registers a rule with its allocations.
type CreateRequest struct {
	Name             string
	SourceAccountUID string
	SourceContractID snowflake.ID
	EffectiveFrom    *time.Time
	EffectiveTo      *time.Time
	Note             string
	Allocations      []AllocationInput
}

// UpdateRequest patches a rule. A non-nil Allocations slice replaces
// the full allocation set.
type UpdateRequest struct {
	Name          *string
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	IsActive      *bool
	Note          *string
	Allocations   []AllocationInput
}

// Filter narrows rule listings.
type Filter struct {
	SourceAccountUID string
	IsActive         *bool
	Limit            int
	Offset           int
}
