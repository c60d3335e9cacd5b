package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Override values carried on contract billing profiles.
const (
	OverrideEnabled  = "enabled"
	OverrideDisabled = "disabled"
)

// Reasons attached to an automatic calculation.
const (
	ReasonContractNotStarted = "contract_not_started"
	ReasonContractEnded      = "contract_ended"
	ReasonPartialMonth       = "partial_month"
	ReasonFullMonth          = "full_month"
)

// Ratio sources reported by Calculate.
const (
	SourceManual = "manual"
	SourceAuto   = "auto"
	SourceNone   = "none"
)

// ProRataPeriod is a manually registered partial-month window for one
// contract and billing cycle.
type ProRataPeriod struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	ContractID   snowflake.ID    `gorm:"uniqueIndex:ux_pro_rata_contract_cycle" json:"contract_id,string"`
	BillingCycle string          `gorm:"uniqueIndex:ux_pro_rata_contract_cycle" json:"billing_cycle"`
	StartDay     int             `json:"start_day"`
	EndDay       int             `json:"end_day"`
	TotalDays    int             `json:"total_days"`
	ActiveDays   int             `json:"active_days"`
	Ratio        decimal.Decimal `gorm:"type:numeric(9,6)" json:"ratio"`
	IsManual     bool            `json:"is_manual"`
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (ProRataPeriod) TableName() string { return "pro_rata_periods" }

// Calculation describes one derived partial-month ratio.
type Calculation struct {
	StartDay   int             `json:"start_day"`
	EndDay     int             `json:"end_day"`
	TotalDays  int             `json:"total_days"`
	ActiveDays int             `json:"active_days"`
	Ratio      decimal.Decimal `json:"ratio"`
	Reason     string          `json:"reason"`
}

// CreateRequest registers a manual period.
type CreateRequest struct {
	ContractID   snowflake.ID
	BillingCycle string
	StartDay     int
	EndDay       int
	Note         string
}

// UpdateRequest patches a manual period. Day changes recompute the ratio.
type UpdateRequest struct {
	StartDay *int
	EndDay   *int
	Note     *string
}

// Result is the ratio Calculate reports for one contract and cycle.
type Result struct {
	ContractID   snowflake.ID    `json:"contract_id,string"`
	BillingCycle string          `json:"billing_cycle"`
	Ratio        decimal.Decimal `json:"ratio"`
	Source       string          `json:"source"`
	Details      *Calculation    `json:"details,omitempty"`
}

// Filter narrows period listings.
type Filter struct {
	ContractID   *snowflake.ID
	BillingCycle string
	Limit        int
	Offset       int
}
