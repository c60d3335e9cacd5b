package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// BillingType selects the aggregation key: enduser usage is keyed by
// the account itself, reseller usage by the linked (child) account.
type BillingType string

const (
	BillingEnduser  BillingType = "enduser"
	BillingReseller BillingType = "reseller"
)

// UsageRecord is one imported vendor charge line. Records are treated
// as read-only input during slip generation.
type UsageRecord struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	Vendor           string          `gorm:"index:ix_usage_vendor_cycle" json:"vendor"`
	BillingCycle     string          `gorm:"index:ix_usage_vendor_cycle" json:"billing_cycle"`
	BillingType      BillingType     `json:"billing_type"`
	AccountUID       string          `gorm:"index" json:"account_uid"`
	LinkedAccountUID string          `json:"linked_account_uid"`
	ProductCode      string          `json:"product_code"`
	Amount           decimal.Decimal `gorm:"type:numeric(20,6)" json:"amount"`
	Currency         string          `json:"currency"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (UsageRecord) TableName() string { return "usage_records" }

// AccountTotal is the per-account aggregate slip generation consumes.
type AccountTotal struct {
	AccountUID string
	Amount     decimal.Decimal
}

// ImportRequest carries one usage import batch.
type ImportRequest struct {
	Vendor       string      `json:"vendor"`
	BillingCycle string      `json:"billing_cycle"`
	BillingType  BillingType `json:"billing_type"`
	Replace      bool        `json:"replace"`
	Records      []ImportRecord
}

type ImportRecord struct {
	AccountUID       string          `json:"account_uid"`
	LinkedAccountUID string          `json:"linked_account_uid"`
	ProductCode      string          `json:"product_code"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}
