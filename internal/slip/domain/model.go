package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	usagedomain "github.com/smallbiznis/cloudslip/internal/usage/domain"
	"github.com/smallbiznis/cloudslip/pkg/rounding"
)

// SlipType is the ledger side a batch is generated for.
type SlipType string

const (
	SlipSales    SlipType = "sales"
	SlipPurchase SlipType = "purchase"
)

func (t SlipType) Valid() bool { return t == SlipSales || t == SlipPurchase }

// SourceKind marks what produced a slip row.
type SourceKind string

const (
	SourceBilling          SourceKind = "billing"
	SourceAdditionalCharge SourceKind = "additional_charge"
	SourceSplit            SourceKind = "split"
)

// SlipRecord is one ledger entry line. Rows are bulk-created per batch,
// editable while unconfirmed, and immutable once confirmed.
type SlipRecord struct {
	ID                   snowflake.ID     `gorm:"primaryKey" json:"id,string"`
	BatchID              string           `gorm:"index" json:"batch_id"`
	SlipType             SlipType         `json:"slip_type"`
	Vendor               string           `gorm:"index" json:"vendor"`
	BillingCycle         string           `gorm:"index" json:"billing_cycle"`
	Seqno                int              `json:"seqno"`
	CompanyCode          string           `json:"company_code"`
	DocumentDate         time.Time        `json:"document_date"`
	PostingDate          time.Time        `json:"posting_date"`
	Currency             string           `json:"currency"`
	Description          string           `json:"description"`
	PartnerCode          string           `json:"partner_code"`
	PartnerName          string           `json:"partner_name"`
	ARAccount            string           `gorm:"column:ar_account" json:"ar_account"`
	RevenueAccount       string           `json:"revenue_account"`
	TaxCode              string           `json:"tax_code"`
	Amount               decimal.Decimal  `gorm:"type:numeric(20,2)" json:"amount"`
	AmountUSD            decimal.Decimal  `gorm:"column:amount_usd;type:numeric(20,6)" json:"amount_usd"`
	OriginalAmountUSD    decimal.Decimal  `gorm:"column:original_amount_usd;type:numeric(20,6)" json:"original_amount_usd"`
	AppliedRate          decimal.Decimal  `gorm:"type:numeric(18,6)" json:"applied_rate"`
	ProRataRatio         *decimal.Decimal `gorm:"type:numeric(9,6)" json:"pro_rata_ratio,omitempty"`
	ProfitCenter         string           `json:"profit_center"`
	PartnerRef           string           `json:"partner_ref"`
	SalesContractCode    string           `json:"sales_contract_code"`
	PurchaseContractCode string           `json:"purchase_contract_code"`
	SalesPerson          string           `json:"sales_person"`
	ReferenceCode        string           `json:"reference_code"`
	InvoiceNo            string           `json:"invoice_no"`
	DepositGroupNo       string           `json:"deposit_group_no"`
	SourceKind           SourceKind       `json:"source_kind"`
	SplitRuleID          *snowflake.ID    `json:"split_rule_id,string,omitempty"`
	SplitAllocationID    *snowflake.ID    `json:"split_allocation_id,string,omitempty"`
	AccountUID           string           `json:"account_uid"`
	ContractID           *snowflake.ID    `json:"contract_id,string,omitempty"`
	CompanyID            *snowflake.ID    `json:"company_id,string,omitempty"`
	IsConfirmed          bool             `json:"is_confirmed"`
	IsExported           bool             `json:"is_exported"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func (SlipRecord) TableName() string { return "slip_records" }

// SlipConfig holds per-vendor generation defaults.
type SlipConfig struct {
	ID                     snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	Vendor                 string        `gorm:"uniqueIndex" json:"vendor"`
	CompanyCode            string        `json:"company_code"`
	ProfitCenter           string        `json:"profit_center"`
	RevenueSalesAccount    string        `json:"revenue_sales_account"`
	RevenuePurchaseAccount string        `json:"revenue_purchase_account"`
	ARAccountDefault       string        `gorm:"column:ar_account_default" json:"ar_account_default"`
	APAccountDefault       string        `gorm:"column:ap_account_default" json:"ap_account_default"`
	ReferenceCode          string        `json:"reference_code"`
	DescriptionTemplate    string        `json:"description_template"`
	RoundingRule           rounding.Rule `json:"rounding_rule"`
	ProRataEnabled         bool          `json:"pro_rata_enabled"`
	LocalCurrency          string        `json:"local_currency"`
	UsageCurrency          string        `json:"usage_currency"`
	DefaultTaxCode         string        `json:"default_tax_code"`
	SalesRateRule          string        `json:"sales_rate_rule"`
	PurchaseRateRule       string        `json:"purchase_rate_rule"`
	OverseasRateRule       string        `json:"overseas_rate_rule"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

func (SlipConfig) TableName() string { return "slip_configs" }

// DefaultConfig is the baseline used when a vendor has no stored
// configuration row.
func DefaultConfig(vendor string) SlipConfig {
	return SlipConfig{
		Vendor:                 vendor,
		CompanyCode:            "1100",
		ProfitCenter:           "10000003",
		RevenueSalesAccount:    "41021010",
		RevenuePurchaseAccount: "42021010",
		ARAccountDefault:       "11060110",
		APAccountDefault:       "21120110",
		ReferenceCode:          "IBABA001",
		DescriptionTemplate:    "{MM} cloud {TYPE}",
		RoundingRule:           rounding.RuleFloor,
		ProRataEnabled:         true,
		LocalCurrency:          "KRW",
		UsageCurrency:          "USD",
		DefaultTaxCode:         "A1",
		SalesRateRule:          "document_date",
		PurchaseRateRule:       "document_date",
		OverseasRateRule:       "first_of_document_month",
	}
}

// GenerateRequest describes one generation run.
type GenerateRequest struct {
	Vendor       string                  `json:"vendor"`
	BillingCycle string                  `json:"billing_cycle"`
	SlipType     SlipType                `json:"slip_type"`
	BillingType  usagedomain.BillingType `json:"billing_type"`
	DocumentDate time.Time               `json:"document_date"`
	PostingDate  *time.Time              `json:"posting_date,omitempty"`
	ManualRate   *decimal.Decimal        `json:"manual_rate,omitempty"`
	InvoiceNo    string                  `json:"invoice_no"`
}

// GenerateSummary reports one finished generation run.
type GenerateSummary struct {
	BatchID             string          `json:"batch_id"`
	SlipType            SlipType        `json:"slip_type"`
	BillingCycle        string          `json:"billing_cycle"`
	TotalRecords        int             `json:"total_records"`
	WithPartner         int             `json:"with_partner"`
	WithoutPartner      int             `json:"without_partner"`
	UnmappedAccounts    int             `json:"unmapped_accounts"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	TotalAmountUSD      decimal.Decimal `json:"total_amount_usd"`
	InternalCostUSD     decimal.Decimal `json:"internal_cost_usd"`
	OverseasUSD         decimal.Decimal `json:"overseas_usd"`
	AdditionalChargeUSD decimal.Decimal `json:"additional_charge_usd"`
	SplitUSD            decimal.Decimal `json:"split_usd"`
	SplitRemainderUSD   decimal.Decimal `json:"split_remainder_usd"`
	DepositConsumed     decimal.Decimal `json:"deposit_consumed"`
	RateFallbacks       int             `json:"rate_fallbacks"`
}

// BatchSummary is one batch in the batch listing.
type BatchSummary struct {
	BatchID      string          `json:"batch_id"`
	SlipType     SlipType        `json:"slip_type"`
	Vendor       string          `json:"vendor"`
	BillingCycle string          `json:"billing_cycle"`
	Records      int             `json:"records"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Confirmed    bool            `json:"confirmed"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RecordUpdate patches an unconfirmed slip row.
type RecordUpdate struct {
	PartnerCode       *string
	Description       *string
	ARAccount         *string
	RevenueAccount    *string
	TaxCode           *string
	SalesContractCode *string
	InvoiceNo         *string
}

// Filter narrows row listings.
type Filter struct {
	Vendor       string
	BillingCycle string
	BatchID      string
	SlipType     SlipType
	Limit        int
	Offset       int
}
