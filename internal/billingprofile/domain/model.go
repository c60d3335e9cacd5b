package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentType drives the tax code and, for deposit, the settlement path.
type PaymentType string

const (
	PaymentDeposit         PaymentType = "deposit"
	PaymentTaxInvoice      PaymentType = "tax_invoice"
	PaymentCard            PaymentType = "card"
	PaymentReverseIssue    PaymentType = "reverse_issue"
	PaymentOverseasInvoice PaymentType = "overseas_invoice"
)

// TaxCodeFor maps a payment type to its ledger tax code. Unknown or
// empty payment types return "".
func TaxCodeFor(pt PaymentType) string {
	switch pt {
	case PaymentDeposit, PaymentTaxInvoice, PaymentReverseIssue:
		return "A1"
	case PaymentCard:
		return "A3"
	case PaymentOverseasInvoice:
		return "B1"
	}
	return ""
}

// CompanyBillingProfile holds company-level billing overrides.
type CompanyBillingProfile struct {
	ID                     snowflake.ID `gorm:"primaryKey" json:"id,string"`
	CompanyID              snowflake.ID `gorm:"uniqueIndex:ux_company_profiles_owner_vendor" json:"company_id,string"`
	Vendor                 string       `gorm:"uniqueIndex:ux_company_profiles_owner_vendor" json:"vendor"`
	PaymentType            PaymentType  `json:"payment_type"`
	Currency               string       `json:"currency"`
	RevenueSalesAccount    string       `json:"revenue_sales_account"`
	RevenuePurchaseAccount string       `json:"revenue_purchase_account"`
	ARAccount              string       `gorm:"column:ar_account" json:"ar_account"`
	APAccount              string       `gorm:"column:ap_account" json:"ap_account"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

func (CompanyBillingProfile) TableName() string { return "company_billing_profiles" }

// ContractBillingProfile holds contract-level billing overrides. It
// outranks the company profile during resolution.
type ContractBillingProfile struct {
	ID                     snowflake.ID `gorm:"primaryKey" json:"id,string"`
	ContractID             snowflake.ID `gorm:"uniqueIndex:ux_contract_profiles_owner_vendor" json:"contract_id,string"`
	Vendor                 string       `gorm:"uniqueIndex:ux_contract_profiles_owner_vendor" json:"vendor"`
	PaymentType            PaymentType  `json:"payment_type"`
	Currency               string       `json:"currency"`
	RevenueSalesAccount    string       `json:"revenue_sales_account"`
	RevenuePurchaseAccount string       `json:"revenue_purchase_account"`
	ARAccount              string       `gorm:"column:ar_account" json:"ar_account"`
	APAccount              string       `gorm:"column:ap_account" json:"ap_account"`
	ExchangeRateRule       string       `json:"exchange_rate_rule"`
	CustomExchangeRateDate *time.Time   `json:"custom_exchange_rate_date,omitempty"`
	RoundingRuleOverride   string       `json:"rounding_rule_override"`
	ProRataOverride        string       `json:"pro_rata_override"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

func (ContractBillingProfile) TableName() string { return "contract_billing_profiles" }

// CompanyProfileUpdate patches a company profile.
type CompanyProfileUpdate struct {
	PaymentType            *PaymentType
	Currency               *string
	RevenueSalesAccount    *string
	RevenuePurchaseAccount *string
	ARAccount              *string
	APAccount              *string
}

// ContractProfileUpdate patches a contract profile.
type ContractProfileUpdate struct {
	PaymentType            *PaymentType
	Currency               *string
	RevenueSalesAccount    *string
	RevenuePurchaseAccount *string
	ARAccount              *string
	APAccount              *string
	ExchangeRateRule       *string
	CustomExchangeRateDate *time.Time
	RoundingRuleOverride   *string
	ProRataOverride        *string
}
