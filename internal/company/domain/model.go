package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Company is a billed legal entity.
type Company struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Vendor          string       `gorm:"index" json:"vendor"`
	Name            string       `json:"name"`
	LicenseNo       string       `json:"license_no"`
	PartnerCode     string       `json:"partner_code"`
	IsInternalCost  bool         `json:"is_internal_cost"`
	IsOverseas      bool         `json:"is_overseas"`
	DefaultCurrency string       `json:"default_currency"`
	ContactName     string       `json:"contact_name"`
	ContactEmail    string       `json:"contact_email"`
	IsActive        bool         `json:"is_active"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

// Contract binds a company to a vendor billing relationship.
type Contract struct {
	ID                snowflake.ID     `gorm:"primaryKey" json:"id,string"`
	Vendor            string           `gorm:"index" json:"vendor"`
	Name              string           `json:"name"`
	CompanyID         snowflake.ID     `gorm:"index" json:"company_id,string"`
	Corporation       string           `json:"corporation"`
	ChargeCurrency    string           `json:"charge_currency"`
	DiscountRate      *decimal.Decimal `gorm:"type:numeric(9,6)" json:"discount_rate,omitempty"`
	SalesPerson       string           `json:"sales_person"`
	SalesContractCode string           `json:"sales_contract_code"`
	TaxInvoiceMonth   string           `json:"tax_invoice_month"`
	Enabled           bool             `json:"enabled"`
	ContractStartDate *time.Time       `json:"contract_start_date,omitempty"`
	ContractEndDate   *time.Time       `json:"contract_end_date,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

// VendorAccount is a cloud account keyed by the vendor-issued UID.
type VendorAccount struct {
	UID         string    `gorm:"primaryKey" json:"uid"`
	Vendor      string    `gorm:"index" json:"vendor"`
	Name        string    `json:"name"`
	MasterID    string    `json:"master_id"`
	Corporation string    `json:"corporation"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (VendorAccount) TableName() string { return "vendor_accounts" }

// AccountContractMapping links a vendor account to the contract billed
// for it. The first mapping whose contract is enabled wins.
type AccountContractMapping struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id,string"`
	AccountUID  string       `gorm:"index" json:"account_uid"`
	ContractID  snowflake.ID `gorm:"index" json:"contract_id,string"`
	MappingType string       `json:"mapping_type"`
	IsManual    bool         `json:"is_manual"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (AccountContractMapping) TableName() string { return "account_contract_mappings" }

// Binding is a resolved account-to-company chain used by generation.
type Binding struct {
	Contract Contract `json:"contract"`
	Company  Company  `json:"company"`
}

// CompanyUpdate patches a company.
type CompanyUpdate struct {
	Name            *string
	LicenseNo       *string
	PartnerCode     *string
	IsInternalCost  *bool
	IsOverseas      *bool
	DefaultCurrency *string
	ContactName     *string
	ContactEmail    *string
	IsActive        *bool
}

// ContractUpdate patches a contract.
type ContractUpdate struct {
	Name              *string
	Corporation       *string
	ChargeCurrency    *string
	DiscountRate      *decimal.Decimal
	SalesPerson       *string
	SalesContractCode *string
	TaxInvoiceMonth   *string
	Enabled           *bool
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
}
