package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RateType selects which quoted rate variant to apply.
type RateType string

const (
	RateTypeBasic RateType = "basic"
	RateTypeSend  RateType = "send"
	RateTypeBuy   RateType = "buy"
	RateTypeSell  RateType = "sell"
)

// DateRule selects which calendar date a conversion is quoted on.
type DateRule string

const (
	DateRuleDocumentDate         DateRule = "document_date"
	DateRuleFirstOfDocumentMonth DateRule = "first_of_document_month"
	DateRuleFirstOfBillingMonth  DateRule = "first_of_billing_month"
	DateRuleLastOfPrevMonth      DateRule = "last_of_prev_month"
	DateRuleCustom               DateRule = "custom"
)

// Category identifies the slip context a conversion is made for.
type Category string

const (
	CategoryOverseas      Category = "overseas"
	CategoryDomesticSales Category = "domestic_sales"
	CategoryPurchase      Category = "purchase"
)

// ExchangeRate is one day's quoted rates for a currency pair.
type ExchangeRate struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	RateDate     time.Time       `gorm:"uniqueIndex:ux_exchange_rates_day_pair" json:"rate_date"`
	CurrencyFrom string          `gorm:"uniqueIndex:ux_exchange_rates_day_pair" json:"currency_from"`
	CurrencyTo   string          `gorm:"uniqueIndex:ux_exchange_rates_day_pair" json:"currency_to"`
	BasicRate    decimal.Decimal `gorm:"type:numeric(18,6)" json:"basic_rate"`
	SendRate     decimal.Decimal `gorm:"type:numeric(18,6)" json:"send_rate"`
	BuyRate      decimal.Decimal `gorm:"type:numeric(18,6)" json:"buy_rate"`
	SellRate     decimal.Decimal `gorm:"type:numeric(18,6)" json:"sell_rate"`
	Source       string          `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (ExchangeRate) TableName() string { return "exchange_rates" }

// RateOf picks the requested variant, falling back to basic when the
// variant is not quoted for the pair.
func (r ExchangeRate) RateOf(rt RateType) decimal.Decimal {
	switch rt {
	case RateTypeSend:
		if !r.SendRate.IsZero() {
			return r.SendRate
		}
	case RateTypeBuy:
		if !r.BuyRate.IsZero() {
			return r.BuyRate
		}
	case RateTypeSell:
		if !r.SellRate.IsZero() {
			return r.SellRate
		}
	}
	return r.BasicRate
}

// Resolution is the outcome of resolving a conversion rate for a slip.
type Resolution struct {
	Rate     decimal.Decimal `json:"rate"`
	RateDate time.Time       `json:"rate_date"`
	RateType RateType        `json:"rate_type"`
	// Degraded marks the documented fallback where the foreign amount is
	// carried over numerically because no quote could be found.
	Degraded bool `json:"degraded"`
}

// CategoryRequest asks for the rate a slip category should convert with.
// DateRule, when set, overrides the category's default date rule;
// CustomDate backs the custom rule.
type CategoryRequest struct {
	Category     Category
	DocumentDate time.Time
	BillingCycle string
	CurrencyFrom string
	CurrencyTo   string
	DateRule     DateRule
	CustomDate   *time.Time
	ManualRate   *decimal.Decimal
}

// ListRequest filters stored rates.
type ListRequest struct {
	CurrencyFrom string
	CurrencyTo   string
	From         *time.Time
	To           *time.Time
	Limit        int
}
