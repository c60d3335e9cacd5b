package domain

import (
	"testing"

	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
	"github.com/stretchr/testify/assert"
)

var testDefaults = Defaults{
	RevenueSalesAccount:    "41021010",
	RevenuePurchaseAccount: "42021010",
	ARAccount:              "11060110",
	APAccount:              "21120110",
	TaxCode:                "A1",
}

func TestResolveVendorDefaults(t *testing.T) {
	res := Resolve(true, nil, nil, nil, testDefaults)
	assert.Equal(t, "11060110", res.CounterAccount)
	assert.Equal(t, "41021010", res.RevenueAccount)
	assert.Equal(t, "A1", res.TaxCode)

	res = Resolve(false, nil, nil, nil, testDefaults)
	assert.Equal(t, "21120110", res.CounterAccount)
	assert.Equal(t, "42021010", res.RevenueAccount)
}

func TestResolveContractOutranksCompany(t *testing.T) {
	contract := &ContractBillingProfile{
		PaymentType: PaymentCard,
		ARAccount:   "11070000",
	}
	company := &CompanyBillingProfile{
		PaymentType:         PaymentTaxInvoice,
		ARAccount:           "11080000",
		RevenueSalesAccount: "41099999",
	}

	res := Resolve(true, contract, company, nil, testDefaults)
	assert.Equal(t, "11070000", res.CounterAccount)
	// Revenue falls through to the company profile.
	assert.Equal(t, "41099999", res.RevenueAccount)
	// Tax code follows the contract's payment type.
	assert.Equal(t, "A3", res.TaxCode)
}

func TestResolvePartnerFillsCounterAccount(t *testing.T) {
	partner := &partnerdomain.Partner{ARAccount: "11050505", APAccount: "21050505"}

	res := Resolve(true, nil, nil, partner, testDefaults)
	assert.Equal(t, "11050505", res.CounterAccount)
	assert.Equal(t, "41021010", res.RevenueAccount)

	res = Resolve(false, nil, nil, partner, testDefaults)
	assert.Equal(t, "21050505", res.CounterAccount)
}

func TestResolveOverseasTaxCode(t *testing.T) {
	company := &CompanyBillingProfile{PaymentType: PaymentOverseasInvoice}
	res := Resolve(true, nil, company, nil, testDefaults)
	assert.Equal(t, "B1", res.TaxCode)
}

func TestTaxCodeFor(t *testing.T) {
	cases := map[PaymentType]string{
		PaymentDeposit:         "A1",
		PaymentTaxInvoice:      "A1",
		PaymentReverseIssue:    "A1",
		PaymentCard:            "A3",
		PaymentOverseasInvoice: "B1",
		PaymentType(""):        "",
		PaymentType("wire"):    "",
	}
	for pt, want := range cases {
		assert.Equal(t, want, TaxCodeFor(pt), string(pt))
	}
}
