package domain

import (
	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
)

// Defaults are the vendor-level baseline account codes used when no
// profile or partner supplies a value.
type Defaults struct {
	RevenueSalesAccount    string
	RevenuePurchaseAccount string
	ARAccount              string
	APAccount              string
	TaxCode                string
}

// AccountResolution is the outcome of the account/tax code chain for
// one slip row.
type AccountResolution struct {
	CounterAccount string
	RevenueAccount string
	TaxCode        string
	PaymentType    PaymentType
}

// Resolve walks contract profile, company profile, partner master and
// vendor defaults in that order; the first non-empty value wins per
// field. The tax code comes from the first profile carrying a payment
// type, otherwise from the defaults. sales selects the AR/revenue-sales
// pair, purchase the AP/revenue-purchase pair.
func Resolve(sales bool, contract *ContractBillingProfile, company *CompanyBillingProfile, partner *partnerdomain.Partner, defaults Defaults) AccountResolution {
	var res AccountResolution

	type candidate struct {
		counter     string
		revenue     string
		paymentType PaymentType
	}
	candidates := make([]candidate, 0, 2)
	if contract != nil {
		if sales {
			candidates = append(candidates, candidate{contract.ARAccount, contract.RevenueSalesAccount, contract.PaymentType})
		} else {
			candidates = append(candidates, candidate{contract.APAccount, contract.RevenuePurchaseAccount, contract.PaymentType})
		}
	}
	if company != nil {
		if sales {
			candidates = append(candidates, candidate{company.ARAccount, company.RevenueSalesAccount, company.PaymentType})
		} else {
			candidates = append(candidates, candidate{company.APAccount, company.RevenuePurchaseAccount, company.PaymentType})
		}
	}

	for _, c := range candidates {
		if res.CounterAccount == "" {
			res.CounterAccount = c.counter
		}
		if res.RevenueAccount == "" {
			res.RevenueAccount = c.revenue
		}
		if res.PaymentType == "" {
			res.PaymentType = c.paymentType
		}
	}

	if res.CounterAccount == "" && partner != nil {
		if sales {
			res.CounterAccount = partner.ARAccount
		} else {
			res.CounterAccount = partner.APAccount
		}
	}

	if res.CounterAccount == "" {
		if sales {
			res.CounterAccount = defaults.ARAccount
		} else {
			res.CounterAccount = defaults.APAccount
		}
	}
	if res.RevenueAccount == "" {
		if sales {
			res.RevenueAccount = defaults.RevenueSalesAccount
		} else {
			res.RevenueAccount = defaults.RevenuePurchaseAccount
		}
	}

	if code := TaxCodeFor(res.PaymentType); code != "" {
		res.TaxCode = code
	} else {
		res.TaxCode = defaults.TaxCode
	}
	return res
}
