package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/cloudslip/internal/additionalcharge/domain"
	chargeservice "github.com/smallbiznis/cloudslip/internal/additionalcharge/service"
	profiledomain "github.com/smallbiznis/cloudslip/internal/billingprofile/domain"
	profileservice "github.com/smallbiznis/cloudslip/internal/billingprofile/service"
	"github.com/smallbiznis/cloudslip/internal/clock"
	companydomain "github.com/smallbiznis/cloudslip/internal/company/domain"
	companyservice "github.com/smallbiznis/cloudslip/internal/company/service"
	depositdomain "github.com/smallbiznis/cloudslip/internal/deposit/domain"
	depositservice "github.com/smallbiznis/cloudslip/internal/deposit/service"
	ratedomain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	raterepo "github.com/smallbiznis/cloudslip/internal/exchangerate/repository"
	rateservice "github.com/smallbiznis/cloudslip/internal/exchangerate/service"
	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
	partnerservice "github.com/smallbiznis/cloudslip/internal/partner/service"
	proratadomain "github.com/smallbiznis/cloudslip/internal/prorata/domain"
	prorataservice "github.com/smallbiznis/cloudslip/internal/prorata/service"
	domain "github.com/smallbiznis/cloudslip/internal/slip/domain"
	splitdomain "github.com/smallbiznis/cloudslip/internal/splitbilling/domain"
	splitservice "github.com/smallbiznis/cloudslip/internal/splitbilling/service"
	usagedomain "github.com/smallbiznis/cloudslip/internal/usage/domain"
	usageservice "github.com/smallbiznis/cloudslip/internal/usage/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var docDate = time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

type fixture struct {
	slip     domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	company  companydomain.Service
	partner  partnerdomain.Service
	profiles profiledomain.Service
	rates    ratedomain.Service
	deposits depositdomain.Service
	splits   splitdomain.Service
	charges  chargedomain.Service
	usage    usagedomain.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&companydomain.Contract{},
		&companydomain.VendorAccount{},
		&companydomain.AccountContractMapping{},
		&partnerdomain.Partner{},
		&profiledomain.CompanyBillingProfile{},
		&profiledomain.ContractBillingProfile{},
		&depositdomain.Deposit{},
		&depositdomain.DepositUsage{},
		&proratadomain.ProRataPeriod{},
		&splitdomain.SplitBillingRule{},
		&splitdomain.SplitBillingAllocation{},
		&ratedomain.ExchangeRate{},
		&chargedomain.AdditionalCharge{},
		&usagedomain.UsageRecord{},
		&domain.SlipConfig{},
		&domain.SlipRecord{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	clk := clock.NewFakeClock(docDate)

	f := &fixture{
		db:       db,
		node:     node,
		company:  companyservice.NewService(companyservice.Params{DB: db, Node: node, Log: log}),
		partner:  partnerservice.NewService(partnerservice.Params{DB: db, Node: node, Log: log}),
		profiles: profileservice.NewService(profileservice.Params{DB: db, Node: node, Log: log}),
		rates:    rateservice.NewService(rateservice.Params{Repo: raterepo.NewRepository(db, node), Log: log}),
		deposits: depositservice.NewService(depositservice.Params{DB: db, Node: node, Clock: clk, Log: log}),
		splits:   splitservice.NewService(splitservice.Params{DB: db, Node: node, Log: log}),
		charges:  chargeservice.NewService(chargeservice.Params{DB: db, Node: node, Log: log}),
		usage:    usageservice.NewService(usageservice.Params{DB: db, Node: node, Log: log}),
	}
	prorata := prorataservice.NewService(prorataservice.Params{DB: db, Node: node, Clock: clk, Log: log})

	f.slip = NewService(Params{
		DB:       db,
		Node:     node,
		Clock:    clk,
		Log:      log,
		Usage:    f.usage,
		Company:  f.company,
		Partner:  f.partner,
		Profiles: f.profiles,
		Rates:    f.rates,
		Deposits: f.deposits,
		ProRata:  prorata,
		Splits:   f.splits,
		Charges:  f.charges,
	})
	return f
}

// seedMapping wires account -> contract -> company and returns both ids.
func (f *fixture) seedMapping(t *testing.T, uid string, mutate func(*companydomain.Company, *companydomain.Contract)) (snowflake.ID, snowflake.ID) {
	t.Helper()
	ctx := context.Background()

	company := companydomain.Company{Vendor: "alibaba", Name: "Acme " + uid, IsActive: true}
	contract := companydomain.Contract{Vendor: "alibaba", Name: "Contract " + uid, Enabled: true,
		SalesContractCode: "SC-" + uid, SalesPerson: "kim"}
	if mutate != nil {
		mutate(&company, &contract)
	}
	require.NoError(t, f.company.CreateCompany(ctx, &company))
	contract.CompanyID = company.ID
	require.NoError(t, f.company.CreateContract(ctx, &contract))
	require.NoError(t, f.company.UpsertAccount(ctx, &companydomain.VendorAccount{UID: uid, Vendor: "alibaba", IsActive: true}))
	require.NoError(t, f.company.CreateMapping(ctx, &companydomain.AccountContractMapping{AccountUID: uid, ContractID: contract.ID}))
	return company.ID, contract.ID
}

func (f *fixture) seedRate(t *testing.T, day time.Time, basic, send string) {
	t.Helper()
	_, err := f.rates.Upsert(context.Background(), []ratedomain.ExchangeRate{{
		RateDate:     day,
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
		BasicRate:    decimal.RequireFromString(basic),
		SendRate:     decimal.RequireFromString(send),
		Source:       "manual",
	}})
	require.NoError(t, err)
}

func (f *fixture) importUsage(t *testing.T, uid, amount string) {
	t.Helper()
	_, err := f.usage.Import(context.Background(), usagedomain.ImportRequest{
		Vendor:       "alibaba",
		BillingCycle: "202501",
		BillingType:  usagedomain.BillingEnduser,
		Records: []usagedomain.ImportRecord{{
			AccountUID: uid,
			Amount:     decimal.RequireFromString(amount),
			Currency:   "USD",
		}},
	})
	require.NoError(t, err)
}

func genRequest(slipType domain.SlipType) domain.GenerateRequest {
	return domain.GenerateRequest{
		Vendor:       "alibaba",
		BillingCycle: "202501",
		SlipType:     slipType,
		DocumentDate: docDate,
	}
}

func TestGenerateSalesConvertsUsage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.partner.Create(ctx, &partnerdomain.Partner{
		BPNumber: "P100", Name: "Partner One", ARAccount: "11119999", IsActive: true,
	}))
	f.seedMapping(t, "acct-1", func(c *companydomain.Company, _ *companydomain.Contract) {
		c.PartnerCode = "P100"
	})
	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.Len(t, sum.BatchID, 8)
	require.Equal(t, 1, sum.TotalRecords)
	require.Equal(t, 1, sum.WithPartner)
	require.Zero(t, sum.WithoutPartner)
	require.True(t, sum.TotalAmount.Equal(decimal.RequireFromString("135000")))
	require.True(t, sum.TotalAmountUSD.Equal(decimal.RequireFromString("100")))

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Equal(t, 1, row.Seqno)
	require.Equal(t, "KRW", row.Currency)
	require.True(t, row.Amount.Equal(decimal.RequireFromString("135000")))
	require.True(t, row.AppliedRate.Equal(decimal.RequireFromString("1350")))
	require.Equal(t, "P100", row.PartnerCode)
	require.Equal(t, "Partner One", row.PartnerName)
	require.Equal(t, "11119999", row.ARAccount)
	require.Equal(t, "41021010", row.RevenueAccount)
	require.Equal(t, "A1", row.TaxCode)
	require.Equal(t, "SC-acct-1", row.SalesContractCode)
	require.Equal(t, "SC-acct-1", row.PurchaseContractCode)
	require.Equal(t, "01 cloud sales", row.Description)
	require.Nil(t, row.ProRataRatio)
	require.Equal(t, domain.SourceBilling, row.SourceKind)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.slip.Generate(ctx, domain.GenerateRequest{
		Vendor: "alibaba", BillingCycle: "202501", SlipType: "bogus", DocumentDate: docDate,
	})
	require.ErrorIs(t, err, domain.ErrInvalidSlipType)

	_, err = f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.ErrorIs(t, err, domain.ErrNoUsageData)
}

func TestGenerateUnmappedAccountRowBlocksConfirm(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.partner.Create(ctx, &partnerdomain.Partner{
		BPNumber: "P100", Name: "Partner One", IsActive: true,
	}))
	f.seedMapping(t, "acct-1", func(c *companydomain.Company, _ *companydomain.Contract) {
		c.PartnerCode = "P100"
	})
	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")
	f.importUsage(t, "acct-ghost", "50")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.Equal(t, 2, sum.TotalRecords)
	require.Equal(t, 1, sum.UnmappedAccounts)
	require.Equal(t, 1, sum.WithoutPartner)
	require.True(t, sum.TotalAmountUSD.Equal(decimal.RequireFromString("150")))

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var ghost *domain.SlipRecord
	for i := range rows {
		if rows[i].AccountUID == "acct-ghost" {
			ghost = &rows[i]
		}
	}
	require.NotNil(t, ghost)
	// The charge stays on the ledger with vendor defaults; the missing
	// partner keeps the batch unconfirmable.
	require.Empty(t, ghost.PartnerCode)
	require.Equal(t, "11060110", ghost.ARAccount)
	require.Equal(t, "41021010", ghost.RevenueAccount)
	require.Nil(t, ghost.ContractID)
	require.True(t, ghost.Amount.Equal(decimal.RequireFromString("67500")), "amount %s", ghost.Amount)

	_, err = f.slip.Confirm(ctx, sum.BatchID)
	require.ErrorIs(t, err, domain.ErrPartnerMissing)
}

func TestGenerateProRatesMidMonthContract(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	f.seedMapping(t, "acct-1", func(_ *companydomain.Company, c *companydomain.Contract) {
		c.ContractStartDate = &start
	})
	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]
	require.NotNil(t, row.ProRataRatio)
	// 17 active days of 31, 6 decimal places.
	require.True(t, row.ProRataRatio.Equal(decimal.RequireFromString("0.548387")), "ratio %s", row.ProRataRatio)
	require.True(t, row.AmountUSD.Equal(decimal.RequireFromString("54.8387")))
	require.True(t, row.OriginalAmountUSD.Equal(decimal.RequireFromString("100")))
	require.True(t, row.Amount.Equal(decimal.RequireFromString("74032")), "amount %s", row.Amount)
}

func TestGenerateConsumesDeposits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, contractID := f.seedMapping(t, "acct-1", nil)
	profile := profiledomain.ContractBillingProfile{
		ContractID: contractID, Vendor: "alibaba", PaymentType: profiledomain.PaymentDeposit,
	}
	require.NoError(t, f.profiles.CreateContractProfile(ctx, &profile))

	fixed := decimal.RequireFromString("1300")
	dep, err := f.deposits.Create(ctx, depositdomain.CreateRequest{
		Owner:        depositdomain.ProfileRef{ContractProfileID: &profile.ID},
		DepositDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.RequireFromString("200"),
		Currency:     "USD",
		ExchangeRate: &fixed,
	})
	require.NoError(t, err)

	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.True(t, sum.DepositConsumed.Equal(decimal.RequireFromString("100")))

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// Settled against the deposit at its stored rate, not the daily rate.
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("130000")), "amount %s", rows[0].Amount)
	require.Equal(t, sum.BatchID, rows[0].DepositGroupNo)

	got, err := f.deposits.Get(ctx, dep.ID)
	require.NoError(t, err)
	require.True(t, got.RemainingAmount.Equal(decimal.RequireFromString("100")))
}

func TestGenerateShortDepositFallsBackToRate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, contractID := f.seedMapping(t, "acct-1", nil)
	profile := profiledomain.ContractBillingProfile{
		ContractID: contractID, Vendor: "alibaba", PaymentType: profiledomain.PaymentDeposit,
	}
	require.NoError(t, f.profiles.CreateContractProfile(ctx, &profile))

	_, err := f.deposits.Create(ctx, depositdomain.CreateRequest{
		Owner:       depositdomain.ProfileRef{ContractProfileID: &profile.ID},
		DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("30"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.True(t, sum.DepositConsumed.IsZero())

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("135000")))
	require.Empty(t, rows[0].DepositGroupNo)
}

func TestGenerateFailureLeavesDepositsUntouched(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, contractID := f.seedMapping(t, "acct-1", nil)
	profile := profiledomain.ContractBillingProfile{
		ContractID: contractID, Vendor: "alibaba", PaymentType: profiledomain.PaymentDeposit,
	}
	require.NoError(t, f.profiles.CreateContractProfile(ctx, &profile))
	dep, err := f.deposits.Create(ctx, depositdomain.CreateRequest{
		Owner:       depositdomain.ProfileRef{ContractProfileID: &profile.ID},
		DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("200"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	// Force the row insert to fail after deposits were consumed. The
	// shared transaction must roll the consumption back with it.
	require.NoError(t, f.db.Migrator().DropTable(&domain.SlipRecord{}))

	_, err = f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.Error(t, err)

	got, err := f.deposits.Get(ctx, dep.ID)
	require.NoError(t, err)
	require.True(t, got.RemainingAmount.Equal(decimal.RequireFromString("200")))

	usages, err := f.deposits.Usages(ctx, dep.ID)
	require.NoError(t, err)
	require.Empty(t, usages)
}

func TestGenerateUsesConfiguredRateDateRule(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cfg, err := f.slip.GetConfig(ctx, "alibaba")
	require.NoError(t, err)
	cfg.SalesRateRule = "first_of_document_month"
	require.NoError(t, f.slip.PutConfig(ctx, cfg))

	f.seedMapping(t, "acct-1", nil)
	// Only the first of the document month is quoted.
	f.seedRate(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "1390", "1400")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.Zero(t, sum.RateFallbacks)

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].AppliedRate.Equal(decimal.RequireFromString("1400")))
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("140000")))
}

func TestGenerateContractProfileRateRuleWins(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, contractID := f.seedMapping(t, "acct-1", nil)
	customDay := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	profile := profiledomain.ContractBillingProfile{
		ContractID:             contractID,
		Vendor:                 "alibaba",
		ExchangeRateRule:       "custom",
		CustomExchangeRateDate: &customDay,
	}
	require.NoError(t, f.profiles.CreateContractProfile(ctx, &profile))

	// Only the profile's custom date is quoted; the document-date rule
	// from the config would find nothing.
	f.seedRate(t, customDay, "1280", "1290")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.Zero(t, sum.RateFallbacks)

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].AppliedRate.Equal(decimal.RequireFromString("1290")))
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("129000")))
}

func TestGenerateSplitsAccountAcrossCompanies(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, contractID := f.seedMapping(t, "acct-1", nil)

	targetA := companydomain.Company{Vendor: "alibaba", Name: "Target A", IsActive: true}
	targetB := companydomain.Company{Vendor: "alibaba", Name: "Target B", IsActive: true}
	require.NoError(t, f.company.CreateCompany(ctx, &targetA))
	require.NoError(t, f.company.CreateCompany(ctx, &targetB))

	_, err := f.splits.CreateRule(ctx, splitdomain.CreateRequest{
		Name:             "60/40",
		SourceAccountUID: "acct-1",
		SourceContractID: contractID,
		Allocations: []splitdomain.AllocationInput{
			{TargetCompanyID: targetA.ID, SplitType: splitdomain.SplitTypePercentage, SplitValue: decimal.RequireFromString("60"), Priority: 1},
			{TargetCompanyID: targetB.ID, SplitType: splitdomain.SplitTypePercentage, SplitValue: decimal.RequireFromString("40"), Priority: 2},
		},
	})
	require.NoError(t, err)

	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "1000")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.Equal(t, 2, sum.TotalRecords)
	require.True(t, sum.SplitUSD.Equal(decimal.RequireFromString("1000")))
	require.True(t, sum.SplitRemainderUSD.IsZero())

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.True(t, rows[0].AmountUSD.Equal(decimal.RequireFromString("600")))
	require.True(t, rows[1].AmountUSD.Equal(decimal.RequireFromString("400")))
	for _, row := range rows {
		require.Equal(t, domain.SourceSplit, row.SourceKind)
		require.NotNil(t, row.SplitRuleID)
		require.NotNil(t, row.SplitAllocationID)
		require.Equal(t, "SC-acct-1", row.SalesContractCode)
	}
	require.Equal(t, targetA.ID, *rows[0].CompanyID)
	require.Equal(t, targetB.ID, *rows[1].CompanyID)
}

func TestGenerateInternalCostAggregation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedMapping(t, "acct-int", func(c *companydomain.Company, _ *companydomain.Contract) {
		c.IsInternalCost = true
	})
	f.seedMapping(t, "acct-1", nil)
	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-int", "50")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipPurchase))
	require.NoError(t, err)
	// Internal cost is a reporting bucket on the summary; it never
	// becomes a slip row and stays out of the batch totals.
	require.Equal(t, 1, sum.TotalRecords)
	require.True(t, sum.InternalCostUSD.Equal(decimal.RequireFromString("50")))
	require.True(t, sum.TotalAmountUSD.Equal(decimal.RequireFromString("100")))

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "acct-1", rows[0].AccountUID)
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("134000")))
}

func TestGenerateInternalCostOnlyHasNoRows(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedMapping(t, "acct-int", func(c *companydomain.Company, _ *companydomain.Contract) {
		c.IsInternalCost = true
	})
	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-int", "50")

	// Sales side drops internal-cost companies entirely, and a purchase
	// run with nothing but internal cost has no rows to write.
	_, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.ErrorIs(t, err, domain.ErrNoUsageData)

	_, err = f.slip.Generate(ctx, genRequest(domain.SlipPurchase))
	require.ErrorIs(t, err, domain.ErrNoUsageData)
}

func TestGenerateOverseasKeepsForeignCurrency(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedMapping(t, "acct-os", func(c *companydomain.Company, _ *companydomain.Contract) {
		c.IsOverseas = true
		c.DefaultCurrency = "USD"
	})
	// Overseas converts on the first day of the document month.
	f.seedRate(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "1345", "1355")
	f.importUsage(t, "acct-os", "100.257")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.True(t, sum.OverseasUSD.Equal(decimal.RequireFromString("100.257")))

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "USD", rows[0].Currency)
	require.True(t, rows[0].Amount.Equal(decimal.RequireFromString("100.25")), "amount %s", rows[0].Amount)
	require.True(t, rows[0].AppliedRate.Equal(decimal.RequireFromString("1345")))
}

func TestGenerateAdditionalChargeRows(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, contractID := f.seedMapping(t, "acct-1", nil)
	start := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.charges.Create(ctx, &chargedomain.AdditionalCharge{
		ContractID:     contractID,
		Name:           "support fee",
		ChargeType:     chargedomain.ChargeSupportFee,
		Amount:         decimal.RequireFromString("25"),
		Currency:       "USD",
		RecurrenceType: chargedomain.RecurrenceRecurring,
		StartDate:      &start,
		AppliesToSales: true,
		IsActive:       true,
	}))

	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)
	require.Equal(t, 2, sum.TotalRecords)
	require.True(t, sum.AdditionalChargeUSD.Equal(decimal.RequireFromString("25")))

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, domain.SourceAdditionalCharge, rows[1].SourceKind)
	require.True(t, rows[1].AmountUSD.Equal(decimal.RequireFromString("25")))
	require.True(t, rows[1].Amount.Equal(decimal.RequireFromString("33750")))
}

func TestConfirmRequiresPartnerOnEveryRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedMapping(t, "acct-1", nil)
	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)

	_, err = f.slip.Confirm(ctx, sum.BatchID)
	require.ErrorIs(t, err, domain.ErrPartnerMissing)

	require.NoError(t, f.partner.Create(ctx, &partnerdomain.Partner{BPNumber: "P200", Name: "Late Partner", IsActive: true}))
	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	code := "P200"
	updated, err := f.slip.UpdateRecord(ctx, rows[0].ID, domain.RecordUpdate{PartnerCode: &code})
	require.NoError(t, err)
	require.Equal(t, "Late Partner", updated.PartnerName)

	n, err := f.slip.Confirm(ctx, sum.BatchID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = f.slip.UpdateRecord(ctx, rows[0].ID, domain.RecordUpdate{PartnerCode: &code})
	require.ErrorIs(t, err, domain.ErrConfirmedImmutable)

	_, err = f.slip.DeleteBatch(ctx, sum.BatchID)
	require.ErrorIs(t, err, domain.ErrConfirmedImmutable)
}

func TestDeleteBatchReversesDepositUsages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, contractID := f.seedMapping(t, "acct-1", nil)
	profile := profiledomain.ContractBillingProfile{
		ContractID: contractID, Vendor: "alibaba", PaymentType: profiledomain.PaymentDeposit,
	}
	require.NoError(t, f.profiles.CreateContractProfile(ctx, &profile))
	dep, err := f.deposits.Create(ctx, depositdomain.CreateRequest{
		Owner:       depositdomain.ProfileRef{ContractProfileID: &profile.ID},
		DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("200"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)

	deleted, err := f.slip.DeleteBatch(ctx, sum.BatchID)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.Empty(t, rows)

	got, err := f.deposits.Get(ctx, dep.ID)
	require.NoError(t, err)
	require.True(t, got.RemainingAmount.Equal(decimal.RequireFromString("200")))
}

func TestExportCSVRequiresConfirmedBatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.partner.Create(ctx, &partnerdomain.Partner{
		BPNumber: "P100", Name: "Partner One", IsActive: true,
	}))
	f.seedMapping(t, "acct-1", func(c *companydomain.Company, _ *companydomain.Contract) {
		c.PartnerCode = "P100"
	})
	f.seedRate(t, docDate, "1340", "1350")
	f.importUsage(t, "acct-1", "100")

	sum, err := f.slip.Generate(ctx, genRequest(domain.SlipSales))
	require.NoError(t, err)

	// Export belongs to the confirmed terminal state.
	_, err = f.slip.ExportCSV(ctx, sum.BatchID)
	require.ErrorIs(t, err, domain.ErrBatchUnconfirmed)

	rows, err := f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.False(t, rows[0].IsExported)

	_, err = f.slip.Confirm(ctx, sum.BatchID)
	require.NoError(t, err)

	data, err := f.slip.ExportCSV(ctx, sum.BatchID)
	require.NoError(t, err)
	require.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	require.Contains(t, string(data), "seqno,company_code,document_date")
	require.Contains(t, string(data), "2025-02-10")

	rows, err = f.slip.List(ctx, domain.Filter{BatchID: sum.BatchID})
	require.NoError(t, err)
	require.True(t, rows[0].IsExported)

	_, err = f.slip.ExportCSV(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestConfigRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cfg, err := f.slip.GetConfig(ctx, "alibaba")
	require.NoError(t, err)
	require.Equal(t, "1100", cfg.CompanyCode)

	cfg.CompanyCode = "2200"
	require.NoError(t, f.slip.PutConfig(ctx, cfg))

	got, err := f.slip.GetConfig(ctx, "alibaba")
	require.NoError(t, err)
	require.Equal(t, "2200", got.CompanyCode)
	require.NotZero(t, got.ID)
}
