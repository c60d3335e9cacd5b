package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/cloudslip/internal/additionalcharge/domain"
	"github.com/smallbiznis/cloudslip/internal/billingcycle"
	profiledomain "github.com/smallbiznis/cloudslip/internal/billingprofile/domain"
	"github.com/smallbiznis/cloudslip/internal/clock"
	companydomain "github.com/smallbiznis/cloudslip/internal/company/domain"
	depositdomain "github.com/smallbiznis/cloudslip/internal/deposit/domain"
	ratedomain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	"github.com/smallbiznis/cloudslip/internal/observability/metrics"
	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
	proratadomain "github.com/smallbiznis/cloudslip/internal/prorata/domain"
	domain "github.com/smallbiznis/cloudslip/internal/slip/domain"
	splitdomain "github.com/smallbiznis/cloudslip/internal/splitbilling/domain"
	usagedomain "github.com/smallbiznis/cloudslip/internal/usage/domain"
	"github.com/smallbiznis/cloudslip/pkg/rounding"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Clock    clock.Clock
	Metrics  *metrics.Metrics `optional:"true"`
	Log      *zap.Logger
	Usage    usagedomain.Service
	Company  companydomain.Service
	Partner  partnerdomain.Service
	Profiles profiledomain.Service
	Rates    ratedomain.Service
	Deposits depositdomain.Service
	ProRata  proratadomain.Service
	Splits   splitdomain.Service
	Charges  chargedomain.Service
}

type service struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    clock.Clock
	metrics  *metrics.Metrics
	log      *zap.Logger
	usage    usagedomain.Service
	company  companydomain.Service
	partner  partnerdomain.Service
	profiles profiledomain.Service
	rates    ratedomain.Service
	deposits depositdomain.Service
	prorata  proratadomain.Service
	splits   splitdomain.Service
	charges  chargedomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		node:     p.Node,
		clock:    p.Clock,
		metrics:  p.Metrics,
		log:      p.Log.Named("slip.service"),
		usage:    p.Usage,
		company:  p.Company,
		partner:  p.Partner,
		profiles: p.Profiles,
		rates:    p.Rates,
		deposits: p.Deposits,
		prorata:  p.ProRata,
		splits:   p.Splits,
		charges:  p.Charges,
	}
}

func (s *service) GetConfig(ctx context.Context, vendor string) (*domain.SlipConfig, error) {
	var cfg domain.SlipConfig
	err := s.db.WithContext(ctx).First(&cfg, "vendor = ?", vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			def := domain.DefaultConfig(vendor)
			return &def, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (s *service) PutConfig(ctx context.Context, cfg *domain.SlipConfig) error {
	now := s.clock.Now()
	var existing domain.SlipConfig
	err := s.db.WithContext(ctx).First(&existing, "vendor = ?", cfg.Vendor).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		cfg.ID = s.node.Generate()
		cfg.CreatedAt = now
		cfg.UpdatedAt = now
		return s.db.WithContext(ctx).Create(cfg).Error
	}
	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	cfg.UpdatedAt = now
	return s.db.WithContext(ctx).Save(cfg).Error
}

// run carries the state of one generation pass.
type run struct {
	req     domain.GenerateRequest
	cfg     domain.SlipConfig
	batchID string
	posting time.Time
	sales   bool
	seqno   int
	rows    []domain.SlipRecord

	rateCache map[string]ratedomain.Resolution
	pending   []pendingConsume
	summary   domain.GenerateSummary
}

// pendingConsume defers a row's deposit settlement to the run
// transaction.
type pendingConsume struct {
	row          int
	owner        depositdomain.ProfileRef
	usd          decimal.Decimal
	fallbackRate decimal.Decimal
	roundRule    rounding.Rule
	accountUID   string
}

func (s *service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateSummary, error) {
	if !req.SlipType.Valid() {
		return nil, domain.ErrInvalidSlipType
	}
	if _, _, err := billingcycle.Parse(req.BillingCycle); err != nil {
		return nil, err
	}
	if req.BillingType == "" {
		req.BillingType = usagedomain.BillingEnduser
	}

	cfg, err := s.GetConfig(ctx, req.Vendor)
	if err != nil {
		return nil, err
	}

	totals, err := s.usage.TotalsByAccount(ctx, req.Vendor, req.BillingCycle, req.BillingType)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, domain.ErrNoUsageData
	}

	posting := req.DocumentDate
	if req.PostingDate != nil {
		posting = *req.PostingDate
	}

	g := &run{
		req:       req,
		cfg:       *cfg,
		batchID:   uuid.NewString()[:8],
		posting:   posting,
		sales:     req.SlipType == domain.SlipSales,
		rateCache: map[string]ratedomain.Resolution{},
	}
	g.summary.BatchID = g.batchID
	g.summary.SlipType = req.SlipType
	g.summary.BillingCycle = req.BillingCycle

	internalUSD := decimal.Zero
	contracts := map[snowflake.ID]companydomain.Binding{}

	for _, tot := range totals {
		if !tot.Amount.IsPositive() {
			continue
		}

		binding, err := s.company.ResolveBinding(ctx, tot.AccountUID)
		if err != nil {
			if errors.Is(err, companydomain.ErrAccountUnmapped) || errors.Is(err, companydomain.ErrCompanyNotFound) {
				if err := s.emitUnmappedRow(ctx, g, tot); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		if binding.Company.IsInternalCost {
			if g.sales {
				continue
			}
			internalUSD = internalUSD.Add(tot.Amount)
			continue
		}
		contracts[binding.Contract.ID] = *binding

		if err := s.generateAccount(ctx, g, tot, binding); err != nil {
			return nil, err
		}
	}

	// Internal-cost usage stays a reporting figure on the summary; it
	// never becomes a ledger row.
	if !g.sales && internalUSD.IsPositive() {
		g.summary.InternalCostUSD = internalUSD
		s.log.Info("internal cost aggregated",
			zap.String("batch_id", g.batchID),
			zap.String("amount_usd", internalUSD.String()),
		)
	}

	if err := s.emitAdditionalCharges(ctx, g, contracts); err != nil {
		return nil, err
	}

	if len(g.rows) == 0 {
		return nil, domain.ErrNoUsageData
	}

	// Deposit settlement and the row insert share one transaction, so
	// a failed run leaves neither rows nor consumed deposits behind.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.settleDeposits(ctx, g, s.deposits.WithTx(tx)); err != nil {
			return err
		}
		return tx.CreateInBatches(g.rows, 200).Error
	})
	if err != nil {
		return nil, err
	}

	g.summary.TotalRecords = len(g.rows)
	s.metrics.RecordSlipBatch(ctx, req.Vendor, string(req.SlipType))
	s.metrics.RecordSlipRecords(ctx, req.Vendor, string(req.SlipType), int64(len(g.rows)))
	s.log.Info("slip batch generated",
		zap.String("batch_id", g.batchID),
		zap.String("vendor", req.Vendor),
		zap.String("billing_cycle", req.BillingCycle),
		zap.String("slip_type", string(req.SlipType)),
		zap.Int("records", len(g.rows)),
	)
	return &g.summary, nil
}

func (s *service) generateAccount(ctx context.Context, g *run, tot usagedomain.AccountTotal, binding *companydomain.Binding) error {
	contractProfile, err := s.profiles.FindContractProfile(ctx, binding.Contract.ID, g.req.Vendor)
	if err != nil {
		return err
	}
	companyProfile, err := s.profiles.FindCompanyProfile(ctx, binding.Company.ID, g.req.Vendor)
	if err != nil {
		return err
	}

	override := ""
	if contractProfile != nil {
		override = contractProfile.ProRataOverride
	}
	dates := proratadomain.ContractDates{
		Start: binding.Contract.ContractStartDate,
		End:   binding.Contract.ContractEndDate,
	}
	ratio, _, err := s.prorata.RatioFor(ctx, binding.Contract.ID, g.req.BillingCycle, dates, g.cfg.ProRataEnabled, override)
	if err != nil {
		return err
	}

	originalUSD := tot.Amount
	usd := tot.Amount
	if ratio != nil {
		usd = usd.Mul(*ratio)
	}

	rule, err := s.splits.RuleFor(ctx, tot.AccountUID, g.req.BillingCycle)
	if err != nil {
		return err
	}
	if rule != nil {
		result := splitdomain.Allocate(rule.Allocations, usd)
		for _, al := range result.Allocations {
			target, err := s.company.GetCompany(ctx, al.TargetCompanyID)
			if err != nil {
				return fmt.Errorf("split target company: %w", err)
			}
			targetProfile, err := s.profiles.FindCompanyProfile(ctx, target.ID, g.req.Vendor)
			if err != nil {
				return err
			}
			ruleID := rule.ID
			allocID := al.AllocationID
			err = s.emitRow(ctx, g, rowInput{
				accountUID:      tot.AccountUID,
				binding:         binding,
				company:         target,
				contractProfile: contractProfile,
				companyProfile:  targetProfile,
				usd:             al.Amount,
				originalUSD:     al.Amount,
				ratio:           ratio,
				sourceKind:      domain.SourceSplit,
				splitRuleID:     &ruleID,
				splitAllocID:    &allocID,
			})
			if err != nil {
				return err
			}
			g.summary.SplitUSD = g.summary.SplitUSD.Add(al.Amount)
		}
		g.summary.SplitRemainderUSD = g.summary.SplitRemainderUSD.Add(result.Remainder)
		return nil
	}

	return s.emitRow(ctx, g, rowInput{
		accountUID:      tot.AccountUID,
		binding:         binding,
		company:         &binding.Company,
		contractProfile: contractProfile,
		companyProfile:  companyProfile,
		usd:             usd,
		originalUSD:     originalUSD,
		ratio:           ratio,
		sourceKind:      domain.SourceBilling,
	})
}

type rowInput struct {
	accountUID      string
	binding         *companydomain.Binding
	company         *companydomain.Company
	contractProfile *profiledomain.ContractBillingProfile
	companyProfile  *profiledomain.CompanyBillingProfile
	usd             decimal.Decimal
	originalUSD     decimal.Decimal
	ratio           *decimal.Decimal
	sourceKind      domain.SourceKind
	splitRuleID     *snowflake.ID
	splitAllocID    *snowflake.ID
}

func (s *service) emitRow(ctx context.Context, g *run, in rowInput) error {
	var partner *partnerdomain.Partner
	if in.company.PartnerCode != "" {
		found, err := s.partner.FindByCode(ctx, in.company.PartnerCode)
		if err != nil && !errors.Is(err, partnerdomain.ErrPartnerNotFound) {
			return err
		}
		partner = found
	}

	roundRule := g.cfg.RoundingRule
	if in.contractProfile != nil && in.contractProfile.RoundingRuleOverride != "" {
		if parsed, err := rounding.Parse(in.contractProfile.RoundingRuleOverride); err == nil {
			roundRule = parsed
		}
	}

	overseas := in.company.IsOverseas
	var (
		currency string
		amount   decimal.Decimal
		res      ratedomain.Resolution
		err      error
	)
	if overseas {
		currency = in.company.DefaultCurrency
		if currency == "" {
			currency = g.cfg.UsageCurrency
		}
		// The row keeps the foreign amount; the first-of-month rate is
		// carried for the local ledger reference.
		res, err = s.rateFor(ctx, g, ratedomain.CategoryOverseas, g.cfg.LocalCurrency, in.contractProfile)
		if err != nil {
			return err
		}
		amount = rounding.Apply(in.usd, roundRule, 2)
		g.summary.OverseasUSD = g.summary.OverseasUSD.Add(in.usd)
	} else {
		currency = g.cfg.LocalCurrency
		category := ratedomain.CategoryPurchase
		if g.sales {
			category = ratedomain.CategoryDomesticSales
		}
		res, err = s.rateFor(ctx, g, category, g.cfg.LocalCurrency, in.contractProfile)
		if err != nil {
			return err
		}
		amount = rounding.Apply(in.usd.Mul(res.Rate), roundRule, 0)
	}
	if res.Degraded {
		g.summary.RateFallbacks++
	}

	if g.sales && !overseas && in.sourceKind == domain.SourceBilling {
		if owner, ok := depositOwner(in.contractProfile, in.companyProfile); ok {
			g.pending = append(g.pending, pendingConsume{
				row:          len(g.rows),
				owner:        owner,
				usd:          in.usd,
				fallbackRate: res.Rate,
				roundRule:    roundRule,
				accountUID:   in.accountUID,
			})
		}
	}

	resolved := profiledomain.Resolve(g.sales, in.contractProfile, in.companyProfile, partner, profiledomain.Defaults{
		RevenueSalesAccount:    g.cfg.RevenueSalesAccount,
		RevenuePurchaseAccount: g.cfg.RevenuePurchaseAccount,
		ARAccount:              g.cfg.ARAccountDefault,
		APAccount:              g.cfg.APAccountDefault,
		TaxCode:                g.cfg.DefaultTaxCode,
	})

	partnerCode := ""
	partnerName := ""
	if partner != nil {
		partnerCode = partner.BPNumber
		partnerName = partner.Name
		g.summary.WithPartner++
	} else {
		g.summary.WithoutPartner++
	}

	contractID := in.binding.Contract.ID
	companyID := in.company.ID
	g.seqno++
	now := s.clock.Now()
	row := domain.SlipRecord{
		ID:                   s.node.Generate(),
		BatchID:              g.batchID,
		SlipType:             g.req.SlipType,
		Vendor:               g.req.Vendor,
		BillingCycle:         g.req.BillingCycle,
		Seqno:                g.seqno,
		CompanyCode:          g.cfg.CompanyCode,
		DocumentDate:         g.req.DocumentDate,
		PostingDate:          g.posting,
		Currency:             currency,
		Description:          renderDescription(g.cfg.DescriptionTemplate, g.req.BillingCycle, g.req.SlipType),
		PartnerCode:          partnerCode,
		PartnerName:          partnerName,
		ARAccount:            resolved.CounterAccount,
		RevenueAccount:       resolved.RevenueAccount,
		TaxCode:              resolved.TaxCode,
		Amount:               amount,
		AmountUSD:            in.usd,
		OriginalAmountUSD:    in.originalUSD,
		AppliedRate:          res.Rate,
		ProRataRatio:         in.ratio,
		ProfitCenter:         g.cfg.ProfitCenter,
		PartnerRef:           partnerCode,
		SalesContractCode:    in.binding.Contract.SalesContractCode,
		PurchaseContractCode: in.binding.Contract.SalesContractCode,
		SalesPerson:          in.binding.Contract.SalesPerson,
		ReferenceCode:        g.cfg.ReferenceCode,
		InvoiceNo:            g.req.InvoiceNo,
		SourceKind:           in.sourceKind,
		SplitRuleID:          in.splitRuleID,
		SplitAllocationID:    in.splitAllocID,
		AccountUID:           in.accountUID,
		ContractID:           &contractID,
		CompanyID:            &companyID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	g.rows = append(g.rows, row)
	g.summary.TotalAmount = g.summary.TotalAmount.Add(amount)
	g.summary.TotalAmountUSD = g.summary.TotalAmountUSD.Add(in.usd)
	return nil
}

// emitUnmappedRow writes the row for usage whose account has no enabled
// contract mapping. Vendor defaults fill the accounts and the partner
// code stays empty, which blocks batch confirmation until resolved.
func (s *service) emitUnmappedRow(ctx context.Context, g *run, tot usagedomain.AccountTotal) error {
	category := ratedomain.CategoryPurchase
	if g.sales {
		category = ratedomain.CategoryDomesticSales
	}
	res, err := s.rateFor(ctx, g, category, g.cfg.LocalCurrency, nil)
	if err != nil {
		return err
	}
	if res.Degraded {
		g.summary.RateFallbacks++
	}

	resolved := profiledomain.Resolve(g.sales, nil, nil, nil, profiledomain.Defaults{
		RevenueSalesAccount:    g.cfg.RevenueSalesAccount,
		RevenuePurchaseAccount: g.cfg.RevenuePurchaseAccount,
		ARAccount:              g.cfg.ARAccountDefault,
		APAccount:              g.cfg.APAccountDefault,
		TaxCode:                g.cfg.DefaultTaxCode,
	})

	g.seqno++
	now := s.clock.Now()
	amount := rounding.Apply(tot.Amount.Mul(res.Rate), g.cfg.RoundingRule, 0)
	g.rows = append(g.rows, domain.SlipRecord{
		ID:                s.node.Generate(),
		BatchID:           g.batchID,
		SlipType:          g.req.SlipType,
		Vendor:            g.req.Vendor,
		BillingCycle:      g.req.BillingCycle,
		Seqno:             g.seqno,
		CompanyCode:       g.cfg.CompanyCode,
		DocumentDate:      g.req.DocumentDate,
		PostingDate:       g.posting,
		Currency:          g.cfg.LocalCurrency,
		Description:       renderDescription(g.cfg.DescriptionTemplate, g.req.BillingCycle, g.req.SlipType),
		ARAccount:         resolved.CounterAccount,
		RevenueAccount:    resolved.RevenueAccount,
		TaxCode:           resolved.TaxCode,
		Amount:            amount,
		AmountUSD:         tot.Amount,
		OriginalAmountUSD: tot.Amount,
		AppliedRate:       res.Rate,
		ProfitCenter:      g.cfg.ProfitCenter,
		ReferenceCode:     g.cfg.ReferenceCode,
		InvoiceNo:         g.req.InvoiceNo,
		SourceKind:        domain.SourceBilling,
		AccountUID:        tot.AccountUID,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	g.summary.UnmappedAccounts++
	g.summary.WithoutPartner++
	g.summary.TotalAmount = g.summary.TotalAmount.Add(amount)
	g.summary.TotalAmountUSD = g.summary.TotalAmountUSD.Add(tot.Amount)
	s.log.Warn("account has no enabled contract mapping, row created without partner",
		zap.String("account_uid", tot.AccountUID),
		zap.String("billing_cycle", g.req.BillingCycle),
	)
	return nil
}

// settleDeposits consumes deposits for the rows marked during
// assembly. A short balance keeps the row's rate-converted amount.
func (s *service) settleDeposits(ctx context.Context, g *run, deposits depositdomain.Service) error {
	for _, p := range g.pending {
		result, err := deposits.ConsumeFIFO(ctx, depositdomain.ConsumeRequest{
			Owner:        p.owner,
			Amount:       p.usd,
			Currency:     g.cfg.UsageCurrency,
			UsageDate:    g.req.DocumentDate,
			BillingCycle: g.req.BillingCycle,
			SlipBatchID:  g.batchID,
			AccountUID:   p.accountUID,
			Description:  fmt.Sprintf("%s %s", g.req.Vendor, g.req.BillingCycle),
			FallbackRate: p.fallbackRate,
			RoundingRule: p.roundRule,
		})
		switch {
		case errors.Is(err, depositdomain.ErrInsufficientBalance):
			s.log.Warn("deposit balance short, falling back to rate conversion",
				zap.String("account_uid", p.accountUID),
				zap.String("amount_usd", p.usd.String()),
			)
		case err != nil:
			return err
		default:
			row := &g.rows[p.row]
			g.summary.TotalAmount = g.summary.TotalAmount.Sub(row.Amount).Add(result.ConvertedTotal)
			row.Amount = result.ConvertedTotal
			row.DepositGroupNo = g.batchID
			g.summary.DepositConsumed = g.summary.DepositConsumed.Add(result.Consumed)
		}
	}
	return nil
}

func (s *service) emitAdditionalCharges(ctx context.Context, g *run, contracts map[snowflake.ID]companydomain.Binding) error {
	ids := make([]snowflake.ID, 0, len(contracts))
	for id := range contracts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		binding := contracts[id]
		charges, err := s.charges.Applicable(ctx, id, g.req.BillingCycle, g.sales)
		if err != nil {
			return err
		}
		for _, charge := range charges {
			contractProfile, err := s.profiles.FindContractProfile(ctx, id, g.req.Vendor)
			if err != nil {
				return err
			}
			companyProfile, err := s.profiles.FindCompanyProfile(ctx, binding.Company.ID, g.req.Vendor)
			if err != nil {
				return err
			}
			// Charges are registered in the usage currency; negative
			// amounts (credits) reduce the batch total.
			usd := charge.Amount
			err = s.emitRow(ctx, g, rowInput{
				accountUID:      "",
				binding:         &binding,
				company:         &binding.Company,
				contractProfile: contractProfile,
				companyProfile:  companyProfile,
				usd:             usd,
				originalUSD:     usd,
				sourceKind:      domain.SourceAdditionalCharge,
			})
			if err != nil {
				return err
			}
			g.summary.AdditionalChargeUSD = g.summary.AdditionalChargeUSD.Add(usd)
		}
	}
	return nil
}

// rateFor resolves and caches one category conversion per run. The
// contract profile's exchange-rate rule outranks the per-category rule
// on the slip config.
func (s *service) rateFor(ctx context.Context, g *run, category ratedomain.Category, toCurrency string, profile *profiledomain.ContractBillingProfile) (ratedomain.Resolution, error) {
	rule, custom := g.dateRuleFor(category, profile)
	key := string(category) + ":" + toCurrency + ":" + string(rule)
	if custom != nil {
		key += ":" + custom.Format("2006-01-02")
	}
	if cached, ok := g.rateCache[key]; ok {
		return cached, nil
	}
	res, err := s.rates.ResolveForCategory(ctx, ratedomain.CategoryRequest{
		Category:     category,
		DocumentDate: g.req.DocumentDate,
		BillingCycle: g.req.BillingCycle,
		CurrencyFrom: g.cfg.UsageCurrency,
		CurrencyTo:   toCurrency,
		DateRule:     rule,
		CustomDate:   custom,
		ManualRate:   g.req.ManualRate,
	})
	if err != nil {
		return ratedomain.Resolution{}, err
	}
	g.rateCache[key] = res
	return res, nil
}

func (g *run) dateRuleFor(category ratedomain.Category, profile *profiledomain.ContractBillingProfile) (ratedomain.DateRule, *time.Time) {
	if profile != nil && profile.ExchangeRateRule != "" {
		return ratedomain.DateRule(profile.ExchangeRateRule), profile.CustomExchangeRateDate
	}
	switch category {
	case ratedomain.CategoryOverseas:
		return ratedomain.DateRule(g.cfg.OverseasRateRule), nil
	case ratedomain.CategoryDomesticSales:
		return ratedomain.DateRule(g.cfg.SalesRateRule), nil
	default:
		return ratedomain.DateRule(g.cfg.PurchaseRateRule), nil
	}
}

func depositOwner(contract *profiledomain.ContractBillingProfile, company *profiledomain.CompanyBillingProfile) (depositdomain.ProfileRef, bool) {
	if contract != nil && contract.PaymentType == profiledomain.PaymentDeposit {
		id := contract.ID
		return depositdomain.ProfileRef{ContractProfileID: &id}, true
	}
	if company != nil && company.PaymentType == profiledomain.PaymentDeposit {
		id := company.ID
		return depositdomain.ProfileRef{CompanyProfileID: &id}, true
	}
	return depositdomain.ProfileRef{}, false
}

func renderDescription(template, cycle string, slipType domain.SlipType) string {
	month := ""
	if len(cycle) == 6 {
		month = cycle[4:]
	}
	out := strings.ReplaceAll(template, "{MM}", month)
	return strings.ReplaceAll(out, "{TYPE}", string(slipType))
}
