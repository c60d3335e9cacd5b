package service

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/billingcycle"
	domain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	"github.com/smallbiznis/cloudslip/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	cacheTTL       = 12 * time.Hour
	refreshTimeout = 15 * time.Second
)

type Params struct {
	fx.In

	Repo    domain.Repository
	Source  domain.Source    `optional:"true"`
	Cache   *goredis.Client  `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
	Log     *zap.Logger
}

type service struct {
	repo    domain.Repository
	source  domain.Source
	cache   *goredis.Client
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(p Params) domain.Service {
	return &service{
		repo:    p.Repo,
		source:  p.Source,
		cache:   p.Cache,
		metrics: p.Metrics,
		log:     p.Log.Named("exchangerate.service"),
	}
}

func (s *service) ResolveDate(rule domain.DateRule, documentDate time.Time, cycle string, custom *time.Time) (time.Time, error) {
	doc := dateOnly(documentDate)
	switch rule {
	case domain.DateRuleDocumentDate, "":
		return doc, nil
	case domain.DateRuleFirstOfDocumentMonth:
		return time.Date(doc.Year(), doc.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case domain.DateRuleFirstOfBillingMonth:
		return billingcycle.FirstDay(cycle)
	case domain.DateRuleLastOfPrevMonth:
		firstOfMonth := time.Date(doc.Year(), doc.Month(), 1, 0, 0, 0, 0, time.UTC)
		return firstOfMonth.AddDate(0, 0, -1), nil
	case domain.DateRuleCustom:
		if custom != nil {
			return dateOnly(*custom), nil
		}
		return doc, nil
	default:
		return time.Time{}, domain.ErrInvalidDateRule
	}
}

func (s *service) Lookup(ctx context.Context, day time.Time, from, to string, rt domain.RateType) (decimal.Decimal, error) {
	rate, err := s.find(ctx, day, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, domain.ErrRateNotFound
	}
	return rate.RateOf(rt), nil
}

func (s *service) ResolveForCategory(ctx context.Context, req domain.CategoryRequest) (domain.Resolution, error) {
	var (
		rule domain.DateRule
		rt   domain.RateType
	)
	switch req.Category {
	case domain.CategoryOverseas:
		rule, rt = domain.DateRuleFirstOfDocumentMonth, domain.RateTypeBasic
	case domain.CategoryDomesticSales:
		rule, rt = domain.DateRuleDocumentDate, domain.RateTypeSend
	case domain.CategoryPurchase:
		rule, rt = domain.DateRuleDocumentDate, domain.RateTypeBasic
	default:
		rule, rt = domain.DateRuleDocumentDate, domain.RateTypeBasic
	}
	if req.DateRule != "" {
		rule = req.DateRule
	}

	day, err := s.ResolveDate(rule, req.DocumentDate, req.BillingCycle, req.CustomDate)
	if err != nil {
		return domain.Resolution{}, err
	}

	if req.ManualRate != nil && !req.ManualRate.IsZero() {
		return domain.Resolution{Rate: *req.ManualRate, RateDate: day, RateType: rt}, nil
	}

	rate, err := s.find(ctx, day, req.CurrencyFrom, req.CurrencyTo)
	if err != nil {
		return domain.Resolution{}, err
	}
	if rate == nil {
		rate, err = s.refreshAndRetry(ctx, day, req.CurrencyFrom, req.CurrencyTo)
		if err != nil {
			return domain.Resolution{}, err
		}
	}
	if rate == nil {
		// No quote even after a refresh. Carry the foreign amount over
		// numerically so month-end close is not blocked by a feed outage.
		s.log.Warn("no exchange rate found, using degraded fallback",
			zap.Time("rate_date", day),
			zap.String("currency_from", req.CurrencyFrom),
			zap.String("currency_to", req.CurrencyTo),
		)
		s.metrics.RecordRateFallback(ctx, req.CurrencyFrom)
		return domain.Resolution{Rate: decimal.NewFromInt(1), RateDate: day, RateType: rt, Degraded: true}, nil
	}

	return domain.Resolution{Rate: rate.RateOf(rt), RateDate: day, RateType: rt}, nil
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.ExchangeRate, error) {
	return s.repo.List(ctx, req)
}

func (s *service) Latest(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	rate, err := s.repo.Latest(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrRateNotFound
	}
	return rate, nil
}

func (s *service) Upsert(ctx context.Context, rates []domain.ExchangeRate) (int, error) {
	n, err := s.repo.Upsert(ctx, rates)
	if err != nil {
		return 0, err
	}
	for _, r := range rates {
		s.invalidate(ctx, r.RateDate, r.CurrencyFrom, r.CurrencyTo)
	}
	return n, nil
}

func (s *service) Sync(ctx context.Context, day time.Time) (int, error) {
	if s.source == nil {
		return 0, domain.ErrSourceDisabled
	}
	rates, err := s.source.Fetch(ctx, dateOnly(day))
	if err != nil {
		s.metrics.RecordRateSyncFailure(ctx, "fetch")
		return 0, err
	}
	n, err := s.Upsert(ctx, rates)
	if err != nil {
		s.metrics.RecordRateSyncFailure(ctx, "store")
		return 0, err
	}
	s.log.Info("exchange rates synced", zap.Time("day", dateOnly(day)), zap.Int("count", n))
	return n, nil
}

// refreshAndRetry pulls the feed once for the missing day, then looks
// the pair up again. A failed refresh is logged and treated as a miss.
func (s *service) refreshAndRetry(ctx context.Context, day time.Time, from, to string) (*domain.ExchangeRate, error) {
	if s.source == nil {
		return nil, nil
	}

	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	rates, err := s.source.Fetch(refreshCtx, day)
	if err != nil {
		s.log.Warn("rate feed refresh failed", zap.Time("day", day), zap.Error(err))
		s.metrics.RecordRateSyncFailure(ctx, "refresh")
		return nil, nil
	}
	if _, err := s.repo.Upsert(ctx, rates); err != nil {
		return nil, err
	}
	return s.find(ctx, day, from, to)
}

func (s *service) find(ctx context.Context, day time.Time, from, to string) (*domain.ExchangeRate, error) {
	day = dateOnly(day)
	if cached := s.fromCache(ctx, day, from, to); cached != nil {
		return cached, nil
	}

	rate, err := s.repo.Find(ctx, day, from, to)
	if err != nil {
		return nil, err
	}
	if rate != nil {
		s.toCache(ctx, *rate)
	}
	return rate, nil
}

func (s *service) fromCache(ctx context.Context, day time.Time, from, to string) *domain.ExchangeRate {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKey(day, from, to)).Bytes()
	if err != nil {
		return nil
	}
	var rate domain.ExchangeRate
	if err := json.Unmarshal(raw, &rate); err != nil {
		return nil
	}
	return &rate
}

func (s *service) toCache(ctx context.Context, rate domain.ExchangeRate) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(rate)
	if err != nil {
		return
	}
	// Cache is advisory: failures are ignored.
	s.cache.Set(ctx, cacheKey(rate.RateDate, rate.CurrencyFrom, rate.CurrencyTo), raw, cacheTTL)
}

func (s *service) invalidate(ctx context.Context, day time.Time, from, to string) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, cacheKey(dateOnly(day), from, to))
}

func cacheKey(day time.Time, from, to string) string {
	return "fx:" + day.Format("2006-01-02") + ":" + from + ":" + to
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
