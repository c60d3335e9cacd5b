package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	domain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	"github.com/smallbiznis/cloudslip/internal/exchangerate/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeSource struct {
	rates []domain.ExchangeRate
	err   error
	calls int
}

func (f *fakeSource) Fetch(ctx context.Context, day time.Time) ([]domain.ExchangeRate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.ExchangeRate, len(f.rates))
	copy(out, f.rates)
	for i := range out {
		out[i].RateDate = day
	}
	return out, nil
}

func setupRepo(t *testing.T) domain.Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.ExchangeRate{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return repository.NewRepository(db, node)
}

func newService(t *testing.T, repo domain.Repository, source domain.Source, cache *goredis.Client) domain.Service {
	t.Helper()
	return NewService(Params{Repo: repo, Source: source, Cache: cache, Log: zap.NewNop()})
}

func rate(day time.Time, basic, send string) domain.ExchangeRate {
	return domain.ExchangeRate{
		RateDate:     day,
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
		BasicRate:    decimal.RequireFromString(basic),
		SendRate:     decimal.RequireFromString(send),
		Source:       "manual",
	}
}

func TestResolveDateRules(t *testing.T) {
	svc := newService(t, setupRepo(t), nil, nil)
	doc := time.Date(2025, 1, 17, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule domain.DateRule
		want time.Time
	}{
		{"document date", domain.DateRuleDocumentDate, time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{"empty defaults to document date", "", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{"first of document month", domain.DateRuleFirstOfDocumentMonth, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"first of billing month", domain.DateRuleFirstOfBillingMonth, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"last of prev month", domain.DateRuleLastOfPrevMonth, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.ResolveDate(tc.rule, doc, "202502", nil)
			require.NoError(t, err)
			require.True(t, got.Equal(tc.want), "got %s want %s", got, tc.want)
		})
	}

	custom := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	got, err := svc.ResolveDate(domain.DateRuleCustom, doc, "", &custom)
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))

	_, err = svc.ResolveDate("bogus", doc, "", nil)
	require.ErrorIs(t, err, domain.ErrInvalidDateRule)
}

func TestResolveForCategoryOverseasUsesFirstOfMonth(t *testing.T) {
	repo := setupRepo(t)
	svc := newService(t, repo, nil, nil)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, []domain.ExchangeRate{
		rate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "1350", "1360"),
		rate(time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), "1400", "1410"),
	})
	require.NoError(t, err)

	res, err := svc.ResolveForCategory(ctx, domain.CategoryRequest{
		Category:     domain.CategoryOverseas,
		DocumentDate: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
	})
	require.NoError(t, err)
	require.True(t, res.Rate.Equal(decimal.RequireFromString("1350")))
	require.Equal(t, domain.RateTypeBasic, res.RateType)
	require.False(t, res.Degraded)
}

func TestResolveForCategoryDomesticSalesPrefersSendRate(t *testing.T) {
	repo := setupRepo(t)
	svc := newService(t, repo, nil, nil)
	ctx := context.Background()

	day := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	_, err := svc.Upsert(ctx, []domain.ExchangeRate{rate(day, "1350", "1362.5")})
	require.NoError(t, err)

	res, err := svc.ResolveForCategory(ctx, domain.CategoryRequest{
		Category:     domain.CategoryDomesticSales,
		DocumentDate: day,
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
	})
	require.NoError(t, err)
	require.True(t, res.Rate.Equal(decimal.RequireFromString("1362.5")))
	require.Equal(t, domain.RateTypeSend, res.RateType)

	// Without a send quote the basic rate fills in.
	_, err = svc.Upsert(ctx, []domain.ExchangeRate{rate(day, "1350", "0")})
	require.NoError(t, err)
	res, err = svc.ResolveForCategory(ctx, domain.CategoryRequest{
		Category:     domain.CategoryDomesticSales,
		DocumentDate: day,
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
	})
	require.NoError(t, err)
	require.True(t, res.Rate.Equal(decimal.RequireFromString("1350")))
}

func TestResolveForCategoryDateRuleOverride(t *testing.T) {
	repo := setupRepo(t)
	svc := newService(t, repo, nil, nil)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, []domain.ExchangeRate{
		rate(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "1350", "1360"),
		rate(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "1280", "1290"),
		rate(time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), "1400", "1410"),
	})
	require.NoError(t, err)

	doc := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)

	// The request rule replaces the category's default document date.
	res, err := svc.ResolveForCategory(ctx, domain.CategoryRequest{
		Category:     domain.CategoryDomesticSales,
		DocumentDate: doc,
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
		DateRule:     domain.DateRuleFirstOfDocumentMonth,
	})
	require.NoError(t, err)
	require.True(t, res.Rate.Equal(decimal.RequireFromString("1360")))
	require.True(t, res.RateDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	custom := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	res, err = svc.ResolveForCategory(ctx, domain.CategoryRequest{
		Category:     domain.CategoryDomesticSales,
		DocumentDate: doc,
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
		DateRule:     domain.DateRuleCustom,
		CustomDate:   &custom,
	})
	require.NoError(t, err)
	require.True(t, res.Rate.Equal(decimal.RequireFromString("1290")))
	require.True(t, res.RateDate.Equal(custom))
}

func TestResolveForCategoryManualRateWins(t *testing.T) {
	svc := newService(t, setupRepo(t), nil, nil)

	manual := decimal.RequireFromString("1234.56")
	res, err := svc.ResolveForCategory(context.Background(), domain.CategoryRequest{
		Category:     domain.CategoryPurchase,
		DocumentDate: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
		ManualRate:   &manual,
	})
	require.NoError(t, err)
	require.True(t, res.Rate.Equal(manual))
	require.False(t, res.Degraded)
}

func TestResolveForCategoryRefreshesFeedOnce(t *testing.T) {
	repo := setupRepo(t)
	source := &fakeSource{rates: []domain.ExchangeRate{rate(time.Time{}, "1380", "1390")}}
	svc := newService(t, repo, source, nil)

	res, err := svc.ResolveForCategory(context.Background(), domain.CategoryRequest{
		Category:     domain.CategoryPurchase,
		DocumentDate: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
	})
	require.NoError(t, err)
	require.True(t, res.Rate.Equal(decimal.RequireFromString("1380")))
	require.False(t, res.Degraded)
	require.Equal(t, 1, source.calls)

	stored, err := repo.Find(context.Background(), time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), "USD", "KRW")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestResolveForCategoryDegradedFallback(t *testing.T) {
	repo := setupRepo(t)
	source := &fakeSource{err: errors.New("feed down")}
	svc := newService(t, repo, source, nil)

	res, err := svc.ResolveForCategory(context.Background(), domain.CategoryRequest{
		Category:     domain.CategoryOverseas,
		DocumentDate: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
		CurrencyFrom: "USD",
		CurrencyTo:   "KRW",
	})
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.True(t, res.Rate.Equal(decimal.NewFromInt(1)))
}

func TestSyncRequiresSource(t *testing.T) {
	svc := newService(t, setupRepo(t), nil, nil)
	_, err := svc.Sync(context.Background(), time.Now())
	require.ErrorIs(t, err, domain.ErrSourceDisabled)
}

func TestLookupUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	repo := setupRepo(t)
	svc := newService(t, repo, nil, cache)
	ctx := context.Background()

	day := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	_, err := svc.Upsert(ctx, []domain.ExchangeRate{rate(day, "1350", "1360")})
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, day, "USD", "KRW", domain.RateTypeBasic)
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.RequireFromString("1350")))
	require.NotEmpty(t, mr.Keys())

	// A re-quote for the same day invalidates the cached entry.
	_, err = svc.Upsert(ctx, []domain.ExchangeRate{rate(day, "1355", "1360")})
	require.NoError(t, err)
	got, err = svc.Lookup(ctx, day, "USD", "KRW", domain.RateTypeBasic)
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.RequireFromString("1355")))
}

func TestLookupMissingRate(t *testing.T) {
	svc := newService(t, setupRepo(t), nil, nil)
	_, err := svc.Lookup(context.Background(), time.Now(), "USD", "KRW", domain.RateTypeBasic)
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}
