package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/clock"
	domain "github.com/smallbiznis/cloudslip/internal/deposit/domain"
	"github.com/smallbiznis/cloudslip/pkg/rounding"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ledgerTime = time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Deposit{}, &domain.DepositUsage{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{DB: db, Node: node, Clock: clock.NewFakeClock(ledgerTime), Log: zap.NewNop()})
	return svc, node
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestConsumeFIFOAcrossDeposits(t *testing.T) {
	svc, node := setupService(t)
	ctx := context.Background()

	profileID := node.Generate()
	owner := domain.ProfileRef{ContractProfileID: &profileID}

	first, err := svc.Create(ctx, domain.CreateRequest{
		Owner:       owner,
		DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      d("30"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, domain.CreateRequest{
		Owner:       owner,
		DepositDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Amount:      d("50"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	result, err := svc.ConsumeFIFO(ctx, domain.ConsumeRequest{
		Owner:        owner,
		Amount:       d("40"),
		Currency:     "USD",
		UsageDate:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		BillingCycle: "202501",
		SlipBatchID:  "batch-1",
		FallbackRate: d("1"),
		RoundingRule: rounding.RuleFloor,
	})
	require.NoError(t, err)
	require.Len(t, result.Usages, 2)
	require.True(t, result.Consumed.Equal(d("40")))
	require.True(t, result.Remaining.Equal(d("40")))

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, got.IsExhausted)
	require.True(t, got.RemainingAmount.IsZero())

	got, err = svc.Get(ctx, second.ID)
	require.NoError(t, err)
	require.False(t, got.IsExhausted)
	require.True(t, got.RemainingAmount.Equal(d("40")))
}

func TestConsumeInsufficientIsAllOrNothing(t *testing.T) {
	svc, node := setupService(t)
	ctx := context.Background()

	profileID := node.Generate()
	owner := domain.ProfileRef{CompanyProfileID: &profileID}

	dep, err := svc.Create(ctx, domain.CreateRequest{
		Owner:       owner,
		DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      d("25"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	_, err = svc.ConsumeFIFO(ctx, domain.ConsumeRequest{
		Owner:        owner,
		Amount:       d("40"),
		Currency:     "USD",
		FallbackRate: d("1"),
		RoundingRule: rounding.RuleFloor,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	got, err := svc.Get(ctx, dep.ID)
	require.NoError(t, err)
	require.True(t, got.RemainingAmount.Equal(d("25")))
	require.False(t, got.IsExhausted)

	usages, err := svc.Usages(ctx, dep.ID)
	require.NoError(t, err)
	require.Empty(t, usages)
}

func TestConsumeConvertsWithStoredAndFallbackRates(t *testing.T) {
	svc, node := setupService(t)
	ctx := context.Background()

	profileID := node.Generate()
	owner := domain.ProfileRef{ContractProfileID: &profileID}

	fixed := d("1300")
	_, err := svc.Create(ctx, domain.CreateRequest{
		Owner:        owner,
		DepositDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:       d("10"),
		Currency:     "USD",
		ExchangeRate: &fixed,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{
		Owner:       owner,
		DepositDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Amount:      d("10"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	result, err := svc.ConsumeFIFO(ctx, domain.ConsumeRequest{
		Owner:        owner,
		Amount:       d("15"),
		Currency:     "USD",
		FallbackRate: d("1350"),
		RoundingRule: rounding.RuleFloor,
	})
	require.NoError(t, err)
	require.Len(t, result.Usages, 2)

	// 10 at the deposit's own rate, 5 at the fallback rate.
	require.True(t, result.Usages[0].AmountConverted.Equal(d("13000")))
	require.True(t, result.Usages[1].AmountConverted.Equal(d("6750")))
	require.True(t, result.ConvertedTotal.Equal(d("19750")))
}

func TestReverseRestoresBalances(t *testing.T) {
	svc, node := setupService(t)
	ctx := context.Background()

	profileID := node.Generate()
	owner := domain.ProfileRef{ContractProfileID: &profileID}

	dep, err := svc.Create(ctx, domain.CreateRequest{
		Owner:       owner,
		DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      d("30"),
		Currency:    "USD",
	})
	require.NoError(t, err)

	_, err = svc.ConsumeFIFO(ctx, domain.ConsumeRequest{
		Owner:        owner,
		Amount:       d("30"),
		Currency:     "USD",
		SlipBatchID:  "batch-9",
		FallbackRate: d("1"),
		RoundingRule: rounding.RuleFloor,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, dep.ID)
	require.NoError(t, err)
	require.True(t, got.IsExhausted)

	reversed, err := svc.Reverse(ctx, "batch-9")
	require.NoError(t, err)
	require.Equal(t, 1, reversed)

	got, err = svc.Get(ctx, dep.ID)
	require.NoError(t, err)
	require.False(t, got.IsExhausted)
	require.True(t, got.RemainingAmount.Equal(d("30")))

	usages, err := svc.Usages(ctx, dep.ID)
	require.NoError(t, err)
	require.Empty(t, usages)

	// Reversing an unknown batch is a no-op.
	reversed, err = svc.Reverse(ctx, "missing")
	require.NoError(t, err)
	require.Zero(t, reversed)
}

func TestRowsStampedFromInjectedClock(t *testing.T) {
	svc, node := setupService(t)
	ctx := context.Background()

	profileID := node.Generate()
	owner := domain.ProfileRef{ContractProfileID: &profileID}

	dep, err := svc.Create(ctx, domain.CreateRequest{
		Owner:       owner,
		DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      d("10"),
		Currency:    "USD",
	})
	require.NoError(t, err)
	require.True(t, dep.CreatedAt.Equal(ledgerTime))
	require.True(t, dep.UpdatedAt.Equal(ledgerTime))

	_, err = svc.ConsumeFIFO(ctx, domain.ConsumeRequest{
		Owner:        owner,
		Amount:       d("10"),
		Currency:     "USD",
		SlipBatchID:  "batch-2",
		FallbackRate: d("1"),
		RoundingRule: rounding.RuleFloor,
	})
	require.NoError(t, err)

	usages, err := svc.Usages(ctx, dep.ID)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	require.True(t, usages[0].CreatedAt.Equal(ledgerTime))
}

func TestBalanceGroupsByCurrency(t *testing.T) {
	svc, node := setupService(t)
	ctx := context.Background()

	profileID := node.Generate()
	owner := domain.ProfileRef{CompanyProfileID: &profileID}

	for _, in := range []struct {
		amount   string
		currency string
	}{
		{"100", "USD"},
		{"50", "USD"},
		{"20000", "KRW"},
	} {
		_, err := svc.Create(ctx, domain.CreateRequest{
			Owner:       owner,
			DepositDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Amount:      d(in.amount),
			Currency:    in.currency,
		})
		require.NoError(t, err)
	}

	balances, err := svc.Balance(ctx, owner)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	require.Equal(t, "USD", balances[0].Currency)
	require.True(t, balances[0].Remaining.Equal(d("150")))
	require.Equal(t, 2, balances[0].Deposits)
	require.Equal(t, "KRW", balances[1].Currency)
	require.True(t, balances[1].Remaining.Equal(d("20000")))
}
