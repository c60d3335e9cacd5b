package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	domain "github.com/smallbiznis/cloudslip/internal/usage/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.UsageRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(Params{DB: db, Node: node, Log: zap.NewNop()})
}

func rec(account, linked, amount string) domain.ImportRecord {
	return domain.ImportRecord{
		AccountUID:       account,
		LinkedAccountUID: linked,
		Amount:           decimal.RequireFromString(amount),
		Currency:         "USD",
	}
}

func TestImportValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, domain.ImportRequest{
		Vendor: "alibaba", BillingCycle: "202501", BillingType: domain.BillingEnduser,
	})
	require.ErrorIs(t, err, domain.ErrEmptyImport)

	_, err = svc.Import(ctx, domain.ImportRequest{
		Vendor: "alibaba", BillingCycle: "202501", BillingType: "unknown",
		Records: []domain.ImportRecord{rec("acct-1", "", "10")},
	})
	require.ErrorIs(t, err, domain.ErrInvalidBillingType)
}

func TestImportReplaceDropsPriorCycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	n, err := svc.Import(ctx, domain.ImportRequest{
		Vendor: "alibaba", BillingCycle: "202501", BillingType: domain.BillingEnduser,
		Records: []domain.ImportRecord{rec("acct-1", "", "10"), rec("acct-2", "", "20")},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = svc.Import(ctx, domain.ImportRequest{
		Vendor: "alibaba", BillingCycle: "202501", BillingType: domain.BillingEnduser,
		Replace: true,
		Records: []domain.ImportRecord{rec("acct-1", "", "15")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	records, err := svc.List(ctx, "alibaba", "202501")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Amount.Equal(decimal.RequireFromString("15")))
}

func TestTotalsByAccountGroupsEnduser(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, domain.ImportRequest{
		Vendor: "alibaba", BillingCycle: "202501", BillingType: domain.BillingEnduser,
		Records: []domain.ImportRecord{
			rec("acct-1", "", "10.5"),
			rec("acct-1", "", "4.5"),
			rec("acct-2", "", "20"),
		},
	})
	require.NoError(t, err)

	totals, err := svc.TotalsByAccount(ctx, "alibaba", "202501", domain.BillingEnduser)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.Equal(t, "acct-1", totals[0].AccountUID)
	require.True(t, totals[0].Amount.Equal(decimal.RequireFromString("15")))
	require.Equal(t, "acct-2", totals[1].AccountUID)
	require.True(t, totals[1].Amount.Equal(decimal.RequireFromString("20")))
}

func TestTotalsByAccountResellerKeysOnLinkedAccount(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, domain.ImportRequest{
		Vendor: "alibaba", BillingCycle: "202501", BillingType: domain.BillingReseller,
		Records: []domain.ImportRecord{
			rec("payer-1", "linked-a", "10"),
			rec("payer-1", "linked-b", "20"),
			rec("payer-1", "", "5"),
		},
	})
	require.NoError(t, err)

	totals, err := svc.TotalsByAccount(ctx, "alibaba", "202501", domain.BillingReseller)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	require.Equal(t, "linked-a", totals[0].AccountUID)
	require.Equal(t, "linked-b", totals[1].AccountUID)
	// Rows without a linked account stay under the payer.
	require.Equal(t, "payer-1", totals[2].AccountUID)
	require.True(t, totals[2].Amount.Equal(decimal.RequireFromString("5")))
}
