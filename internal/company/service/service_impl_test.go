package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	domain "github.com/smallbiznis/cloudslip/internal/company/domain"
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
	require.NoError(t, db.AutoMigrate(
		&domain.Company{},
		&domain.Contract{},
		&domain.VendorAccount{},
		&domain.AccountContractMapping{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewService(Params{DB: db, Node: node, Log: zap.NewNop()})
}

func seedChain(t *testing.T, svc domain.Service, uid string, enabled bool) (snowflake.ID, snowflake.ID) {
	t.Helper()
	ctx := context.Background()

	company := domain.Company{Vendor: "alibaba", Name: "Acme " + uid, IsActive: true}
	require.NoError(t, svc.CreateCompany(ctx, &company))
	contract := domain.Contract{Vendor: "alibaba", CompanyID: company.ID, Enabled: enabled}
	require.NoError(t, svc.CreateContract(ctx, &contract))
	require.NoError(t, svc.UpsertAccount(ctx, &domain.VendorAccount{UID: uid, Vendor: "alibaba", IsActive: true}))
	require.NoError(t, svc.CreateMapping(ctx, &domain.AccountContractMapping{AccountUID: uid, ContractID: contract.ID}))
	return company.ID, contract.ID
}

func TestResolveBinding(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	companyID, contractID := seedChain(t, svc, "acct-1", true)

	binding, err := svc.ResolveBinding(ctx, "acct-1")
	require.NoError(t, err)
	require.Equal(t, contractID, binding.Contract.ID)
	require.Equal(t, companyID, binding.Company.ID)
}

func TestResolveBindingSkipsDisabledContracts(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, disabledID := seedChain(t, svc, "acct-1", false)

	// No enabled contract among the mappings.
	_, err := svc.ResolveBinding(ctx, "acct-1")
	require.ErrorIs(t, err, domain.ErrAccountUnmapped)

	// A later enabled mapping wins over the disabled one.
	company := domain.Company{Vendor: "alibaba", Name: "Second", IsActive: true}
	require.NoError(t, svc.CreateCompany(ctx, &company))
	contract := domain.Contract{Vendor: "alibaba", CompanyID: company.ID, Enabled: true}
	require.NoError(t, svc.CreateContract(ctx, &contract))
	require.NoError(t, svc.CreateMapping(ctx, &domain.AccountContractMapping{AccountUID: "acct-1", ContractID: contract.ID}))

	binding, err := svc.ResolveBinding(ctx, "acct-1")
	require.NoError(t, err)
	require.Equal(t, contract.ID, binding.Contract.ID)
	require.NotEqual(t, disabledID, binding.Contract.ID)
}

func TestResolveBindingUnknownAccount(t *testing.T) {
	svc := setupService(t)
	_, err := svc.ResolveBinding(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrAccountUnmapped)
}

func TestUpsertAccountIsIdempotent(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.UpsertAccount(ctx, &domain.VendorAccount{UID: "acct-1", Vendor: "alibaba", Name: "first"}))
	require.NoError(t, svc.UpsertAccount(ctx, &domain.VendorAccount{UID: "acct-1", Vendor: "alibaba", Name: "renamed"}))

	accounts, err := svc.ListAccounts(ctx, "alibaba")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "renamed", accounts[0].Name)
}
