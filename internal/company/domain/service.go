package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service manages companies, contracts, vendor accounts and their
// mappings.
type Service interface {
	CreateCompany(ctx context.Context, company *Company) error
	UpdateCompany(ctx context.Context, id snowflake.ID, patch CompanyUpdate) (*Company, error)
	GetCompany(ctx context.Context, id snowflake.ID) (*Company, error)
	ListCompanies(ctx context.Context, vendor string) ([]Company, error)

	CreateContract(ctx context.Context, contract *Contract) error
	UpdateContract(ctx context.Context, id snowflake.ID, patch ContractUpdate) (*Contract, error)
	GetContract(ctx context.Context, id snowflake.ID) (*Contract, error)
	ListContracts(ctx context.Context, vendor string) ([]Contract, error)

	UpsertAccount(ctx context.Context, account *VendorAccount) error
	ListAccounts(ctx context.Context, vendor string) ([]VendorAccount, error)

	CreateMapping(ctx context.Context, mapping *AccountContractMapping) error
	DeleteMapping(ctx context.Context, id snowflake.ID) error
	ListMappings(ctx context.Context, accountUID string) ([]AccountContractMapping, error)

	// ResolveBinding walks account -> first enabled mapping ->
	// contract -> company. ErrAccountUnmapped when no enabled mapping
	// exists.
	ResolveBinding(ctx context.Context, accountUID string) (*Binding, error)
}
