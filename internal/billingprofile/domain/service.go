package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateCompanyProfile(ctx context.Context, profile *CompanyBillingProfile) error
	UpdateCompanyProfile(ctx context.Context, id snowflake.ID, patch CompanyProfileUpdate) (*CompanyBillingProfile, error)
	ListCompanyProfiles(ctx context.Context, vendor string) ([]CompanyBillingProfile, error)

	CreateContractProfile(ctx context.Context, profile *ContractBillingProfile) error
	UpdateContractProfile(ctx context.Context, id snowflake.ID, patch ContractProfileUpdate) (*ContractBillingProfile, error)
	ListContractProfiles(ctx context.Context, vendor string) ([]ContractBillingProfile, error)

	// FindCompanyProfile and FindContractProfile return (nil, nil) when
	// no profile exists; generation treats a missing profile as an
	// instruction to fall through the chain.
	FindCompanyProfile(ctx context.Context, companyID snowflake.ID, vendor string) (*CompanyBillingProfile, error)
	FindContractProfile(ctx context.Context, contractID snowflake.ID, vendor string) (*ContractBillingProfile, error)
}
