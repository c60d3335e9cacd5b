package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	domain "github.com/smallbiznis/cloudslip/internal/company/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Node *snowflake.Node
	Log  *zap.Logger
}

type service struct {
	db   *gorm.DB
	node *snowflake.Node
	log  *zap.Logger
}

func NewService(p Params) domain.Service {
	return &service{db: p.DB, node: p.Node, log: p.Log.Named("company.service")}
}

func (s *service) CreateCompany(ctx context.Context, company *domain.Company) error {
	now := time.Now().UTC()
	company.ID = s.node.Generate()
	company.CreatedAt = now
	company.UpdatedAt = now
	if company.DefaultCurrency == "" {
		company.DefaultCurrency = "KRW"
	}
	return s.db.WithContext(ctx).Create(company).Error
}

func (s *service) UpdateCompany(ctx context.Context, id snowflake.ID, patch domain.CompanyUpdate) (*domain.Company, error) {
	var company domain.Company
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&company, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCompanyNotFound
			}
			return err
		}
		if patch.Name != nil {
			company.Name = *patch.Name
		}
		if patch.LicenseNo != nil {
			company.LicenseNo = *patch.LicenseNo
		}
		if patch.PartnerCode != nil {
			company.PartnerCode = *patch.PartnerCode
		}
		if patch.IsInternalCost != nil {
			company.IsInternalCost = *patch.IsInternalCost
		}
		if patch.IsOverseas != nil {
			company.IsOverseas = *patch.IsOverseas
		}
		if patch.DefaultCurrency != nil {
			company.DefaultCurrency = *patch.DefaultCurrency
		}
		if patch.ContactName != nil {
			company.ContactName = *patch.ContactName
		}
		if patch.ContactEmail != nil {
			company.ContactEmail = *patch.ContactEmail
		}
		if patch.IsActive != nil {
			company.IsActive = *patch.IsActive
		}
		company.UpdatedAt = time.Now().UTC()
		return tx.Save(&company).Error
	})
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *service) GetCompany(ctx context.Context, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (s *service) ListCompanies(ctx context.Context, vendor string) ([]domain.Company, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.Company{})
	if vendor != "" {
		stmt = stmt.Where("vendor = ?", vendor)
	}
	var companies []domain.Company
	if err := stmt.Order("name ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *service) CreateContract(ctx context.Context, contract *domain.Contract) error {
	now := time.Now().UTC()
	contract.ID = s.node.Generate()
	contract.CreatedAt = now
	contract.UpdatedAt = now
	return s.db.WithContext(ctx).Create(contract).Error
}

func (s *service) UpdateContract(ctx context.Context, id snowflake.ID, patch domain.ContractUpdate) (*domain.Contract, error) {
	var contract domain.Contract
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrContractNotFound
			}
			return err
		}
		if patch.Name != nil {
			contract.Name = *patch.Name
		}
		if patch.Corporation != nil {
			contract.Corporation = *patch.Corporation
		}
		if patch.ChargeCurrency != nil {
			contract.ChargeCurrency = *patch.ChargeCurrency
		}
		if patch.DiscountRate != nil {
			contract.DiscountRate = patch.DiscountRate
		}
		if patch.SalesPerson != nil {
			contract.SalesPerson = *patch.SalesPerson
		}
		if patch.SalesContractCode != nil {
			contract.SalesContractCode = *patch.SalesContractCode
		}
		if patch.TaxInvoiceMonth != nil {
			contract.TaxInvoiceMonth = *patch.TaxInvoiceMonth
		}
		if patch.Enabled != nil {
			contract.Enabled = *patch.Enabled
		}
		if patch.ContractStartDate != nil {
			contract.ContractStartDate = patch.ContractStartDate
		}
		if patch.ContractEndDate != nil {
			contract.ContractEndDate = patch.ContractEndDate
		}
		contract.UpdatedAt = time.Now().UTC()
		return tx.Save(&contract).Error
	})
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (s *service) GetContract(ctx context.Context, id snowflake.ID) (*domain.Contract, error) {
	var contract domain.Contract
	if err := s.db.WithContext(ctx).First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (s *service) ListContracts(ctx context.Context, vendor string) ([]domain.Contract, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.Contract{})
	if vendor != "" {
		stmt = stmt.Where("vendor = ?", vendor)
	}
	var contracts []domain.Contract
	if err := stmt.Order("name ASC").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (s *service) UpsertAccount(ctx context.Context, account *domain.VendorAccount) error {
	now := time.Now().UTC()
	account.UpdatedAt = now
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "master_id", "corporation", "is_active", "updated_at"}),
	}).Create(account).Error
}

func (s *service) ListAccounts(ctx context.Context, vendor string) ([]domain.VendorAccount, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.VendorAccount{})
	if vendor != "" {
		stmt = stmt.Where("vendor = ?", vendor)
	}
	var accounts []domain.VendorAccount
	if err := stmt.Order("uid ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *service) CreateMapping(ctx context.Context, mapping *domain.AccountContractMapping) error {
	now := time.Now().UTC()
	mapping.ID = s.node.Generate()
	mapping.CreatedAt = now
	mapping.UpdatedAt = now
	return s.db.WithContext(ctx).Create(mapping).Error
}

func (s *service) DeleteMapping(ctx context.Context, id snowflake.ID) error {
	res := s.db.WithContext(ctx).Delete(&domain.AccountContractMapping{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMappingNotFound
	}
	return nil
}

func (s *service) ListMappings(ctx context.Context, accountUID string) ([]domain.AccountContractMapping, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.AccountContractMapping{})
	if accountUID != "" {
		stmt = stmt.Where("account_uid = ?", accountUID)
	}
	var mappings []domain.AccountContractMapping
	if err := stmt.Order("id ASC").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// ResolveBinding walks the account's mappings in insertion order and
// returns the first one whose contract is enabled, together with the
// contract's company.
func (s *service) ResolveBinding(ctx context.Context, accountUID string) (*domain.Binding, error) {
	var mappings []domain.AccountContractMapping
	err := s.db.WithContext(ctx).
		Where("account_uid = ?", accountUID).
		Order("id ASC").
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return nil, domain.ErrAccountUnmapped
	}

	for _, mapping := range mappings {
		var contract domain.Contract
		if err := s.db.WithContext(ctx).First(&contract, "id = ?", mapping.ContractID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		if !contract.Enabled {
			continue
		}
		var company domain.Company
		if err := s.db.WithContext(ctx).First(&company, "id = ?", contract.CompanyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrCompanyNotFound
			}
			return nil, err
		}
		return &domain.Binding{Contract: contract, Company: company}, nil
	}
	return nil, domain.ErrAccountUnmapped
}
