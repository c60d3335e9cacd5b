package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	domain "github.com/smallbiznis/cloudslip/internal/billingprofile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
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
	return &service{db: p.DB, node: p.Node, log: p.Log.Named("billingprofile.service")}
}

func (s *service) CreateCompanyProfile(ctx context.Context, profile *domain.CompanyBillingProfile) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.CompanyBillingProfile{}).
		Where("company_id = ? AND vendor = ?", profile.CompanyID, profile.Vendor).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrProfileExists
	}

	now := time.Now().UTC()
	profile.ID = s.node.Generate()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return s.db.WithContext(ctx).Create(profile).Error
}

func (s *service) UpdateCompanyProfile(ctx context.Context, id snowflake.ID, patch domain.CompanyProfileUpdate) (*domain.CompanyBillingProfile, error) {
	var profile domain.CompanyBillingProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProfileNotFound
			}
			return err
		}
		if patch.PaymentType != nil {
			profile.PaymentType = *patch.PaymentType
		}
		if patch.Currency != nil {
			profile.Currency = *patch.Currency
		}
		if patch.RevenueSalesAccount != nil {
			profile.RevenueSalesAccount = *patch.RevenueSalesAccount
		}
		if patch.RevenuePurchaseAccount != nil {
			profile.RevenuePurchaseAccount = *patch.RevenuePurchaseAccount
		}
		if patch.ARAccount != nil {
			profile.ARAccount = *patch.ARAccount
		}
		if patch.APAccount != nil {
			profile.APAccount = *patch.APAccount
		}
		profile.UpdatedAt = time.Now().UTC()
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *service) ListCompanyProfiles(ctx context.Context, vendor string) ([]domain.CompanyBillingProfile, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.CompanyBillingProfile{})
	if vendor != "" {
		stmt = stmt.Where("vendor = ?", vendor)
	}
	var profiles []domain.CompanyBillingProfile
	if err := stmt.Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *service) CreateContractProfile(ctx context.Context, profile *domain.ContractBillingProfile) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.ContractBillingProfile{}).
		Where("contract_id = ? AND vendor = ?", profile.ContractID, profile.Vendor).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrProfileExists
	}

	now := time.Now().UTC()
	profile.ID = s.node.Generate()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return s.db.WithContext(ctx).Create(profile).Error
}

func (s *service) UpdateContractProfile(ctx context.Context, id snowflake.ID, patch domain.ContractProfileUpdate) (*domain.ContractBillingProfile, error) {
	var profile domain.ContractBillingProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProfileNotFound
			}
			return err
		}
		if patch.PaymentType != nil {
			profile.PaymentType = *patch.PaymentType
		}
		if patch.Currency != nil {
			profile.Currency = *patch.Currency
		}
		if patch.RevenueSalesAccount != nil {
			profile.RevenueSalesAccount = *patch.RevenueSalesAccount
		}
		if patch.RevenuePurchaseAccount != nil {
			profile.RevenuePurchaseAccount = *patch.RevenuePurchaseAccount
		}
		if patch.ARAccount != nil {
			profile.ARAccount = *patch.ARAccount
		}
		if patch.APAccount != nil {
			profile.APAccount = *patch.APAccount
		}
		if patch.ExchangeRateRule != nil {
			profile.ExchangeRateRule = *patch.ExchangeRateRule
		}
		if patch.CustomExchangeRateDate != nil {
			profile.CustomExchangeRateDate = patch.CustomExchangeRateDate
		}
		if patch.RoundingRuleOverride != nil {
			profile.RoundingRuleOverride = *patch.RoundingRuleOverride
		}
		if patch.ProRataOverride != nil {
			profile.ProRataOverride = *patch.ProRataOverride
		}
		profile.UpdatedAt = time.Now().UTC()
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *service) ListContractProfiles(ctx context.Context, vendor string) ([]domain.ContractBillingProfile, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.ContractBillingProfile{})
	if vendor != "" {
		stmt = stmt.Where("vendor = ?", vendor)
	}
	var profiles []domain.ContractBillingProfile
	if err := stmt.Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *service) FindCompanyProfile(ctx context.Context, companyID snowflake.ID, vendor string) (*domain.CompanyBillingProfile, error) {
	var profile domain.CompanyBillingProfile
	err := s.db.WithContext(ctx).
		First(&profile, "company_id = ? AND vendor = ?", companyID, vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (s *service) FindContractProfile(ctx context.Context, contractID snowflake.ID, vendor string) (*domain.ContractBillingProfile, error) {
	var profile domain.ContractBillingProfile
	err := s.db.WithContext(ctx).
		First(&profile, "contract_id = ? AND vendor = ?", contractID, vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
