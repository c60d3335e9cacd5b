package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	domain "github.com/smallbiznis/cloudslip/internal/additionalcharge/domain"
	"github.com/smallbiznis/cloudslip/internal/billingcycle"
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
	return &service{db: p.DB, node: p.Node, log: p.Log.Named("additionalcharge.service")}
}

func (s *service) Create(ctx context.Context, charge *domain.AdditionalCharge) error {
	now := time.Now().UTC()
	charge.ID = s.node.Generate()
	charge.CreatedAt = now
	charge.UpdatedAt = now
	if charge.ChargeType == "" {
		charge.ChargeType = domain.ChargeOther
	}
	if charge.RecurrenceType == "" {
		charge.RecurrenceType = domain.RecurrenceOneTime
	}
	return s.db.WithContext(ctx).Create(charge).Error
}

func (s *service) Update(ctx context.Context, id snowflake.ID, patch domain.Update) (*domain.AdditionalCharge, error) {
	var charge domain.AdditionalCharge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&charge, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrChargeNotFound
			}
			return err
		}
		if patch.Name != nil {
			charge.Name = *patch.Name
		}
		if patch.ChargeType != nil {
			charge.ChargeType = *patch.ChargeType
		}
		if patch.Amount != nil {
			charge.Amount = *patch.Amount
		}
		if patch.Currency != nil {
			charge.Currency = *patch.Currency
		}
		if patch.RecurrenceType != nil {
			charge.RecurrenceType = *patch.RecurrenceType
		}
		if patch.StartDate != nil {
			charge.StartDate = patch.StartDate
		}
		if patch.EndDate != nil {
			charge.EndDate = patch.EndDate
		}
		if patch.AppliesToSales != nil {
			charge.AppliesToSales = *patch.AppliesToSales
		}
		if patch.AppliesToPurchase != nil {
			charge.AppliesToPurchase = *patch.AppliesToPurchase
		}
		if patch.IsActive != nil {
			charge.IsActive = *patch.IsActive
		}
		if patch.Note != nil {
			charge.Note = *patch.Note
		}
		charge.UpdatedAt = time.Now().UTC()
		return tx.Save(&charge).Error
	})
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.AdditionalCharge, error) {
	var charge domain.AdditionalCharge
	if err := s.db.WithContext(ctx).First(&charge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChargeNotFound
		}
		return nil, err
	}
	return &charge, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	res := s.db.WithContext(ctx).Delete(&domain.AdditionalCharge{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrChargeNotFound
	}
	return nil
}

func (s *service) List(ctx context.Context, filter domain.Filter) ([]domain.AdditionalCharge, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.AdditionalCharge{})
	if filter.ContractID != nil {
		stmt = stmt.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.ChargeType != "" {
		stmt = stmt.Where("charge_type = ?", filter.ChargeType)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	var charges []domain.AdditionalCharge
	if err := stmt.Order("charge_type ASC, id ASC").Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

func (s *service) Applicable(ctx context.Context, contractID snowflake.ID, cycle string, sales bool) ([]domain.AdditionalCharge, error) {
	year, month, err := billingcycle.Parse(cycle)
	if err != nil {
		return nil, err
	}
	cycleStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	cycleEnd := cycleStart.AddDate(0, 1, 0)

	stmt := s.db.WithContext(ctx).
		Where("contract_id = ? AND is_active = ?", contractID, true)
	if sales {
		stmt = stmt.Where("applies_to_sales = ?", true)
	} else {
		stmt = stmt.Where("applies_to_purchase = ?", true)
	}

	var charges []domain.AdditionalCharge
	if err := stmt.Order("charge_type ASC, id ASC").Find(&charges).Error; err != nil {
		return nil, err
	}

	applicable := charges[:0]
	for _, charge := range charges {
		if charge.AppliesTo(cycleStart, cycleEnd) {
			applicable = append(applicable, charge)
		}
	}
	return applicable, nil
}
