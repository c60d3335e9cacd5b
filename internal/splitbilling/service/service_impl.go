package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/billingcycle"
	domain "github.com/smallbiznis/cloudslip/internal/splitbilling/domain"
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
	return &service{db: p.DB, node: p.Node, log: p.Log.Named("splitbilling.service")}
}

func (s *service) CreateRule(ctx context.Context, req domain.CreateRequest) (*domain.SplitBillingRule, error) {
	if len(req.Allocations) == 0 {
		return nil, domain.ErrNoAllocations
	}
	if err := domain.ValidatePercentages(req.Allocations); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rule := domain.SplitBillingRule{
		ID:               s.node.Generate(),
		Name:             req.Name,
		SourceAccountUID: req.SourceAccountUID,
		SourceContractID: req.SourceContractID,
		EffectiveFrom:    req.EffectiveFrom,
		EffectiveTo:      req.EffectiveTo,
		IsActive:         true,
		Note:             req.Note,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, in := range req.Allocations {
		rule.Allocations = append(rule.Allocations, domain.SplitBillingAllocation{
			ID:              s.node.Generate(),
			RuleID:          rule.ID,
			TargetCompanyID: in.TargetCompanyID,
			SplitType:       in.SplitType,
			SplitValue:      in.SplitValue,
			Priority:        in.Priority,
			Note:            in.Note,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if err := s.db.WithContext(ctx).Create(&rule).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *service) UpdateRule(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.SplitBillingRule, error) {
	var rule domain.SplitBillingRule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Allocations").First(&rule, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRuleNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if req.Name != nil {
			rule.Name = *req.Name
		}
		if req.EffectiveFrom != nil {
			rule.EffectiveFrom = req.EffectiveFrom
		}
		if req.EffectiveTo != nil {
			rule.EffectiveTo = req.EffectiveTo
		}
		if req.IsActive != nil {
			rule.IsActive = *req.IsActive
		}
		if req.Note != nil {
			rule.Note = *req.Note
		}
		rule.UpdatedAt = now

		if req.Allocations != nil {
			if len(req.Allocations) == 0 {
				return domain.ErrNoAllocations
			}
			if err := domain.ValidatePercentages(req.Allocations); err != nil {
				return err
			}
			if err := tx.Where("rule_id = ?", rule.ID).Delete(&domain.SplitBillingAllocation{}).Error; err != nil {
				return err
			}
			rule.Allocations = nil
			for _, in := range req.Allocations {
				alloc := domain.SplitBillingAllocation{
					ID:              s.node.Generate(),
					RuleID:          rule.ID,
					TargetCompanyID: in.TargetCompanyID,
					SplitType:       in.SplitType,
					SplitValue:      in.SplitValue,
					Priority:        in.Priority,
					Note:            in.Note,
					CreatedAt:       now,
					UpdatedAt:       now,
				}
				if err := tx.Create(&alloc).Error; err != nil {
					return err
				}
				rule.Allocations = append(rule.Allocations, alloc)
			}
		}

		return tx.Omit("Allocations").Save(&rule).Error
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *service) DeleteRule(ctx context.Context, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.SplitBillingRule{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRuleNotFound
		}
		return tx.Where("rule_id = ?", id).Delete(&domain.SplitBillingAllocation{}).Error
	})
}

func (s *service) GetRule(ctx context.Context, id snowflake.ID) (*domain.SplitBillingRule, error) {
	var rule domain.SplitBillingRule
	err := s.db.WithContext(ctx).Preload("Allocations").First(&rule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (s *service) ListRules(ctx context.Context, filter domain.Filter) ([]domain.SplitBillingRule, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.SplitBillingRule{}).Preload("Allocations")
	if filter.SourceAccountUID != "" {
		stmt = stmt.Where("source_account_uid = ?", filter.SourceAccountUID)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rules []domain.SplitBillingRule
	if err := stmt.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *service) RuleFor(ctx context.Context, accountUID, billingCycle string) (*domain.SplitBillingRule, error) {
	cycleStart, err := billingcycle.FirstDay(billingCycle)
	if err != nil {
		return nil, err
	}

	var rules []domain.SplitBillingRule
	err = s.db.WithContext(ctx).Preload("Allocations").
		Where("source_account_uid = ? AND is_active = ?", accountUID, true).
		Order("created_at DESC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}

	for i := range rules {
		rule := &rules[i]
		if rule.EffectiveFrom != nil && rule.EffectiveFrom.After(cycleStart) {
			continue
		}
		if rule.EffectiveTo != nil && rule.EffectiveTo.Before(cycleStart) {
			continue
		}
		return rule, nil
	}
	return nil, nil
}

func (s *service) Simulate(ctx context.Context, id snowflake.ID, amount decimal.Decimal) (domain.SplitResult, error) {
	rule, err := s.GetRule(ctx, id)
	if err != nil {
		return domain.SplitResult{}, err
	}
	return domain.Allocate(rule.Allocations, amount), nil
}
