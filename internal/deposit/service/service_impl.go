package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/clock"
	domain "github.com/smallbiznis/cloudslip/internal/deposit/domain"
	"github.com/smallbiznis/cloudslip/internal/observability/metrics"
	"github.com/smallbiznis/cloudslip/pkg/rounding"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Node    *snowflake.Node
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
	Log     *zap.Logger
}

type service struct {
	db      *gorm.DB
	node    *snowflake.Node
	clock   clock.Clock
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(p Params) domain.Service {
	return &service{
		db:      p.DB,
		node:    p.Node,
		clock:   p.Clock,
		metrics: p.Metrics,
		log:     p.Log.Named("deposit.service"),
	}
}

func (s *service) WithTx(tx *gorm.DB) domain.Service {
	bound := *s
	bound.db = tx
	return &bound
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Deposit, error) {
	if !req.Owner.Valid() {
		return nil, domain.ErrInvalidOwner
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	dep := domain.Deposit{
		ID:                s.node.Generate(),
		CompanyProfileID:  req.Owner.CompanyProfileID,
		ContractProfileID: req.Owner.ContractProfileID,
		DepositDate:       req.DepositDate,
		Amount:            req.Amount,
		Currency:          req.Currency,
		ExchangeRate:      req.ExchangeRate,
		RemainingAmount:   req.Amount,
		Reference:         req.Reference,
		Description:       req.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.db.WithContext(ctx).Create(&dep).Error; err != nil {
		return nil, err
	}
	return &dep, nil
}

// Update applies an administrative correction. An amount change shifts
// the remaining balance by the same delta so already-consumed usage is
// preserved, then clamps to [0, amount].
func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Deposit, error) {
	var dep domain.Deposit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dep, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDepositNotFound
			}
			return err
		}

		if req.Amount != nil {
			if !req.Amount.IsPositive() {
				return domain.ErrInvalidAmount
			}
			diff := req.Amount.Sub(dep.Amount)
			dep.Amount = *req.Amount
			dep.RemainingAmount = dep.RemainingAmount.Add(diff)
			if dep.RemainingAmount.IsNegative() {
				dep.RemainingAmount = decimal.Zero
			}
			if dep.RemainingAmount.GreaterThan(dep.Amount) {
				dep.RemainingAmount = dep.Amount
			}
			dep.IsExhausted = dep.RemainingAmount.IsZero()
		}
		if req.DepositDate != nil {
			dep.DepositDate = *req.DepositDate
		}
		if req.ExchangeRate != nil {
			dep.ExchangeRate = req.ExchangeRate
		}
		if req.Reference != nil {
			dep.Reference = *req.Reference
		}
		if req.Description != nil {
			dep.Description = *req.Description
		}
		dep.UpdatedAt = s.clock.Now()

		return tx.Save(&dep).Error
	})
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Deposit, error) {
	var dep domain.Deposit
	if err := s.db.WithContext(ctx).First(&dep, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDepositNotFound
		}
		return nil, err
	}
	return &dep, nil
}

func (s *service) List(ctx context.Context, filter domain.Filter) ([]domain.Deposit, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.Deposit{})
	if filter.Owner != nil {
		stmt = ownerScope(stmt, *filter.Owner)
	}
	if filter.Currency != "" {
		stmt = stmt.Where("currency = ?", filter.Currency)
	}
	if !filter.IncludeExhausted {
		stmt = stmt.Where("is_exhausted = ?", false)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var deps []domain.Deposit
	err := stmt.Order("deposit_date ASC, id ASC").Limit(limit).Offset(filter.Offset).Find(&deps).Error
	if err != nil {
		return nil, err
	}
	return deps, nil
}

func (s *service) Usages(ctx context.Context, depositID snowflake.ID) ([]domain.DepositUsage, error) {
	var usages []domain.DepositUsage
	err := s.db.WithContext(ctx).
		Where("deposit_id = ?", depositID).
		Order("created_at ASC, id ASC").
		Find(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}

func (s *service) Balance(ctx context.Context, owner domain.ProfileRef) ([]domain.CurrencyBalance, error) {
	if !owner.Valid() {
		return nil, domain.ErrInvalidOwner
	}
	var deps []domain.Deposit
	if err := ownerScope(s.db.WithContext(ctx).Model(&domain.Deposit{}), owner).Find(&deps).Error; err != nil {
		return nil, err
	}

	byCurrency := map[string]*domain.CurrencyBalance{}
	order := []string{}
	for _, dep := range deps {
		bal, ok := byCurrency[dep.Currency]
		if !ok {
			bal = &domain.CurrencyBalance{Currency: dep.Currency}
			byCurrency[dep.Currency] = bal
			order = append(order, dep.Currency)
		}
		bal.Total = bal.Total.Add(dep.Amount)
		bal.Remaining = bal.Remaining.Add(dep.RemainingAmount)
		bal.Deposits++
	}

	out := make([]domain.CurrencyBalance, 0, len(order))
	for _, cur := range order {
		out = append(out, *byCurrency[cur])
	}
	return out, nil
}

func (s *service) ConsumeFIFO(ctx context.Context, req domain.ConsumeRequest) (*domain.ConsumeResult, error) {
	if !req.Owner.Valid() {
		return nil, domain.ErrInvalidOwner
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	result := &domain.ConsumeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deps []domain.Deposit
		stmt := ownerScope(tx.Model(&domain.Deposit{}), req.Owner).
			Where("is_exhausted = ? AND currency = ?", false, req.Currency).
			Order("deposit_date ASC, id ASC")
		if err := stmt.Find(&deps).Error; err != nil {
			return err
		}

		available := decimal.Zero
		for _, dep := range deps {
			available = available.Add(dep.RemainingAmount)
		}
		if available.LessThan(req.Amount) {
			return domain.ErrInsufficientBalance
		}

		now := s.clock.Now()
		left := req.Amount
		for i := range deps {
			if !left.IsPositive() {
				break
			}
			dep := &deps[i]
			use := dep.RemainingAmount
			if use.GreaterThan(left) {
				use = left
			}

			rate := req.FallbackRate
			if dep.ExchangeRate != nil && !dep.ExchangeRate.IsZero() {
				rate = *dep.ExchangeRate
			}
			converted := rounding.Apply(use.Mul(rate), req.RoundingRule, 0)

			usage := domain.DepositUsage{
				ID:              s.node.Generate(),
				DepositID:       dep.ID,
				UsageDate:       req.UsageDate,
				Amount:          use,
				AmountConverted: converted,
				AppliedRate:     rate,
				BillingCycle:    req.BillingCycle,
				SlipBatchID:     req.SlipBatchID,
				AccountUID:      req.AccountUID,
				Description:     req.Description,
				CreatedAt:       now,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}

			dep.RemainingAmount = dep.RemainingAmount.Sub(use)
			dep.IsExhausted = dep.RemainingAmount.IsZero()
			dep.UpdatedAt = now
			if err := tx.Save(dep).Error; err != nil {
				return err
			}

			result.Usages = append(result.Usages, usage)
			result.Consumed = result.Consumed.Add(use)
			result.ConvertedTotal = result.ConvertedTotal.Add(converted)
			left = left.Sub(use)
		}

		remaining := decimal.Zero
		for _, dep := range deps {
			remaining = remaining.Add(dep.RemainingAmount)
		}
		result.Remaining = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordDepositUsage(ctx, req.Currency)
	s.log.Info("deposits consumed",
		zap.String("batch_id", req.SlipBatchID),
		zap.String("amount", result.Consumed.String()),
		zap.String("currency", req.Currency),
		zap.Int("usages", len(result.Usages)),
	)
	return result, nil
}

func (s *service) Reverse(ctx context.Context, slipBatchID string) (int, error) {
	reversed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var usages []domain.DepositUsage
		if err := tx.Where("slip_batch_id = ?", slipBatchID).Find(&usages).Error; err != nil {
			return err
		}
		if len(usages) == 0 {
			return nil
		}

		now := s.clock.Now()
		for _, usage := range usages {
			var dep domain.Deposit
			if err := tx.First(&dep, "id = ?", usage.DepositID).Error; err != nil {
				return err
			}
			dep.RemainingAmount = dep.RemainingAmount.Add(usage.Amount)
			if dep.RemainingAmount.GreaterThan(dep.Amount) {
				dep.RemainingAmount = dep.Amount
			}
			dep.IsExhausted = dep.RemainingAmount.IsZero()
			dep.UpdatedAt = now
			if err := tx.Save(&dep).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("slip_batch_id = ?", slipBatchID).Delete(&domain.DepositUsage{}).Error; err != nil {
			return err
		}
		reversed = len(usages)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if reversed > 0 {
		s.log.Info("deposit usages reversed", zap.String("batch_id", slipBatchID), zap.Int("count", reversed))
	}
	return reversed, nil
}

func ownerScope(stmt *gorm.DB, owner domain.ProfileRef) *gorm.DB {
	if owner.CompanyProfileID != nil {
		return stmt.Where("company_profile_id = ?", *owner.CompanyProfileID)
	}
	if owner.ContractProfileID != nil {
		return stmt.Where("contract_profile_id = ?", *owner.ContractProfileID)
	}
	return stmt
}
