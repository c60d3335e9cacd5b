package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/billingcycle"
	"github.com/smallbiznis/cloudslip/internal/clock"
	domain "github.com/smallbiznis/cloudslip/internal/prorata/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Node  *snowflake.Node
	Clock clock.Clock
	Log   *zap.Logger
}

type service struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(p Params) domain.Service {
	return &service{db: p.DB, node: p.Node, clock: p.Clock, log: p.Log.Named("prorata.service")}
}

func (s *service) CreatePeriod(ctx context.Context, req domain.CreateRequest) (*domain.ProRataPeriod, error) {
	if !billingcycle.Valid(req.BillingCycle) {
		return nil, errors.New("invalid_billing_cycle")
	}

	var existing domain.ProRataPeriod
	err := s.db.WithContext(ctx).
		Where("contract_id = ? AND billing_cycle = ?", req.ContractID, req.BillingCycle).
		First(&existing).Error
	if err == nil {
		return nil, domain.ErrPeriodExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	calc, err := domain.CalcRatio(req.BillingCycle, req.StartDay, req.EndDay)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	period := domain.ProRataPeriod{
		ID:           s.node.Generate(),
		ContractID:   req.ContractID,
		BillingCycle: req.BillingCycle,
		StartDay:     calc.StartDay,
		EndDay:       calc.EndDay,
		TotalDays:    calc.TotalDays,
		ActiveDays:   calc.ActiveDays,
		Ratio:        calc.Ratio,
		IsManual:     true,
		Note:         req.Note,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

func (s *service) UpdatePeriod(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.ProRataPeriod, error) {
	var period domain.ProRataPeriod
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&period, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPeriodNotFound
			}
			return err
		}

		if req.StartDay != nil || req.EndDay != nil {
			startDay := period.StartDay
			endDay := period.EndDay
			if req.StartDay != nil {
				startDay = *req.StartDay
			}
			if req.EndDay != nil {
				endDay = *req.EndDay
			}
			calc, err := domain.CalcRatio(period.BillingCycle, startDay, endDay)
			if err != nil {
				return err
			}
			period.StartDay = calc.StartDay
			period.EndDay = calc.EndDay
			period.TotalDays = calc.TotalDays
			period.ActiveDays = calc.ActiveDays
			period.Ratio = calc.Ratio
		}
		if req.Note != nil {
			period.Note = *req.Note
		}
		period.UpdatedAt = s.clock.Now()

		return tx.Save(&period).Error
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (s *service) DeletePeriod(ctx context.Context, id snowflake.ID) error {
	res := s.db.WithContext(ctx).Delete(&domain.ProRataPeriod{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPeriodNotFound
	}
	return nil
}

func (s *service) GetPeriod(ctx context.Context, id snowflake.ID) (*domain.ProRataPeriod, error) {
	var period domain.ProRataPeriod
	if err := s.db.WithContext(ctx).First(&period, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPeriodNotFound
		}
		return nil, err
	}
	return &period, nil
}

func (s *service) ListPeriods(ctx context.Context, filter domain.Filter) ([]domain.ProRataPeriod, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.ProRataPeriod{})
	if filter.ContractID != nil {
		stmt = stmt.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.BillingCycle != "" {
		stmt = stmt.Where("billing_cycle = ?", filter.BillingCycle)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var periods []domain.ProRataPeriod
	err := stmt.Order("billing_cycle DESC, created_at DESC").Limit(limit).Offset(filter.Offset).Find(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

func (s *service) Calculate(ctx context.Context, contractID snowflake.ID, cycle string, dates domain.ContractDates) (domain.Result, error) {
	manual, err := s.manualPeriod(ctx, contractID, cycle)
	if err != nil {
		return domain.Result{}, err
	}
	if manual != nil {
		return domain.Result{
			ContractID:   contractID,
			BillingCycle: cycle,
			Ratio:        manual.Ratio,
			Source:       domain.SourceManual,
			Details: &domain.Calculation{
				StartDay:   manual.StartDay,
				EndDay:     manual.EndDay,
				TotalDays:  manual.TotalDays,
				ActiveDays: manual.ActiveDays,
				Ratio:      manual.Ratio,
				Reason:     domain.ReasonPartialMonth,
			},
		}, nil
	}

	auto, err := domain.AutoCalc(dates.Start, dates.End, cycle)
	if err != nil {
		return domain.Result{}, err
	}
	if auto != nil {
		return domain.Result{
			ContractID:   contractID,
			BillingCycle: cycle,
			Ratio:        auto.Ratio,
			Source:       domain.SourceAuto,
			Details:      auto,
		}, nil
	}

	totalDays, err := billingcycle.DaysIn(cycle)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Result{
		ContractID:   contractID,
		BillingCycle: cycle,
		Ratio:        decimal.NewFromInt(1),
		Source:       domain.SourceNone,
		Details: &domain.Calculation{
			StartDay:   1,
			EndDay:     totalDays,
			TotalDays:  totalDays,
			ActiveDays: totalDays,
			Ratio:      decimal.NewFromInt(1),
			Reason:     domain.ReasonFullMonth,
		},
	}, nil
}

func (s *service) RatioFor(ctx context.Context, contractID snowflake.ID, cycle string, dates domain.ContractDates, vendorEnabled bool, override string) (*decimal.Decimal, string, error) {
	if override == domain.OverrideDisabled {
		return nil, "", nil
	}
	if override != domain.OverrideEnabled && !vendorEnabled {
		return nil, "", nil
	}

	manual, err := s.manualPeriod(ctx, contractID, cycle)
	if err != nil {
		return nil, "", err
	}
	if manual != nil {
		if manual.Ratio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, "", nil
		}
		ratio := manual.Ratio
		return &ratio, domain.SourceManual, nil
	}

	auto, err := domain.AutoCalc(dates.Start, dates.End, cycle)
	if err != nil {
		return nil, "", err
	}
	if auto != nil && auto.Ratio.LessThan(decimal.NewFromInt(1)) {
		ratio := auto.Ratio
		return &ratio, domain.SourceAuto, nil
	}
	return nil, "", nil
}

func (s *service) manualPeriod(ctx context.Context, contractID snowflake.ID, cycle string) (*domain.ProRataPeriod, error) {
	var period domain.ProRataPeriod
	err := s.db.WithContext(ctx).
		Where("contract_id = ? AND billing_cycle = ?", contractID, cycle).
		First(&period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}
