package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	domain "github.com/smallbiznis/cloudslip/internal/usage/domain"
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
	return &service{db: p.DB, node: p.Node, log: p.Log.Named("usage.service")}
}

func (s *service) Import(ctx context.Context, req domain.ImportRequest) (int, error) {
	if len(req.Records) == 0 {
		return 0, domain.ErrEmptyImport
	}
	if req.BillingType != domain.BillingEnduser && req.BillingType != domain.BillingReseller {
		return 0, domain.ErrInvalidBillingType
	}

	now := time.Now().UTC()
	rows := make([]domain.UsageRecord, 0, len(req.Records))
	for _, rec := range req.Records {
		rows = append(rows, domain.UsageRecord{
			ID:               s.node.Generate(),
			Vendor:           req.Vendor,
			BillingCycle:     req.BillingCycle,
			BillingType:      req.BillingType,
			AccountUID:       rec.AccountUID,
			LinkedAccountUID: rec.LinkedAccountUID,
			ProductCode:      rec.ProductCode,
			Amount:           rec.Amount,
			Currency:         rec.Currency,
			CreatedAt:        now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Replace {
			err := tx.Where("vendor = ? AND billing_cycle = ? AND billing_type = ?",
				req.Vendor, req.BillingCycle, req.BillingType).
				Delete(&domain.UsageRecord{}).Error
			if err != nil {
				return err
			}
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("usage imported",
		zap.String("vendor", req.Vendor),
		zap.String("billing_cycle", req.BillingCycle),
		zap.Int("records", len(rows)),
	)
	return len(rows), nil
}

func (s *service) List(ctx context.Context, vendor, billingCycle string) ([]domain.UsageRecord, error) {
	stmt := s.db.WithContext(ctx).Model(&domain.UsageRecord{})
	if vendor != "" {
		stmt = stmt.Where("vendor = ?", vendor)
	}
	if billingCycle != "" {
		stmt = stmt.Where("billing_cycle = ?", billingCycle)
	}
	var records []domain.UsageRecord
	if err := stmt.Order("account_uid ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *service) TotalsByAccount(ctx context.Context, vendor, billingCycle string, billingType domain.BillingType) ([]domain.AccountTotal, error) {
	var records []domain.UsageRecord
	err := s.db.WithContext(ctx).
		Where("vendor = ? AND billing_cycle = ? AND billing_type = ?", vendor, billingCycle, billingType).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	totals := map[string]decimal.Decimal{}
	for _, rec := range records {
		key := rec.AccountUID
		if billingType == domain.BillingReseller && rec.LinkedAccountUID != "" {
			key = rec.LinkedAccountUID
		}
		totals[key] = totals[key].Add(rec.Amount)
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]domain.AccountTotal, 0, len(keys))
	for _, key := range keys {
		out = append(out, domain.AccountTotal{AccountUID: key, Amount: totals[key]})
	}
	return out, nil
}
