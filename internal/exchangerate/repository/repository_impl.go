package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	domain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db   *gorm.DB
	node *snowflake.Node
}

func NewRepository(db *gorm.DB, node *snowflake.Node) domain.Repository {
	return &repository{db: db, node: node}
}

func (r *repository) Find(ctx context.Context, day time.Time, from, to string) (*domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	err := r.db.WithContext(ctx).
		Where("rate_date = ? AND currency_from = ? AND currency_to = ?", dateOnly(day), from, to).
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repository) Latest(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	err := r.db.WithContext(ctx).
		Where("currency_from = ? AND currency_to = ?", from, to).
		Order("rate_date DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repository) List(ctx context.Context, req domain.ListRequest) ([]domain.ExchangeRate, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.ExchangeRate{})
	if req.CurrencyFrom != "" {
		stmt = stmt.Where("currency_from = ?", req.CurrencyFrom)
	}
	if req.CurrencyTo != "" {
		stmt = stmt.Where("currency_to = ?", req.CurrencyTo)
	}
	if req.From != nil {
		stmt = stmt.Where("rate_date >= ?", dateOnly(*req.From))
	}
	if req.To != nil {
		stmt = stmt.Where("rate_date <= ?", dateOnly(*req.To))
	}
	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rates []domain.ExchangeRate
	if err := stmt.Order("rate_date DESC, currency_from ASC").Limit(limit).Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) Upsert(ctx context.Context, rates []domain.ExchangeRate) (int, error) {
	if len(rates) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	for i := range rates {
		rates[i].RateDate = dateOnly(rates[i].RateDate)
		if rates[i].ID == 0 {
			rates[i].ID = r.node.Generate()
		}
		if rates[i].CreatedAt.IsZero() {
			rates[i].CreatedAt = now
		}
		rates[i].UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "rate_date"}, {Name: "currency_from"}, {Name: "currency_to"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"basic_rate", "send_rate", "buy_rate", "sell_rate", "source", "updated_at",
		}),
	}).Create(&rates).Error
	if err != nil {
		return 0, err
	}
	return len(rates), nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
