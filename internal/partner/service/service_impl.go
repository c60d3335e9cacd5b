package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	domain "github.com/smallbiznis/cloudslip/internal/partner/domain"
	"github.com/smallbiznis/cloudslip/pkg/db"
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
	return &service{db: p.DB, node: p.Node, log: p.Log.Named("partner.service")}
}

func (s *service) Create(ctx context.Context, partner *domain.Partner) error {
	now := time.Now().UTC()
	partner.ID = s.node.Generate()
	partner.CreatedAt = now
	partner.UpdatedAt = now
	if err := s.db.WithContext(ctx).Create(partner).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrPartnerExists
		}
		return err
	}
	return nil
}

func (s *service) Update(ctx context.Context, id snowflake.ID, patch domain.Update) (*domain.Partner, error) {
	var partner domain.Partner
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&partner, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPartnerNotFound
			}
			return err
		}
		if patch.Name != nil {
			partner.Name = *patch.Name
		}
		if patch.LicenseNo != nil {
			partner.LicenseNo = *patch.LicenseNo
		}
		if patch.ARAccount != nil {
			partner.ARAccount = *patch.ARAccount
		}
		if patch.APAccount != nil {
			partner.APAccount = *patch.APAccount
		}
		if patch.ContactName != nil {
			partner.ContactName = *patch.ContactName
		}
		if patch.ContactEmail != nil {
			partner.ContactEmail = *patch.ContactEmail
		}
		if patch.IsActive != nil {
			partner.IsActive = *patch.IsActive
		}
		partner.UpdatedAt = time.Now().UTC()
		return tx.Save(&partner).Error
	})
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Partner, error) {
	var partner domain.Partner
	if err := s.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, err
	}
	return &partner, nil
}

func (s *service) FindByCode(ctx context.Context, bpNumber string) (*domain.Partner, error) {
	var partner domain.Partner
	if err := s.db.WithContext(ctx).First(&partner, "bp_number = ?", bpNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, err
	}
	return &partner, nil
}

func (s *service) List(ctx context.Context) ([]domain.Partner, error) {
	var partners []domain.Partner
	if err := s.db.WithContext(ctx).Order("bp_number ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}
