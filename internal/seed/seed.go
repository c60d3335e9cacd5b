package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	slipdomain "github.com/smallbiznis/cloudslip/internal/slip/domain"
	"gorm.io/gorm"
)

// EnsureDefaultSlipConfig seeds the vendor's slip configuration row on
// startup so the first generation run has explicit defaults to read.
func EnsureDefaultSlipConfig(db *gorm.DB, vendor string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if vendor == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&slipdomain.SlipConfig{}).Where("vendor = ?", vendor).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		cfg := slipdomain.DefaultConfig(vendor)
		cfg.ID = node.Generate()
		now := time.Now().UTC()
		cfg.CreatedAt = now
		cfg.UpdatedAt = now
		return tx.Create(&cfg).Error
	})
}
