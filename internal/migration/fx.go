package migration

import (
	"github.com/smallbiznis/cloudslip/internal/config"
	"github.com/smallbiznis/cloudslip/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}
		return seed.EnsureDefaultSlipConfig(conn, cfg.DefaultVendor)
	}),
)
