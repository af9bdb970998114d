package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/clarkhq/clark/internal/config"
	"github.com/clarkhq/clark/internal/invoice/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations target postgres. The sqlite path
		// exists for local development only and tracks the models directly.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(&domain.Invoice{}, &domain.LineItem{})
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
