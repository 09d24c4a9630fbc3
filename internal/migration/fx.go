package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"github.com/contaflow/facturel/internal/config"
	submissiondomain "github.com/contaflow/facturel/internal/submission/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// SQL migrations target postgres; other dialects are for local
			// development and tests, where the model schema is enough.
			return conn.AutoMigrate(
				&billingdomain.Invoice{},
				&billingdomain.InvoiceDetail{},
				&billingdomain.Customer{},
				&billingdomain.Company{},
				&billingdomain.Resolution{},
				&submissiondomain.Record{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
