package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	accountdomain "github.com/genesispos/contable/internal/account/domain"
	"github.com/genesispos/contable/internal/config"
	costdomain "github.com/genesispos/contable/internal/costcenter/domain"
	investmentdomain "github.com/genesispos/contable/internal/investment/domain"
	journaldomain "github.com/genesispos/contable/internal/journal/domain"
	posdomain "github.com/genesispos/contable/internal/posdata/domain"
	"github.com/genesispos/contable/internal/settings"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql deployments rely on gorm's schema sync.
		return conn.AutoMigrate(
			&accountdomain.Account{},
			&journaldomain.JournalEntry{},
			&journaldomain.JournalLine{},
			&journaldomain.JournalSequence{},
			&investmentdomain.InvestmentConfig{},
			&investmentdomain.Amortization{},
			&costdomain.CostCenter{},
			&costdomain.CostAllocation{},
			&costdomain.CostPlan{},
			&posdomain.Product{},
			&posdomain.Sale{},
			&posdomain.SaleItem{},
			&posdomain.Expense{},
			&posdomain.ProductionMovement{},
			&settings.Setting{},
		)
	}),
)
