package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	accountdomain "github.com/genesispos/contable/internal/account/domain"
	"github.com/genesispos/contable/internal/clock"
	"github.com/genesispos/contable/internal/config"
	"github.com/genesispos/contable/internal/logger"
	"github.com/genesispos/contable/internal/migration"
	"github.com/genesispos/contable/internal/server"
	"github.com/genesispos/contable/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
		fx.Invoke(seedChartOfAccounts),
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		panic(err)
	}
	return node
}

func seedChartOfAccounts(accounts accountdomain.Service) error {
	return accounts.Initialize(context.Background())
}
