package investment

import (
	"github.com/genesispos/contable/internal/investment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("investment.service",
	fx.Provide(service.New),
)
