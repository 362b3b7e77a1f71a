package posdata

import (
	"github.com/genesispos/contable/internal/posdata/repository"
	"github.com/genesispos/contable/internal/posdata/service"
	"go.uber.org/fx"
)

var Module = fx.Module("posdata.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
