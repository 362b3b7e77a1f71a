package costcenter

import (
	"github.com/genesispos/contable/internal/costcenter/repository"
	"github.com/genesispos/contable/internal/costcenter/service"
	"go.uber.org/fx"
)

var Module = fx.Module("costcenter.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
