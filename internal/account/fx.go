package account

import (
	"github.com/genesispos/contable/internal/account/repository"
	"github.com/genesispos/contable/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
