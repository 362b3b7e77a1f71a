package journal

import (
	"github.com/genesispos/contable/internal/journal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("journal.service",
	fx.Provide(service.New),
)
