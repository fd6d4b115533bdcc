package audit

import (
	"go.uber.org/fx"

	"signal_engine/internal/modules/audit/service"
)

func Module() fx.Option {
	return fx.Module("audit",
		fx.Provide(service.NewStore),
	)
}
