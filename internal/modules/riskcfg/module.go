package riskcfg

import (
	"context"

	"go.uber.org/fx"

	"signal_engine/internal/modules/riskcfg/service"
)

func Module() fx.Option {
	return fx.Module("riskcfg",
		fx.Provide(service.NewStore),
		fx.Invoke(func(lc fx.Lifecycle, store *service.Store) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return store.LoadAll(ctx)
				},
			})
		}),
	)
}
