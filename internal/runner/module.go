package runner

import (
	"context"

	"go.uber.org/fx"

	"signal_engine/internal/models"
	"signal_engine/internal/modules/config"
	feedsvc "signal_engine/internal/modules/feed/service"
	healthsvc "signal_engine/internal/modules/health/service"
	"signal_engine/internal/notify"
	"signal_engine/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewRouter,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			r *Router,
			cfg *config.Config,
			snapshots <-chan feedsvc.Snapshot,
			actions <-chan models.EngineAction,
			n notify.Notifier,
			state *healthsvc.State,
		) error {
			// подписки включаем до старта: битая конфигурация не даёт
			// сервису подняться
			for _, sub := range cfg.Subscriptions {
				if err := r.Enable(sub); err != nil {
					return err
				}
			}
			logger.Info("runner: %d subscriptions enabled", len(cfg.Subscriptions))

			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case snap := <-snapshots:
								state.SetReady(true)
								r.OnSnapshot(ctx, snap)
							}
						}
					}()
					go Dispatch(ctx, actions, n)
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
			return nil
		}),
	)
}
