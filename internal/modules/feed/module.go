package feed

import (
	"context"

	"go.uber.org/fx"

	"signal_engine/internal/modules/config"
	"signal_engine/internal/modules/feed/service"
)

func NewSnapshots(cfg *config.Config) chan service.Snapshot {
	return make(chan service.Snapshot, cfg.ActionBuffer)
}

func RunClient(lc fx.Lifecycle, client *service.Client, out chan service.Snapshot) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				client.Start(ctx, out)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func Module() fx.Option {
	return fx.Module("feed",
		fx.Provide(
			service.NewClient,
			NewSnapshots,
			func(ch chan service.Snapshot) <-chan service.Snapshot { return ch },
		),
		fx.Invoke(RunClient),
	)
}
