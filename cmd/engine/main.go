package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"signal_engine/internal/forecast"
	"signal_engine/internal/modules/audit"
	auditsvc "signal_engine/internal/modules/audit/service"
	"signal_engine/internal/modules/config"
	"signal_engine/internal/modules/engine"
	enginesvc "signal_engine/internal/modules/engine/service"
	"signal_engine/internal/modules/feed"
	"signal_engine/internal/modules/health"
	"signal_engine/internal/modules/postgres"
	"signal_engine/internal/modules/riskcfg"
	riskcfgsvc "signal_engine/internal/modules/riskcfg/service"
	"signal_engine/internal/notify"
	"signal_engine/internal/runner"
	"signal_engine/pkg/logger"
	"signal_engine/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			func(cfg *config.Config, audit *auditsvc.Store) (notify.Notifier, error) {
				return notify.New(cfg.Telegram.Token, cfg.Telegram.ChatID, audit)
			},
			func(cfg *config.Config) enginesvc.Predictor {
				if cfg.Forecast.URL == "" {
					return nil
				}
				return forecast.NewClient(cfg.Forecast.URL)
			},
			func(store *riskcfgsvc.Store) runner.RiskProvider {
				return store
			},
		),
		config.Module(),
		postgres.Module(),
		riskcfg.Module(),
		audit.Module(),
		engine.Module(),
		feed.Module(),
		runner.Module(),
		health.Module(),
		fx.Invoke(
			func(lc fx.Lifecycle, cfg *config.Config, n notify.Notifier) {
				logger.SetServiceName(cfg.Service.Name)
				tracing.SetServiceName(cfg.Service.Name)

				var closeTracer func()
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						if cfg.Tracing.Enabled {
							_, closer, err := tracing.InitTracer(tracing.Config{
								Host: cfg.Tracing.Host,
								Port: cfg.Tracing.Port,
							})
							if err != nil {
								return err
							}
							closeTracer = closer
						}
						if tg, ok := n.(*notify.Telegram); ok {
							if err := tg.Start(ctx); err != nil {
								return err
							}
						}
						logger.Info("signal engine started")
						return nil
					},
					OnStop: func(ctx context.Context) error {
						if tg, ok := n.(*notify.Telegram); ok {
							tg.Stop()
						}
						if closeTracer != nil {
							closeTracer()
						}
						return nil
					},
				})
			},
		),
	)
	app.Run()
}
