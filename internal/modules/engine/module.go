package engine

import (
	"go.uber.org/fx"

	"signal_engine/internal/models"
	"signal_engine/internal/modules/config"
)

func newActionsChan(cfg *config.Config) chan models.EngineAction {
	return make(chan models.EngineAction, cfg.ActionBuffer)
}

func asSendOnlyActions(ch chan models.EngineAction) chan<- models.EngineAction { return ch }
func asRecvOnlyActions(ch chan models.EngineAction) <-chan models.EngineAction { return ch }

// Module отдаёт общий канал решений: пишет раннер, читают потребители
// (маркетплейс забирает действия отсюда).
func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			newActionsChan,
			asSendOnlyActions,
			asRecvOnlyActions,
		),
	)
}
