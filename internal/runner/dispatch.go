package runner

import (
	"context"

	"signal_engine/internal/models"
	"signal_engine/internal/notify"
)

// Dispatch читает поток решений и рассылает не-HOLD нотификации.
// Вынесено из сессии, чтобы телеграмный HTTP не тормозил оценку свечей.
func Dispatch(ctx context.Context, actions <-chan models.EngineAction, n notify.Notifier) {
	for {
		select {
		case <-ctx.Done():
			return
		case ea := <-actions:
			if ea.Action.Action == models.SideHold || n == nil {
				continue
			}
			n.Sendf("%s %s %s [%s] conf=%.2f @ %.4f\n%s",
				ea.Symbol, ea.Timeframe, ea.Action.Action, ea.Action.Type,
				ea.Action.Confidence, ea.Action.Magnitude, ea.Action.Reason)
		}
	}
}
