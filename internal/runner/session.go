package runner

import (
	"context"

	"signal_engine/internal/models"
	auditsvc "signal_engine/internal/modules/audit/service"
	enginesvc "signal_engine/internal/modules/engine/service"
	feedsvc "signal_engine/internal/modules/feed/service"
	"signal_engine/pkg/logger"
	"signal_engine/pkg/tracing"
)

// RiskProvider отдаёт актуальные риск-оверрайды подписки, nil если
// оверрайдов нет.
type RiskProvider interface {
	For(subscriptionID string) *models.RiskOverrides
}

// session — одна подписка с собственным экземпляром движка.
// Движок собирается при создании сессии: битая конфигурация валит
// старт сервиса, а не первую свечу.
type session struct {
	sub    models.Subscription
	engine *enginesvc.Engine

	risk    RiskProvider
	audit   *auditsvc.Store
	actions chan<- models.EngineAction
}

func newSession(
	sub models.Subscription,
	pred enginesvc.Predictor,
	risk RiskProvider,
	audit *auditsvc.Store,
	actions chan<- models.EngineAction,
) (*session, error) {
	eng, err := enginesvc.New(sub.Variant, sub.Params, pred)
	if err != nil {
		return nil, err
	}
	return &session{
		sub:     sub,
		engine:  eng,
		risk:    risk,
		audit:   audit,
		actions: actions,
	}, nil
}

// overrides: динамический оверрайд из стора приоритетнее статики
// из yaml-подписки.
func (s *session) overrides() *models.RiskOverrides {
	if s.risk != nil {
		if ov := s.risk.For(s.sub.ID); ov != nil {
			return ov
		}
	}
	return s.sub.Risk
}

// onSnapshot прогоняет серию через движок и раздаёт результат.
func (s *session) onSnapshot(ctx context.Context, snap feedsvc.Snapshot) {
	span, ctx := tracing.StartSpan(ctx, "session.evaluate")
	defer span.Finish()

	span.SetTag("subscription", s.sub.ID)
	span.SetTag("symbol", snap.Symbol)
	span.SetTag("timeframe", snap.Timeframe)

	act := s.engine.Evaluate(snap.Series, s.overrides())

	ea := models.EngineAction{
		SubscriptionID: s.sub.ID,
		Symbol:         snap.Symbol,
		Timeframe:      snap.Timeframe,
		Variant:        s.sub.Variant,
		Action:         act,
	}

	if s.audit != nil {
		if err := s.audit.Insert(ctx, ea); err != nil {
			logger.Error("runner: audit insert failed, sub=%s: %v", s.sub.ID, err)
		}
	}

	select {
	case s.actions <- ea:
	default:
		logger.Warn("runner: actions channel full, dropping, sub=%s", s.sub.ID)
	}
}
