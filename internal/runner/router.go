package runner

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"signal_engine/internal/helper"
	"signal_engine/internal/models"
	auditsvc "signal_engine/internal/modules/audit/service"
	enginesvc "signal_engine/internal/modules/engine/service"
	feedsvc "signal_engine/internal/modules/feed/service"
)

// Router хранит активные сессии и раздаёт снапшоты по парам.
type Router struct {
	audit   *auditsvc.Store
	pred    enginesvc.Predictor
	risk    RiskProvider
	actions chan<- models.EngineAction

	mu       sync.RWMutex
	sessions map[string]*session   // subscriptionID -> сессия
	index    map[string][]*session // key(symbol,tf) -> сессии
}

func NewRouter(
	audit *auditsvc.Store,
	pred enginesvc.Predictor,
	risk RiskProvider,
	actions chan<- models.EngineAction,
) *Router {
	return &Router{
		audit:    audit,
		pred:     pred,
		risk:     risk,
		actions:  actions,
		sessions: make(map[string]*session),
		index:    make(map[string][]*session),
	}
}

// Enable собирает движок подписки и включает её в маршрутизацию.
// Ошибка конфигурации возвращается сразу, сессия не создаётся.
func (r *Router) Enable(sub models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sub.ID]; ok {
		return errors.Errorf("subscription %s already enabled", sub.ID)
	}

	sess, err := newSession(sub, r.pred, r.risk, r.audit, r.actions)
	if err != nil {
		return errors.Wrapf(err, "subscription %s", sub.ID)
	}

	r.sessions[sub.ID] = sess
	k := helper.SeriesKey(sub.Symbol, helper.NormTF(sub.Timeframe))
	r.index[k] = append(r.index[k], sess)
	return nil
}

func (r *Router) Disable(subscriptionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[subscriptionID]
	if !ok {
		return
	}
	delete(r.sessions, subscriptionID)

	// вырезаем из индекса
	for k, list := range r.index {
		n := list[:0]
		for _, s := range list {
			if s != sess {
				n = append(n, s)
			}
		}
		if len(n) == 0 {
			delete(r.index, k)
		} else {
			r.index[k] = n
		}
	}
}

// OnSnapshot прогоняет снапшот через все сессии его пары.
func (r *Router) OnSnapshot(ctx context.Context, snap feedsvc.Snapshot) {
	r.mu.RLock()
	sessions := r.index[helper.SeriesKey(snap.Symbol, snap.Timeframe)]
	r.mu.RUnlock()

	for _, sess := range sessions {
		sess.onSnapshot(ctx, snap)
	}
}
