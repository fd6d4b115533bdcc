package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"signal_engine/internal/models"
	"signal_engine/pkg/db"
)

// Store — риск-оверрайды подписок: pg как источник истины, карта в
// памяти для чтения на каждой свече. LoadAll вызывается на старте,
// Upsert пишет насквозь.
type Store struct {
	db db.TxManager

	mu   sync.RWMutex
	data map[string]models.RiskOverrides
}

func NewStore(txm *db.PgTxManager) *Store {
	return &Store{
		db:   txm,
		data: make(map[string]models.RiskOverrides),
	}
}

const selectOverridesSQL = `
SELECT subscription_id, max_volatility_ratio
FROM risk_overrides`

// LoadAll вычитывает все оверрайды в кэш.
func (s *Store) LoadAll(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("riskcfg.LoadAll: %w", err)
		}
	}()

	loaded := make(map[string]models.RiskOverrides)
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, selectOverridesSQL)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				id string
				ov models.RiskOverrides
			)
			if err := rows.Scan(&id, &ov.MaxVolatilityRatio); err != nil {
				return err
			}
			loaded[id] = ov
		}
		return rows.Err()
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = loaded
	s.mu.Unlock()
	return nil
}

const upsertOverridesSQL = `
INSERT INTO risk_overrides (subscription_id, max_volatility_ratio)
VALUES ($1, $2)
ON CONFLICT (subscription_id) DO UPDATE SET max_volatility_ratio = $2`

// Upsert пишет оверрайд в pg и кэш.
func (s *Store) Upsert(ctx context.Context, subscriptionID string, ov models.RiskOverrides) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("riskcfg.Upsert: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, upsertOverridesSQL, subscriptionID, ov.MaxVolatilityRatio)
		return err
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[subscriptionID] = ov
	s.mu.Unlock()
	return nil
}

// For отдаёт оверрайд подписки из кэша, nil если его нет.
func (s *Store) For(subscriptionID string) *models.RiskOverrides {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ov, ok := s.data[subscriptionID]
	if !ok {
		return nil
	}
	return &ov
}
