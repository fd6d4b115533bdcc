package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"signal_engine/internal/models"
	"signal_engine/pkg/db"
)

// Store — журнал решений движка в postgres. Пишем каждое действие,
// включая HOLD: цепочка reason нужна для разбора инцидентов.
type Store struct {
	db db.TxManager
}

func NewStore(txm *db.PgTxManager) *Store {
	return &Store{db: txm}
}

const insertActionSQL = `
INSERT INTO engine_actions
	(subscription_id, symbol, timeframe, variant, action, magnitude, confidence, signal_type, reason, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Insert записывает одно действие.
func (s *Store) Insert(ctx context.Context, act models.EngineAction) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("audit.Insert: %w", err)
		}
	}()

	payload, err := sonic.Marshal(act.Action)
	if err != nil {
		return err
	}

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertActionSQL,
			act.SubscriptionID,
			act.Symbol,
			act.Timeframe,
			act.Variant,
			act.Action.Action,
			act.Action.Magnitude,
			act.Action.Confidence,
			act.Action.Type,
			act.Action.Reason,
			payload,
			time.Now().UTC(),
		)
		return err
	})
}

const recentActionsSQL = `
SELECT subscription_id, symbol, timeframe, variant, payload
FROM engine_actions
WHERE subscription_id = $1
ORDER BY created_at DESC
LIMIT $2`

// Recent возвращает последние действия по подписке, новые первыми.
func (s *Store) Recent(ctx context.Context, subscriptionID string, limit int) (out []models.EngineAction, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("audit.Recent: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctxTx, recentActionsSQL, subscriptionID, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				ea      models.EngineAction
				payload []byte
			)
			if err := rows.Scan(&ea.SubscriptionID, &ea.Symbol, &ea.Timeframe, &ea.Variant, &payload); err != nil {
				return err
			}
			if err := sonic.Unmarshal(payload, &ea.Action); err != nil {
				return err
			}
			out = append(out, ea)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
