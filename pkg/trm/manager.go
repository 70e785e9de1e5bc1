package trm

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs a function inside a database transaction carried through
// the context, so repositories can join the ambient transaction without
// knowing about it.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Manager struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Manager {
	return &Manager{db: db}
}

type ctxKeyTx struct{}

// TxKey is the context key repositories use to find the active transaction.
var TxKey = ctxKeyTx{}

// Do executes fn within a transaction. A transaction already present in ctx
// is reused; otherwise a new one is started. fn returning an error (or
// panicking) rolls back, success commits.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if existing := ctx.Value(TxKey); existing != nil {
		if _, ok := existing.(pgx.Tx); !ok {
			return fmt.Errorf("invalid transaction type in context")
		}
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	ctx = context.WithValue(ctx, TxKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = fmt.Errorf("rollback tx: %v (original error: %w)", rbErr, err)
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("commit tx: %w", commitErr)
		}
	}()

	err = fn(ctx)
	return err
}
