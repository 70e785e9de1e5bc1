package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gocab/pkg/trm"
)

// Querier is the subset of pgx shared by a pool and a transaction, so
// repository methods run the same against either.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxOrDB returns the transaction carried by ctx when the call runs inside
// trm.Do, and the bare pool otherwise.
func TxOrDB(ctx context.Context, db *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(trm.TxKey).(pgx.Tx); ok {
		return tx
	}
	return db
}
