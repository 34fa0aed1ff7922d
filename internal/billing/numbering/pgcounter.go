package numbering

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so the counter can run
// inside the invoice-creation transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGCounter is the Postgres-backed counter. The invoice_counters table holds
// a single row; the UPDATE..RETURNING increments and reads atomically, and
// the row lock it takes serializes concurrent allocations.
type PGCounter struct {
	db DBTX
}

// NewPGCounter binds the counter to a pool or transaction.
func NewPGCounter(db DBTX) *PGCounter {
	return &PGCounter{db: db}
}

// Next increments and returns the sequence value.
func (c *PGCounter) Next(ctx context.Context) (int64, error) {
	const query = `UPDATE invoice_counters SET value = value + 1 WHERE id = 1 RETURNING value`
	var seq int64
	if err := c.db.QueryRow(ctx, query).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

var _ Counter = (*PGCounter)(nil)
