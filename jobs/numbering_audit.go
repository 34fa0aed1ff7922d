package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NumberingAuditor checks that issued invoice numbers stay unique and that
// the counter never lags behind the highest issued sequence. Duplicates
// cannot normally happen thanks to the unique constraint; the audit exists
// to catch manual data edits and restores from partial backups.
type NumberingAuditor struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewNumberingAuditor constructs a NumberingAuditor.
func NewNumberingAuditor(pool *pgxpool.Pool, logger *slog.Logger) *NumberingAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &NumberingAuditor{pool: pool, logger: logger}
}

// Handle processes TaskNumberingAudit tasks.
func (a *NumberingAuditor) Handle(ctx context.Context, t *asynq.Task) error {
	var payload NumberingAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	return a.Run(ctx, payload)
}

// Run performs one audit pass.
func (a *NumberingAuditor) Run(ctx context.Context, payload NumberingAuditPayload) error {
	dups, err := a.duplicateNumbers(ctx)
	if err != nil {
		return err
	}
	for _, number := range dups {
		a.logger.ErrorContext(ctx, "duplicate invoice number",
			slog.String("job", "numbering_audit"),
			slog.String("number", number))
	}

	maxSeq, counter, err := a.sequences(ctx)
	if err != nil {
		return err
	}
	if counter < maxSeq {
		a.logger.WarnContext(ctx, "invoice counter behind issued numbers",
			slog.String("job", "numbering_audit"),
			slog.Int64("counter", counter),
			slog.Int64("max_sequence", maxSeq))
		if payload.FixCounter {
			if _, err := a.pool.Exec(ctx,
				`UPDATE invoice_counters SET value = $1 WHERE id = 1 AND value < $1`, maxSeq); err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "invoice counter advanced",
				slog.String("job", "numbering_audit"),
				slog.Int64("value", maxSeq))
		}
	}

	a.logger.InfoContext(ctx, "numbering audit completed",
		slog.String("job", "numbering_audit"),
		slog.Int("duplicates", len(dups)))
	return nil
}

func (a *NumberingAuditor) duplicateNumbers(ctx context.Context) ([]string, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT number FROM invoices GROUP BY number HAVING COUNT(*) > 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (a *NumberingAuditor) sequences(ctx context.Context) (maxSeq, counter int64, err error) {
	// Numbers are FAC-{year}-{seq}; the sequence is everything after the
	// last dash.
	const query = `
		SELECT COALESCE(MAX(split_part(number, '-', 3)::bigint), 0)
		FROM invoices
		WHERE number ~ '^FAC-[0-9]+-[0-9]+$'
	`
	if err = a.pool.QueryRow(ctx, query).Scan(&maxSeq); err != nil {
		return 0, 0, err
	}
	if err = a.pool.QueryRow(ctx,
		`SELECT value FROM invoice_counters WHERE id = 1`).Scan(&counter); err != nil {
		return 0, 0, err
	}
	return maxSeq, counter, nil
}
