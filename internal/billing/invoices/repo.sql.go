package invoices

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/teranga-resto/teranga-resto/internal/billing/adjustments"
	"github.com/teranga-resto/teranga-resto/internal/billing/money"
	"github.com/teranga-resto/teranga-resto/internal/billing/numbering"
	"github.com/teranga-resto/teranga-resto/internal/platform/db"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

const uniqueViolation = "23505"

type pgRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool, now: time.Now}
}

func (r *pgRepository) Create(ctx context.Context, inv *Invoice) error {
	now := r.now().UTC()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Counter increment and insert share the transaction, so the
		// read-count/insert race of a naive count(*) scheme cannot occur.
		number, err := numbering.NewService(numbering.NewPGCounter(tx), r.now).Allocate(ctx)
		if err != nil {
			return err
		}
		inv.Number = number
		inv.CreatedAt = now
		inv.UpdatedAt = now

		const insertInvoice = `
			INSERT INTO invoices (id, number, table_number, notes, status, total, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		if _, err := tx.Exec(ctx, insertInvoice,
			inv.ID, inv.Number, inv.TableNumber, inv.Notes, inv.Status,
			int64(inv.Total), inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
		); err != nil {
			return err
		}

		if err := insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
			return err
		}
		return insertAdjustments(ctx, tx, inv.ID, inv.Adjustments)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "invoices_number_key" {
			return fmt.Errorf("%w: %s", numbering.ErrCollision, inv.Number)
		}
		return err
	}
	return nil
}

func (r *pgRepository) Get(ctx context.Context, id string) (*Invoice, error) {
	const query = `
		SELECT i.id, i.number, i.table_number, i.notes, i.status, i.total,
		       i.created_by, i.created_at, i.updated_at,
		       u.id, u.name, u.email
		FROM invoices i
		LEFT JOIN users u ON u.id = i.created_by
		WHERE i.id = $1
	`
	inv := Invoice{}
	var creatorID, creatorName, creatorEmail *string
	var total int64
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.Number, &inv.TableNumber, &inv.Notes, &inv.Status, &total,
		&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
		&creatorID, &creatorName, &creatorEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
		}
		return nil, err
	}
	inv.Total = money.Money(total)
	if creatorID != nil {
		inv.Creator = &Creator{ID: *creatorID, Name: derefOr(creatorName), Email: derefOr(creatorEmail)}
	}

	// Items and adjustments are independent child sets; load them in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := r.loadItems(gctx, inv.ID)
		if err != nil {
			return err
		}
		inv.Items = items
		return nil
	})
	g.Go(func() error {
		adjs, err := r.loadAdjustments(gctx, inv.ID)
		if err != nil {
			return err
		}
		inv.Adjustments = adjs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *pgRepository) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	where := ""
	args := []any{}
	if req.Status != nil {
		where = " WHERE i.status = $1"
		args = append(args, *req.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM invoices i"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT i.id, i.number, i.table_number, i.notes, i.status, i.total,
		       i.created_by, i.created_at, i.updated_at,
		       u.id, u.name, u.email
		FROM invoices i
		LEFT JOIN users u ON u.id = i.created_by` + where + `
		ORDER BY i.created_at ASC, i.number ASC`
	if req.Limit > 0 {
		query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []Invoice
	var ids []string
	for rows.Next() {
		var inv Invoice
		var creatorID, creatorName, creatorEmail *string
		var amount int64
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.TableNumber, &inv.Notes, &inv.Status, &amount,
			&inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
			&creatorID, &creatorName, &creatorEmail,
		); err != nil {
			return nil, 0, err
		}
		inv.Total = money.Money(amount)
		if creatorID != nil {
			inv.Creator = &Creator{ID: *creatorID, Name: derefOr(creatorName), Email: derefOr(creatorEmail)}
		}
		invoices = append(invoices, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		byInvoice, err := r.loadItemsFor(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range invoices {
			invoices[i].Items = byInvoice[invoices[i].ID]
		}
	}
	return invoices, total, nil
}

func (r *pgRepository) Replace(ctx context.Context, inv *Invoice) error {
	inv.UpdatedAt = r.now().UTC()
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const update = `
			UPDATE invoices SET table_number = $1, notes = $2, total = $3, updated_at = $4
			WHERE id = $5
		`
		tag, err := tx.Exec(ctx, update, inv.TableNumber, inv.Notes, int64(inv.Total), inv.UpdatedAt, inv.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, inv.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_adjustments WHERE invoice_id = $1`, inv.ID); err != nil {
			return err
		}
		if err := insertItems(ctx, tx, inv.ID, inv.Items); err != nil {
			return err
		}
		return insertAdjustments(ctx, tx, inv.ID, inv.Adjustments)
	})
}

func (r *pgRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`,
		status, r.now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *pgRepository) UpdateTotal(ctx context.Context, id string, total money.Money) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET total = $1, updated_at = $2 WHERE id = $3`,
		int64(total), r.now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *pgRepository) AddAdjustment(ctx context.Context, invoiceID string, adj adjustments.Adjustment) error {
	const query = `
		INSERT INTO invoice_adjustments (id, invoice_id, label, amount, kind, position)
		VALUES ($1, $2, $3, $4, $5,
		        (SELECT COALESCE(MAX(position) + 1, 0) FROM invoice_adjustments WHERE invoice_id = $2))
	`
	_, err := r.pool.Exec(ctx, query, adj.ID, invoiceID, adj.Label, int64(adj.Amount), adj.Kind)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, invoiceID)
	}
	return err
}

func (r *pgRepository) RemoveAdjustment(ctx context.Context, invoiceID, adjustmentID string) error {
	// Idempotent: deleting an absent adjustment is a no-op.
	_, err := r.pool.Exec(ctx,
		`DELETE FROM invoice_adjustments WHERE id = $1 AND invoice_id = $2`,
		adjustmentID, invoiceID)
	return err
}

func (r *pgRepository) Delete(ctx context.Context, id string) error {
	// Items and adjustments cascade via foreign keys.
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *pgRepository) loadItems(ctx context.Context, invoiceID string) ([]Item, error) {
	byInvoice, err := r.loadItemsFor(ctx, []string{invoiceID})
	if err != nil {
		return nil, err
	}
	return byInvoice[invoiceID], nil
}

func (r *pgRepository) loadItemsFor(ctx context.Context, invoiceIDs []string) (map[string][]Item, error) {
	const query = `
		SELECT id, invoice_id, product_id, product_name, unit_price, quantity, total, position
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position, id
	`
	rows, err := r.pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]Item, len(invoiceIDs))
	for rows.Next() {
		var it Item
		var unitPrice, lineTotal int64
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName,
			&unitPrice, &it.Quantity, &lineTotal, &it.Position); err != nil {
			return nil, err
		}
		it.UnitPrice = money.Money(unitPrice)
		it.Total = money.Money(lineTotal)
		out[it.InvoiceID] = append(out[it.InvoiceID], it)
	}
	return out, rows.Err()
}

func (r *pgRepository) loadAdjustments(ctx context.Context, invoiceID string) ([]adjustments.Adjustment, error) {
	const query = `
		SELECT id, label, amount, kind
		FROM invoice_adjustments
		WHERE invoice_id = $1
		ORDER BY position, id
	`
	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []adjustments.Adjustment
	for rows.Next() {
		var a adjustments.Adjustment
		var amount int64
		if err := rows.Scan(&a.ID, &a.Label, &amount, &a.Kind); err != nil {
			return nil, err
		}
		a.Amount = money.Money(amount)
		out = append(out, a)
	}
	return out, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []Item) error {
	const query = `
		INSERT INTO invoice_items (id, invoice_id, product_id, product_name, unit_price, quantity, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for i, it := range items {
		if _, err := tx.Exec(ctx, query,
			it.ID, invoiceID, it.ProductID, it.ProductName,
			int64(it.UnitPrice), it.Quantity, int64(it.Total), i,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertAdjustments(ctx context.Context, tx pgx.Tx, invoiceID string, adjs []adjustments.Adjustment) error {
	const query = `
		INSERT INTO invoice_adjustments (id, invoice_id, label, amount, kind, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, a := range adjs {
		if _, err := tx.Exec(ctx, query, a.ID, invoiceID, a.Label, int64(a.Amount), a.Kind, i); err != nil {
			return err
		}
	}
	return nil
}

func derefOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
