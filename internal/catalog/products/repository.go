package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teranga-resto/teranga-resto/internal/billing/money"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Repository defines data access for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, p Product) error
	CreateBatch(ctx context.Context, ps []Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) List(ctx context.Context) ([]Product, error) {
	const query = `
		SELECT id, name, price, unit, created_at, updated_at
		FROM products
		ORDER BY created_at ASC, name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		var price int64
		if err := rows.Scan(&p.ID, &p.Name, &price, &p.Unit, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Price = money.Money(price)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id string) (Product, error) {
	const query = `
		SELECT id, name, price, unit, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	var p Product
	var price int64
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &price, &p.Unit, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
		}
		return Product{}, err
	}
	p.Price = money.Money(price)
	return p, nil
}

func (r *pgRepository) Create(ctx context.Context, p Product) error {
	const query = `
		INSERT INTO products (id, name, price, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, p.ID, p.Name, int64(p.Price), p.Unit, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *pgRepository) CreateBatch(ctx context.Context, ps []Product) error {
	batch := &pgx.Batch{}
	const query = `
		INSERT INTO products (id, name, price, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, p := range ps {
		batch.Queue(query, p.ID, p.Name, int64(p.Price), p.Unit, p.CreatedAt, p.UpdatedAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *pgRepository) Update(ctx context.Context, p Product) error {
	const query = `
		UPDATE products SET name = $1, price = $2, unit = $3, updated_at = $4
		WHERE id = $5
	`
	tag, err := r.pool.Exec(ctx, query, p.Name, int64(p.Price), p.Unit, time.Now().UTC(), p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, p.ID)
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", shared.ErrNotFound, id)
	}
	return nil
}
