package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Repository defines data access for accounts.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) error
	UpdateRole(ctx context.Context, id, role string) (User, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const userColumns = `id, name, email, role, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *pgRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	return u, err
}

func (r *pgRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: no account for %s", shared.ErrNotFound, email)
	}
	return u, err
}

func (r *pgRepository) Create(ctx context.Context, u User) error {
	const query = `
		INSERT INTO users (id, name, email, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *pgRepository) UpdateRole(ctx context.Context, id, role string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3 RETURNING `+userColumns,
		role, time.Now().UTC(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	return u, err
}
