package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository interface {
	Get(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Search(ctx context.Context, term string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID string) (bool, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, COALESCE(description, ''), price, stock_quantity, COALESCE(image_url, ''), COALESCE(category, ''), created_at, updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.StockQuantity, &p.ImageURL, &p.Category, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepository) Get(ctx context.Context, productID string) (*Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE lower(category) = lower($1) ORDER BY created_at DESC`, category)
}

// Search matches the term against name and description, case-insensitive.
func (r *PostgresRepository) Search(ctx context.Context, term string) ([]Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name ILIKE '%' || $1 || '%' OR COALESCE(description, '') ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC`, term)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, stock_quantity, image_url, category)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Price, p.StockQuantity, p.ImageURL, p.Category)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *Product) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = NULLIF($3, ''), price = $4, stock_quantity = $5,
		    image_url = NULLIF($6, ''), category = NULLIF($7, ''), updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Price, p.StockQuantity, p.ImageURL, p.Category)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, productID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
