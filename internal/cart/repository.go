package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/to4to/EcommerceApp/internal/catalog"
)

// ItemDetail is a cart row joined with its product, including the stock
// level needed for quantity validation.
type ItemDetail struct {
	ItemView
	StockQuantity int
}

type Repository interface {
	ListViews(ctx context.Context, userID string) ([]ItemView, error)
	Find(ctx context.Context, userID, productID string) (*Item, error)
	Get(ctx context.Context, itemID, userID string) (*ItemDetail, error)
	Insert(ctx context.Context, item *Item) error
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	Delete(ctx context.Context, itemID, userID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

type PostgresRepository struct {
	pool catalog.DBPool
}

func NewPostgresRepository(pool catalog.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const viewQuery = `
	SELECT ci.id, ci.product_id, p.name, p.price, COALESCE(p.image_url, ''), ci.quantity, ci.added_at
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id`

func (r *PostgresRepository) ListViews(ctx context.Context, userID string) ([]ItemView, error) {
	rows, err := r.pool.Query(ctx, viewQuery+` WHERE ci.user_id = $1 ORDER BY ci.added_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	var items []ItemView
	for rows.Next() {
		var it ItemView
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ProductPrice, &it.ProductImageURL, &it.Quantity, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, productID string) (*Item, error) {
	var it Item
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, product_id, quantity, added_at FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err := row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.AddedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart item: %w", err)
	}
	return &it, nil
}

func (r *PostgresRepository) Get(ctx context.Context, itemID, userID string) (*ItemDetail, error) {
	var d ItemDetail
	row := r.pool.QueryRow(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.price, COALESCE(p.image_url, ''), p.stock_quantity, ci.quantity, ci.added_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1 AND ci.user_id = $2`,
		itemID, userID)
	if err := row.Scan(&d.ID, &d.ProductID, &d.ProductName, &d.ProductPrice, &d.ProductImageURL, &d.StockQuantity, &d.Quantity, &d.AddedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart item: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO cart_items (id, user_id, product_id, quantity) VALUES ($1, $2, $3, $4) RETURNING added_at`,
		item.ID, item.UserID, item.ProductID, item.Quantity)
	if err := row.Scan(&item.AddedAt); err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	_, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, itemID, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
