package order

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/to4to/EcommerceApp/internal/catalog"
)

type Repository interface {
	// Create persists the order, its items, the stock decrements, and the
	// cart deletion for the owning user as one transaction.
	Create(ctx context.Context, o *Order) error
	GetForUser(ctx context.Context, orderID, userID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error)
	Status(ctx context.Context, orderID, userID string) (Status, error)
}

type PostgresRepository struct {
	pool catalog.DBPool
}

func NewPostgresRepository(pool catalog.DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create commits the whole placement as one unit. The stock decrement is a
// conditional update; zero rows affected means a concurrent order drained
// the stock since the cart was validated, and the transaction rolls back
// with catalog.ErrInsufficientStock.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	// Concurrent placements must lock product rows in the same order,
	// whatever order the items entered the cart in.
	sort.Slice(o.Items, func(i, j int) bool {
		return o.Items[i].ProductID < o.Items[j].ProductID
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, total_amount, shipping_address, billing_address, notes, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
	`, o.ID, o.UserID, o.Status, o.TotalAmount, o.ShippingAddress, o.BillingAddress, o.Notes, o.OrderDate)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, it.ID, o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $2, updated_at = now()
			WHERE id = $1 AND stock_quantity >= $2
		`, it.ProductID, it.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("product %s: %w", it.ProductID, catalog.ErrInsufficientStock)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, o.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const orderColumns = `id, user_id, status, total_amount, shipping_address, billing_address, COALESCE(notes, ''), order_date`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.ShippingAddress, &o.BillingAddress, &o.Notes, &o.OrderDate)
}

// GetForUser returns the order only if it belongs to userID; (nil, nil)
// otherwise, so a foreign order is indistinguishable from a missing one.
func (r *PostgresRepository) GetForUser(ctx context.Context, orderID, userID string) (*Order, error) {
	var o Order
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID)
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC`, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, product_name, quantity, unit_price FROM order_items WHERE order_id = $1`, o.ID)
	if err != nil {
		return fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return fmt.Errorf("scan order_item: %w", err)
		}
		it.TotalPrice = lineTotal(it.UnitPrice, it.Quantity)
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the status field and returns the updated order
// with items, or (nil, nil) when the order does not exist.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	var o Order
	row := r.pool.QueryRow(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
		RETURNING `+orderColumns, orderID, status)
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Status is scoped like GetForUser: a foreign order reads as missing.
func (r *PostgresRepository) Status(ctx context.Context, orderID, userID string) (Status, error) {
	var status Status
	row := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("select order status: %w", err)
	}
	return status, nil
}
