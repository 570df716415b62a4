package order

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/to4to/EcommerceApp/internal/catalog"
)

func testOrder() *Order {
	return &Order{
		ID:              "order-1",
		UserID:          "user-1",
		OrderDate:       time.Now().UTC(),
		Status:          StatusPending,
		TotalAmount:     decimal.NewFromFloat(45),
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
		Items: []Item{
			{ID: "oi-1", ProductID: "p1", ProductName: "Widget", Quantity: 2, UnitPrice: decimal.NewFromFloat(10)},
			{ID: "oi-2", ProductID: "p2", ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.NewFromFloat(25)},
		},
	}
}

func TestRepositoryCreate_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	o := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("p1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("p2", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items`)).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_DecrementsInProductOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	o := testOrder()

	// Items arrive in reverse cart-insertion order; the decrements must
	// still run sorted by product id.
	o.Items[0], o.Items[1] = o.Items[1], o.Items[0]

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("p1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("p2", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items`)).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_InsufficientStockRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	o := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// Concurrent order drained the stock: the conditional update matches
	// no rows and the whole placement must roll back.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products`)).
		WithArgs("p1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.ErrorIs(t, err, catalog.ErrInsufficientStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetForUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()

	t.Run("loads order with items", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1 AND user_id = $2`)).
			WithArgs("order-1", "user-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "status", "total_amount", "shipping_address", "billing_address", "notes", "order_date"}).
				AddRow("order-1", "user-1", Status("Pending"), decimal.NewFromFloat(45), "1 Main St", "1 Main St", "", now))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items WHERE order_id = $1`)).
			WithArgs("order-1").
			WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "product_name", "quantity", "unit_price"}).
				AddRow("oi-1", "p1", "Widget", 2, decimal.NewFromFloat(10)).
				AddRow("oi-2", "p2", "Gadget", 1, decimal.NewFromFloat(25)))

		o, err := repo.GetForUser(context.Background(), "order-1", "user-1")
		require.NoError(t, err)
		require.NotNil(t, o)
		require.Len(t, o.Items, 2)
		require.True(t, o.Items[0].TotalPrice.Equal(decimal.NewFromFloat(20)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong owner reads as missing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1 AND user_id = $2`)).
			WithArgs("order-1", "intruder").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "status", "total_amount", "shipping_address", "billing_address", "notes", "order_date"}))

		o, err := repo.GetForUser(context.Background(), "order-1", "intruder")
		require.NoError(t, err)
		require.Nil(t, o)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryStatus_ScopedToOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	t.Run("owner reads status", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = $1 AND user_id = $2`)).
			WithArgs("order-1", "user-1").
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("Pending"))

		status, err := repo.Status(context.Background(), "order-1", "user-1")
		require.NoError(t, err)
		require.Equal(t, StatusPending, status)
	})

	t.Run("foreign order reads as missing", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM orders WHERE id = $1 AND user_id = $2`)).
			WithArgs("order-1", "intruder").
			WillReturnRows(pgxmock.NewRows([]string{"status"}))

		status, err := repo.Status(context.Background(), "order-1", "intruder")
		require.NoError(t, err)
		require.Empty(t, status)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateStatus_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE orders SET status = $2`)).
		WithArgs("nope", StatusShipped).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "status", "total_amount", "shipping_address", "billing_address", "notes", "order_date"}))

	o, err := repo.UpdateStatus(context.Background(), "nope", StatusShipped)
	require.NoError(t, err)
	require.Nil(t, o)
	require.NoError(t, mock.ExpectationsWereMet())
}
