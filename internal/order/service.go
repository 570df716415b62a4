package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/to4to/EcommerceApp/internal/cart"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartReader is the slice of the cart manager the workflow needs.
type CartReader interface {
	ListViews(ctx context.Context, userID string) ([]cart.ItemView, error)
}

// EventPublisher emits OrderCreated after a successful commit. Optional.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
}

// StatusCache keeps the latest order status for cheap reads. Entries are
// keyed per (user, order) so cached reads stay ownership-scoped. Optional.
type StatusCache interface {
	SetStatus(ctx context.Context, userID, orderID string, status Status) error
	GetStatus(ctx context.Context, userID, orderID string) (Status, error)
}

type PlaceOrderInput struct {
	ShippingAddress string
	BillingAddress  string
	Notes           string
}

// Service runs the cart-to-order transition and the order read paths.
type Service struct {
	repo      Repository
	carts     CartReader
	publisher EventPublisher
	statuses  StatusCache
	logger    *slog.Logger
}

func NewService(repo Repository, carts CartReader, publisher EventPublisher, statuses StatusCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, carts: carts, publisher: publisher, statuses: statuses, logger: logger}
}

// PlaceOrder converts the user's cart into an immutable order. Prices are
// captured from the cart view loaded here; the conditional stock decrement
// inside Repository.Create closes the window between that read and the
// commit. Everything up to the commit is all-or-nothing.
func (s *Service) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*Order, error) {
	views, err := s.carts.ListViews(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrEmptyCart
	}

	o := &Order{
		UserID:          userID,
		OrderDate:       time.Now().UTC(),
		Status:          StatusPending,
		TotalAmount:     decimal.Zero,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
	}
	for _, v := range views {
		o.Items = append(o.Items, Item{
			ProductID:   v.ProductID,
			ProductName: v.ProductName,
			Quantity:    v.Quantity,
			UnitPrice:   v.ProductPrice,
		})
		o.TotalAmount = o.TotalAmount.Add(lineTotal(v.ProductPrice, v.Quantity))
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, o); err != nil {
			s.logger.Warn("publish OrderCreated failed", "orderId", o.ID, "err", err)
		}
	}
	s.cacheStatus(ctx, o.UserID, o.ID, o.Status)

	// Hand back through the read path so the response matches GetOrder.
	placed, err := s.repo.GetForUser(ctx, o.ID, userID)
	if err != nil {
		return nil, err
	}
	if placed == nil {
		return nil, fmt.Errorf("order %s vanished after commit", o.ID)
	}
	return placed, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	return s.repo.GetForUser(ctx, orderID, userID)
}

func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAllOrders(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus overwrites the status unconditionally. Any non-empty value
// is accepted; no transition graph is enforced.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	o, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil || o == nil {
		return o, err
	}
	s.cacheStatus(ctx, o.UserID, o.ID, o.Status)
	return o, nil
}

// OrderStatus serves from the cache when possible, falling back to the
// store. Both paths are scoped to the owning user; an empty result means
// the order does not exist or belongs to someone else.
func (s *Service) OrderStatus(ctx context.Context, orderID, userID string) (Status, error) {
	if s.statuses != nil {
		if status, err := s.statuses.GetStatus(ctx, userID, orderID); err == nil && status != "" {
			return status, nil
		}
	}

	status, err := s.repo.Status(ctx, orderID, userID)
	if err != nil {
		return "", err
	}
	if status != "" {
		s.cacheStatus(ctx, userID, orderID, status)
	}
	return status, nil
}

func (s *Service) cacheStatus(ctx context.Context, userID, orderID string, status Status) {
	if s.statuses == nil {
		return
	}
	if err := s.statuses.SetStatus(ctx, userID, orderID, status); err != nil {
		s.logger.Warn("status cache write failed", "orderId", orderID, "err", err)
	}
}
