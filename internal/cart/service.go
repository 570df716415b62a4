package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/to4to/EcommerceApp/internal/catalog"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ProductReader is the slice of the catalog the cart needs.
type ProductReader interface {
	Get(ctx context.Context, productID string) (*catalog.Product, error)
}

// Service validates cart mutations against the catalog. All operations are
// scoped to the calling user; the user id always comes from the verified
// token, never from the request body.
type Service struct {
	repo    Repository
	catalog ProductReader
}

func NewService(repo Repository, products ProductReader) *Service {
	return &Service{repo: repo, catalog: products}
}

func (s *Service) GetCart(ctx context.Context, userID string) (View, error) {
	items, err := s.repo.ListViews(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return NewView(items), nil
}

// AddItem validates the requested quantity against current stock and either
// inserts a new row or increments the existing (user, product) row.
// Only the incremental quantity is checked against stock, matching the
// behavior this service replaces; the order transaction is the final guard.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*ItemView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, fmt.Errorf("product %s: %w", productID, catalog.ErrInsufficientStock)
	}

	existing, err := s.repo.Find(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	item := existing
	if existing != nil {
		item.Quantity += quantity
		if err := s.repo.UpdateQuantity(ctx, item.ID, item.Quantity); err != nil {
			return nil, err
		}
	} else {
		item = &Item{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.repo.Insert(ctx, item); err != nil {
			return nil, err
		}
	}

	view := ItemView{
		ID:              item.ID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductPrice:    product.Price,
		ProductImageURL: product.ImageURL,
		Quantity:        item.Quantity,
		TotalPrice:      lineTotal(product.Price, item.Quantity),
		AddedAt:         item.AddedAt,
	}
	return &view, nil
}

// UpdateItem sets the quantity of a cart row. A quantity of zero or less
// removes the row; (nil, nil) signals removal, mirrored as 204 by the
// transport layer. A missing row also yields (nil, nil).
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*ItemView, error) {
	detail, err := s.repo.Get(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, nil
	}

	if quantity <= 0 {
		if _, err := s.repo.Delete(ctx, itemID, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if detail.StockQuantity < quantity {
		return nil, fmt.Errorf("product %s: %w", detail.ProductID, catalog.ErrInsufficientStock)
	}

	if err := s.repo.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return nil, err
	}

	view := detail.ItemView
	view.Quantity = quantity
	view.TotalPrice = lineTotal(view.ProductPrice, quantity)
	return &view, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (bool, error) {
	return s.repo.Delete(ctx, itemID, userID)
}

// ClearCart removes every row for the user. Idempotent.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
