package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/to4to/EcommerceApp/internal/cart"
	"github.com/to4to/EcommerceApp/internal/catalog"
	"github.com/to4to/EcommerceApp/internal/httpapi/middleware"
)

// CartService is what the handler needs from the cart manager.
type CartService interface {
	GetCart(ctx context.Context, userID string) (cart.View, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*cart.ItemView, error)
	UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*cart.ItemView, error)
	RemoveItem(ctx context.Context, userID, itemID string) (bool, error)
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	view, err := h.svc.GetCart(ctx, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	item, err := h.svc.AddItem(ctx, middleware.UserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		// Business-rule violations surface as 400, like the rest of the
		// cart API; only storage failures become 500.
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusBadRequest, "product not found")
		case errors.Is(err, catalog.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "insufficient stock")
		case errors.Is(err, cart.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to add item")
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	// Body is the bare quantity, not an object.
	var quantity int
	if err := json.NewDecoder(r.Body).Decode(&quantity); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	item, err := h.svc.UpdateItem(ctx, middleware.UserID(r.Context()), chi.URLParam(r, "itemId"), quantity)
	if err != nil {
		if errors.Is(err, catalog.ErrInsufficientStock) {
			writeError(w, http.StatusBadRequest, "insufficient stock")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		// Removed (quantity <= 0) or never existed.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	found, err := h.svc.RemoveItem(ctx, middleware.UserID(r.Context()), chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove item")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "cart item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.svc.ClearCart(ctx, middleware.UserID(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
