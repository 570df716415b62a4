package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/to4to/EcommerceApp/internal/catalog"
	"github.com/to4to/EcommerceApp/internal/httpapi/middleware"
	"github.com/to4to/EcommerceApp/internal/order"
)

// OrderService is what the handler needs from the order workflow.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, in order.PlaceOrderInput) (*order.Order, error)
	GetOrder(ctx context.Context, orderID, userID string) (*order.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]order.Order, error)
	ListAllOrders(ctx context.Context) ([]order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
	OrderStatus(ctx context.Context, orderID, userID string) (order.Status, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type placeOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	BillingAddress  string `json:"billingAddress"`
	Notes           string `json:"notes"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.ShippingAddress) == "" || strings.TrimSpace(req.BillingAddress) == "" {
		writeError(w, http.StatusBadRequest, "shippingAddress and billingAddress are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.svc.PlaceOrder(ctx, middleware.UserID(r.Context()), order.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, catalog.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "insufficient stock")
		default:
			writeError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.svc.GetOrder(ctx, chi.URLParam(r, "orderId"), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.svc.ListUserOrders(ctx, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.svc.ListAllOrders(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	// Body is the bare status string.
	var status string
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(status) == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.svc.UpdateStatus(ctx, chi.URLParam(r, "orderId"), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "orderId")
	status, err := h.svc.OrderStatus(ctx, orderID, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load status")
		return
	}
	if status == "" {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"orderId": orderID, "status": status})
}
