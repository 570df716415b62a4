package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/to4to/EcommerceApp/internal/auth"
	"github.com/to4to/EcommerceApp/internal/httpapi/middleware"
)

type RouterDeps struct {
	Auth     *auth.Service
	Products *ProductHandler
	Carts    *CartHandler
	Orders   *OrderHandler
	AuthCfg  middleware.AuthConfig
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.Metrics)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	authn := middleware.Authenticator(deps.AuthCfg)
	ah := NewAuthHandler(deps.Auth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register)
		r.Post("/login", ah.Login)
		r.With(authn).Get("/me", ah.Me)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", deps.Products.List)
		r.Get("/search", deps.Products.Search)
		r.Get("/{productId}", deps.Products.Get)
		r.Get("/category/{category}", deps.Products.ListByCategory)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/", deps.Products.Create)
			r.Put("/{productId}", deps.Products.Update)
			r.Delete("/{productId}", deps.Products.Delete)
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", deps.Carts.GetCart)
		r.Delete("/", deps.Carts.ClearCart)
		r.Post("/items", deps.Carts.AddItem)
		r.Put("/items/{itemId}", deps.Carts.UpdateItem)
		r.Delete("/items/{itemId}", deps.Carts.RemoveItem)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authn)
		r.Post("/", deps.Orders.PlaceOrder)
		r.Get("/", deps.Orders.ListOrders)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/admin/all", deps.Orders.ListAllOrders)
		r.Get("/{orderId}", deps.Orders.GetOrder)
		r.Put("/{orderId}/status", deps.Orders.UpdateStatus)
		r.Get("/{orderId}/status", deps.Orders.GetStatus)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "ecommerce-api",
	})
}
