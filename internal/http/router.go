package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/session"
)

type RouterDeps struct {
	Sessions *session.Manager
	Auth     *AuthHandler
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Payments *PaymentHandler
	Orders   *OrderHandler
	Admin    *AdminHandler

	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", deps.Auth.Login)
		r.Post("/auth/register", deps.Auth.Register)

		// product browsing is open to guests
		r.Get("/products/", deps.Products.List)
		r.Get("/products/{product_id}", deps.Products.Get)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(deps.Sessions))

			r.Post("/auth/logout", deps.Auth.Logout)
			r.Get("/users/me", deps.Auth.Me)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{item_id}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{item_id}", deps.Cart.RemoveItem)
				r.Delete("/", deps.Cart.ClearCart)
				r.Post("/contains", deps.Cart.ContainsVariant)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/estimate", deps.Checkout.Estimate)
				r.Post("/", deps.Checkout.Submit)
			})

			r.Route("/payments/{order_id}", func(r chi.Router) {
				r.Post("/watch", deps.Payments.Watch)
				r.Get("/state", deps.Payments.State)
				r.Post("/refresh", deps.Payments.Refresh)
				r.Post("/retry", deps.Payments.Retry)
				r.Delete("/watch", deps.Payments.Unwatch)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Orders.History)
				r.Get("/{order_id}", deps.Orders.Get)
				r.Delete("/{order_id}", deps.Orders.Cancel)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin(deps.Sessions))

				r.Post("/menu", deps.Admin.CreateMenuItem)
				r.Put("/menu/{product_id}", deps.Admin.UpdateMenuItem)
				r.Delete("/menu/{product_id}", deps.Admin.DeleteMenuItem)

				r.Post("/menu/{product_id}/variants", deps.Admin.CreateVariant)
				r.Put("/menu/{product_id}/variants/{variant_id}", deps.Admin.UpdateVariant)
				r.Delete("/menu/{product_id}/variants/{variant_id}", deps.Admin.DeleteVariant)

				r.Get("/orders", deps.Admin.ListOrders)
				r.Put("/orders/{order_id}/status", deps.Admin.UpdateOrderStatus)
				r.Get("/dashboard", deps.Admin.Dashboard)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
