package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teranga-resto/teranga-resto/internal/auth"
	"github.com/teranga-resto/teranga-resto/internal/billing/invoices"
	"github.com/teranga-resto/teranga-resto/internal/catalog/products"
	"github.com/teranga-resto/teranga-resto/internal/observability"
	"github.com/teranga-resto/teranga-resto/internal/rbac"
	"github.com/teranga-resto/teranga-resto/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Middlewares    []func(http.Handler) http.Handler
	RBAC           rbac.Middleware
	Metrics        *observability.Metrics
	AuthHandler    *auth.Handler
	InvoiceHandler *invoices.Handler
	ProductHandler *products.Handler
	UsersHandler   *users.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range params.Middlewares {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Group(func(r chi.Router) {
			r.Use(params.RBAC.RequireAuthenticated)
			r.Route("/invoices", params.InvoiceHandler.MountRoutes)
			r.Route("/products", params.ProductHandler.MountRoutes)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.RBAC.RequireAdmin)
			r.Route("/dashboard/users", params.UsersHandler.MountRoutes)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
