package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter assembles the HTTP edge.
func NewRouter(cart *CartHandler, catalog *CatalogHandler, checkout *CheckoutHandler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalog.ListProducts)
		r.Post("/products/more", catalog.LoadMore)
		r.Get("/products/{product_id}", catalog.GetProduct)
		r.Get("/categories", catalog.ListCategories)
		r.Get("/novedades", catalog.Novedades)
		r.Get("/ofertas", catalog.Ofertas)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Delete("/", cart.ClearCart)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{product_id}", cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/email", checkout.SubmitEmail)
			r.Post("/whatsapp", checkout.WhatsAppLink)
			r.Post("/back", checkout.Back)
			r.Post("/cancel", checkout.Cancel)
		})

		r.Get("/orders", checkout.ListOrders)
	})

	return otelhttp.NewHandler(r, "storefront")
}
