package router

import (
	"net/http"
	"strings"

	"shopkart/internal/handler"
	"shopkart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	reviewHandler *handler.ReviewHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		atCollection := r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/"

		switch {
		case r.Method == http.MethodPost && atCollection:
			orderHandler.Create(w, r)
		case r.Method == http.MethodGet && atCollection:
			orderHandler.List(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/":
			orderHandler.GetByID(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Review handler function
	reviewRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		atCollection := r.URL.Path == "/api/reviews" || r.URL.Path == "/api/reviews/"

		switch {
		case r.Method == http.MethodPost && atCollection:
			reviewHandler.Create(w, r)
		case r.Method == http.MethodGet && atCollection:
			reviewHandler.ListByProduct(w, r)
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/images"):
			reviewHandler.ReplaceImages(w, r)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/reviews/"):
			reviewHandler.Delete(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/reviews", reviewRouteHandler)
	mux.HandleFunc("/api/reviews/", reviewRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
