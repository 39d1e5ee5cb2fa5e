package router

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/pos-manager/docs"
	"github.com/rogerio-castellano/pos-manager/internal/http/handlers"
	mw "github.com/rogerio-castellano/pos-manager/internal/http/middleware"
	rl "github.com/rogerio-castellano/pos-manager/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires every route. tokens verifies bearer credentials on the
// protected routes; limiter throttles the auth endpoints and may be nil.
func NewRouter(tokens mw.TokenParser, limiter *rl.Limiter) http.Handler {
	compressor := chimw.NewCompressor(5, "application/json", "text/plain")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(compressor.Handler)

	r.Get("/health", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/register", handlers.RegisterHandler)
		r.Post("/login", handlers.LoginHandler)
		r.Post("/token", handlers.TokenHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(tokens))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.GetProductsHandler)
			r.Post("/", handlers.CreateProductHandler)
			r.Get("/{id}", handlers.GetProductByIDHandler)
			r.Put("/{id}", handlers.UpdateProductHandler)
			r.Patch("/{id}", handlers.PatchProductHandler)
			r.Delete("/{id}", handlers.DeleteProductHandler)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", handlers.GetTransactionsHandler)
			r.Post("/", handlers.CreateTransactionHandler)
			r.Get("/{id}", handlers.GetTransactionByIDHandler)
		})

		r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}
