package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	invoiceHandler "github.com/narensv/vyapari/internal/http/invoice"
	sessionHandler "github.com/narensv/vyapari/internal/http/session"
)

func New(
	sessionV1 *sessionHandler.Handler,
	invoiceV1 *invoiceHandler.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// The identity provider redirects the browser here; this route serves
	// HTML and redirects, not JSON.
	router.Get("/auth/callback", sessionV1.Callback)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			sessionV1.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoiceV1.Routes(r)
		})
	})

	return router
}
