package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/http/booking"
	"github.com/MrJamesThe3rd/wandura/internal/http/notification"
	"github.com/MrJamesThe3rd/wandura/internal/http/payment"
	"github.com/MrJamesThe3rd/wandura/internal/http/render"
	"github.com/MrJamesThe3rd/wandura/internal/http/review"
	"github.com/MrJamesThe3rd/wandura/internal/http/transaction"
	"github.com/MrJamesThe3rd/wandura/internal/http/worker"
)

type Handlers struct {
	Bookings      *booking.Handler
	Payments      *payment.Handler
	Transactions  *transaction.Handler
	Notifications *notification.Handler
	Reviews       *review.Handler
	Workers       *worker.Handler
}

func New(authn *auth.Authenticator, allowedOrigins []string, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		// Gateway callbacks carry a signature instead of a bearer token.
		r.Route("/webhooks", h.Payments.WebhookRoutes)

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/bookings", h.Bookings.Routes)
			r.Route("/payments", h.Payments.Routes)
			r.Route("/transactions", h.Transactions.Routes)
			r.Route("/notifications", h.Notifications.Routes)
			r.Route("/reviews", h.Reviews.Routes)
			r.Route("/workers", h.Workers.Routes)
		})
	})

	return router
}
