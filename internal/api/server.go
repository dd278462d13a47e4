// Package api exposes the balance engine over a small JSON HTTP surface:
// daily balance, monthly ledger and the bulk office recompute entry point.
package api

import (
	"net/http"

	"hours-bank-bot/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires routes and middleware.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/balance", h.GetDailyBalance)
			r.Get("/ledger/{year}/{month}", h.GetMonthlyLedger)
		})
		r.Route("/offices/{id}", func(r chi.Router) {
			r.Post("/recalculate", h.RecalculateOffice)
		})
	})

	return r
}

// NewServer builds the http.Server for the given services.
func NewServer(addr string, userService *service.UserService, balanceService *service.BalanceService) *http.Server {
	h := NewHandler(userService, balanceService)
	return &http.Server{
		Addr:    addr,
		Handler: NewRouter(h),
	}
}
