/**
 * @description
 * This file sets up the HTTP router for the instruction-service. It
 * defines the API endpoints, associates them with their handlers, and
 * applies the standard middleware stack.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PaymentRoutes creates and returns the router for the service.
func PaymentRoutes(h *PaymentHandlers) http.Handler {
	r := chi.NewRouter()

	// Standard middleware for client addresses, logging, panic recovery,
	// and timeouts.
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Post("/payment-instructions", h.PaymentInstructionsHandler)

	return r
}
