// Package router assembles the HTTP routing table.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightcare/booking-platform/internal/booking"
	"github.com/brightcare/booking-platform/internal/cancellation"
	httpmiddleware "github.com/brightcare/booking-platform/internal/http/middleware"
	"github.com/brightcare/booking-platform/internal/payments"
	"github.com/brightcare/booking-platform/internal/slots"
	"github.com/brightcare/booking-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	BookingHandler      *booking.Handler
	CancellationHandler *cancellation.Handler
	SlotsHandler        *slots.Handler
	PolicyHandler       *payments.PolicyHandler
	MetricsHandler      http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.BookingHandler != nil {
			api.Post("/bookings", cfg.BookingHandler.CreateBooking)
		}
		if cfg.CancellationHandler != nil {
			api.Post("/appointments/{appointmentID}/cancel", cfg.CancellationHandler.CancelAppointment)
		}
		if cfg.SlotsHandler != nil {
			api.Get("/clinics/{clinicID}/slots", cfg.SlotsHandler.ListAvailable)
		}
		if cfg.PolicyHandler != nil {
			api.Get("/policies/{appointmentType}", cfg.PolicyHandler.GetPolicy)
		}
	})

	return r
}
