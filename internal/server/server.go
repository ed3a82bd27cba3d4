// Package server exposes the fest core services over HTTP. The services
// themselves do no locking, so the server wraps each one in a mutex; it
// is the single writer the services expect.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sparkfest/fest-core/internal/analytics"
	"github.com/sparkfest/fest-core/internal/event"
	"github.com/sparkfest/fest-core/internal/registration"
)

// Publisher fans tracked interactions out to a message bus. The kafka
// producer satisfies it; a nil publisher disables publishing.
type Publisher interface {
	SendMessage(ctx context.Context, key string, value any) error
}

// Server wires the analytics tracker, registration ledger and event
// catalog behind a chi router.
type Server struct {
	logger *zap.Logger

	analyticsMu sync.Mutex
	analytics   *analytics.Service

	registrationsMu sync.Mutex
	registrations   *registration.Service

	catalogMu sync.RWMutex
	catalog   []event.Event

	publisher Publisher
}

// New constructs a Server. publisher may be nil.
func New(
	logger *zap.Logger,
	analyticsSvc *analytics.Service,
	registrationSvc *registration.Service,
	publisher Publisher,
) *Server {
	return &Server{
		logger:        logger,
		analytics:     analyticsSvc,
		registrations: registrationSvc,
		publisher:     publisher,
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.accessLog)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/interactions", s.handleTrack)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/events/{eventID}", s.handleEventAnalytics)
			r.Get("/events/{eventID}/summary", s.handleEventSummary)
			r.Get("/users/{userID}", s.handleUserAnalytics)
			r.Get("/top/views", s.handleTopViews)
			r.Get("/top/registrations", s.handleTopRegistrations)
			r.Get("/top/conversion", s.handleTopConversion)
			r.Get("/top/users", s.handleTopUsers)
			r.Get("/range", s.handleDateRange)
			r.Get("/devices", s.handleDeviceBreakdown)
			r.Get("/referrals", s.handleReferralBreakdown)
			r.Get("/hourly", s.handleHourlyActivity)
			r.Get("/daily", s.handleDailyActivity)
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Post("/", s.handleRegister)
			r.Get("/{id}", s.handleGetRegistration)
			r.Post("/{id}/cancel", s.handleCancel)
			r.Patch("/{id}/payment", s.handleUpdatePayment)
		})

		r.Route("/events/{eventID}", func(r chi.Router) {
			r.Put("/capacity", s.handleSetCapacity)
			r.Get("/registrations", s.handleEventRegistrations)
			r.Get("/waitlist", s.handleWaitlist)
			r.Get("/stats", s.handleRegistrationStats)
		})

		r.Get("/users/{email}/registrations", s.handleUserRegistrations)

		r.Route("/catalog", func(r chi.Router) {
			r.Put("/", s.handleReplaceCatalog)
			r.Get("/", s.handleQueryCatalog)
			r.Get("/stats", s.handleCatalogStats)
			r.Get("/upcoming", s.handleUpcoming)
			r.Get("/past", s.handlePast)
		})

		r.Post("/validation/registration", s.handleValidateForm)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
