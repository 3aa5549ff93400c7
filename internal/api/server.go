// Package api provides the HTTP API server and handlers for the campus
// library circulation service.
package api

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campuslib/campuslib-server/internal/ratelimit"
	"github.com/campuslib/campuslib-server/internal/service"
	"github.com/campuslib/campuslib-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	circulation *service.CirculationService
	catalog     *service.CatalogService
	membership  *service.MembershipService
	admin       *service.AdminService
	notices     *service.NoticeService
	limiter     *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	store store.Store,
	circulation *service.CirculationService,
	catalog *service.CatalogService,
	membership *service.MembershipService,
	admin *service.AdminService,
	notices *service.NoticeService,
	limiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:       store,
		circulation: circulation,
		catalog:     catalog,
		membership:  membership,
		admin:       admin,
		notices:     notices,
		limiter:     limiter,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Circulation desk: the only write path for loans.
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(s.limiter, s.logger))
			r.Post("/circulation", s.handleCirculation)
		})

		// Catalog reads.
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)
		})

		// Student history.
		r.Get("/students/{tupID}/history", s.handleStudentHistory)

		// Staff endpoints. Authentication lives in the campus gateway in
		// front of this service.
		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Post("/books", s.handleCreateBook)
			r.Post("/students", s.handleCreateStudent)
			r.Post("/notices/reminders", s.handleSendReminders)
			r.Post("/notices/overdue", s.handleSendOverdueNotices)
		})
	})
}
