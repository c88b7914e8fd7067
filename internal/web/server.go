// Package web provides the HTTP server and handlers for the storefront.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/dispenser/internal/config"
	"github.com/JonMunkholm/dispenser/internal/content"
	"github.com/JonMunkholm/dispenser/internal/core"
	mw "github.com/JonMunkholm/dispenser/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Catalog *core.Catalog
	Carts   *core.CartService
	Links   core.Links
	Site    *content.Site
	Store   Pinger // optional, reported by /healthz
}

// Server is the HTTP server for the catalog and landing site.
type Server struct {
	cfg     *config.Config
	catalog *core.Catalog
	carts   *core.CartService
	links   core.Links
	site    *content.Site
	store   Pinger

	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:     cfg,
		catalog: deps.Catalog,
		carts:   deps.Carts,
		links:   deps.Links,
		site:    deps.Site,
		store:   deps.Store,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	// Security hardening
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := s.newLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Pages and browser flows carry the cart session cookie.
	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleCatalogPage)
		r.Get("/checkout", s.handleCheckoutRedirect)
	})
	s.router.Get("/sitio", s.handleLandingPage)
	s.router.Post("/contacto", s.handleContact)

	s.router.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/products", s.handleListProducts)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/savings", s.handleSavings)

		// Manual refresh is an admin action
		r.With(mw.APIKeyAuth(&s.cfg.Security)).Post("/catalog/refresh", s.handleRefreshCatalog)

		// Cart
		r.Group(func(r chi.Router) {
			r.Use(s.withSession)
			if s.cfg.Rate.Enabled && s.cfg.Rate.CartLimit > 0 {
				r.Use(s.newLimiter(s.cfg.Rate.CartLimit, s.cfg.Rate.Burst).middleware)
			}

			r.Get("/cart", s.handleGetCart)
			r.Delete("/cart", s.handleClearCart)
			r.Post("/cart/clear", s.handleClearCart)
			r.Post("/cart/items", s.handleAddItem)
			r.Post("/cart/items/{id}/increment", s.handleIncrement)
			r.Post("/cart/items/{id}/decrement", s.handleDecrement)
			r.Delete("/cart/items/{id}", s.handleRemoveItem)
			r.Post("/cart/items/{id}/delete", s.handleRemoveItem)
			r.Post("/cart/coupon", s.handleApplyCoupon)
			r.Post("/checkout", s.handleCheckout)
		})
	})
}

func (s *Server) newLimiter(perMinute, burst int) *rateLimiter {
	rl := newRateLimiter(perMinute, burst)
	s.limiters = append(s.limiters, rl)
	return rl
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Product images come from the spreadsheet, so any https origin is allowed.
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'; form-action 'self' https://wa.me https://api.whatsapp.com https://web.whatsapp.com")
			}

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// isFormPost reports whether a browser form submitted the request, in which
// case the handler redirects instead of answering with JSON.
func isFormPost(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/x-www-form-urlencoded") && !strings.HasPrefix(ct, "multipart/form-data") {
		return false
	}
	return !strings.Contains(r.Header.Get("Accept"), "application/json")
}

// maxBodyBytes caps JSON and form request bodies.
const maxBodyBytes = 64 << 10
