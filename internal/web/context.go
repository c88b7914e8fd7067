package web

import (
	"net"
	"net/http"
	"time"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/JonMunkholm/dispenser/internal/logging"
	"github.com/google/uuid"
)

// SessionCookie holds the visitor's cart session id.
const SessionCookie = core.CartKeyPrefix

// withSession attaches the cart session id to the request context, issuing
// a fresh one when the cookie is missing or not a UUID.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			logging.FromContext(r.Context()).Debug("new cart session", "session", id)
		}

		// Refresh the cookie so active carts do not expire.
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(s.cartTTL() / time.Second),
			HttpOnly: true,
			Secure:   s.cfg.Cart.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(core.ContextWithSessionID(r.Context(), id)))
	})
}

func (s *Server) cartTTL() time.Duration {
	if s.cfg.Cart.TTL > 0 {
		return s.cfg.Cart.TTL
	}
	return 30 * 24 * time.Hour
}

// sessionID returns the cart session of the request.
func sessionID(r *http.Request) string {
	return core.SessionIDFromContext(r.Context())
}

// clientIP returns the request's IP without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
