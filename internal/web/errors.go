package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get a visitor-facing message
//  4. Technical error + context is logged with the request ID for correlation
//  5. The message is written as JSON for API calls or as an HTML page otherwise

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/JonMunkholm/dispenser/internal/logging"
	"github.com/JonMunkholm/dispenser/internal/storage"
	"github.com/JonMunkholm/dispenser/internal/views"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errRateLimited    = errors.New("rate limit exceeded")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a handler error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrProductNotFound),
		errors.Is(err, core.ErrLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrOutOfStock),
		errors.Is(err, core.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidCoupon),
		errors.Is(err, core.ErrUnknownTag),
		errors.Is(err, errInvalidRequest),
		errors.Is(err, storage.ErrInvalidSession):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRefreshBusy),
		errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, core.ErrNoSource),
		errors.Is(err, core.ErrEmptyCatalog),
		strings.Contains(err.Error(), "fetch catalog"),
		strings.Contains(err.Error(), "decode catalog"):
		return http.StatusBadGateway
	case strings.Contains(err.Error(), "load cart"),
		strings.Contains(err.Error(), "save cart"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and writes the
// visitor-facing message in the format the client expects.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := views.ErrorPage(statusCode, msg).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	// Browser forms get an HTML page even on API routes
	if isFormPost(r) {
		return false
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
