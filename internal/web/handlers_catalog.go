package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/JonMunkholm/dispenser/internal/logging"
)

type productsResponse struct {
	Products []core.Product    `json:"products"`
	Status   core.CatalogStatus `json:"status"`
}

// handleListProducts returns the catalog filtered by tag and query.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	products, err := core.FilterByTag(s.catalog.Products(), q.Get("tag"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, productsResponse{
		Products: core.Filter(products, q.Get("q")),
		Status:   s.catalog.Status(),
	})
}

type suggestResponse struct {
	Query       string         `json:"query"`
	Suggestions []core.Product `json:"suggestions"`
}

// handleSuggest returns autocomplete matches. Short queries get none.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	suggestions := core.Suggest(s.catalog.Products(), q)
	if suggestions == nil {
		suggestions = []core.Product{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Query: q, Suggestions: suggestions})
}

// handleRefreshCatalog runs a catalog refresh now.
func (s *Server) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	err := s.catalog.Refresh(r.Context())
	if errors.Is(err, core.ErrStaleRefresh) {
		// A newer refresh already replaced the snapshot.
		err = nil
	}
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	status := s.catalog.Status()
	logging.FromContext(r.Context()).Info("manual catalog refresh", "products", status.Products)
	writeJSON(w, http.StatusOK, status)
}

type healthResponse struct {
	Status  string             `json:"status"`
	Store   string             `json:"store,omitempty"`
	Catalog core.CatalogStatus `json:"catalog"`
}

// handleHealth reports catalog state and cart store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Catalog: s.catalog.Status()}
	code := http.StatusOK

	if s.store != nil {
		resp.Store = "ok"
		if err := s.store.Ping(r.Context()); err != nil {
			logging.FromContext(r.Context()).Error("health: cart store unreachable", "error", err)
			resp.Status = "degraded"
			resp.Store = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, resp)
}
