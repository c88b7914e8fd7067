package web

import (
	"net/http"
	"net/url"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/JonMunkholm/dispenser/internal/logging"
	"github.com/JonMunkholm/dispenser/internal/views"
	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

// handleCatalogPage renders the catalog with the visitor's cart.
func (s *Server) handleCatalogPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query().Get("q")

	// The page still renders if the cart store is down.
	cart, err := s.carts.Get(ctx, sessionID(r))
	if err != nil {
		logging.FromContext(ctx).Warn("cart unavailable for page", "error", err)
		cart = core.Cart{}
	}

	data := views.CatalogData{
		Query:    q,
		Products: core.Filter(s.catalog.Products(), q),
		Status:   s.catalog.Status(),
		Cart:     cart,
		Links:    s.links,
	}
	if s.site != nil {
		data.Title = s.site.Catalog.Title
		data.Subtitle = s.site.Catalog.Subtitle
	}
	s.render(w, r, views.CatalogPage(data))
}

// handleLandingPage renders the informational site with the savings
// calculator filled from the query string.
func (s *Server) handleLandingPage(w http.ResponseWriter, r *http.Request) {
	in := savingsInput(r.URL.Query())
	s.render(w, r, views.LandingPage(views.LandingData{
		Site:    s.site,
		Links:   s.links,
		Savings: in,
		Result:  core.CalculateSavings(in),
	}))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}

// savingsInput reads calculator fields, keeping defaults for absent ones.
// Values accept both "7.500,50" and "7500.50".
func savingsInput(q url.Values) core.SavingsInput {
	in := core.DefaultSavingsInput()
	for name, dst := range map[string]*decimal.Decimal{
		"botella":       &in.BottlePrice,
		"bidones":       &in.BottlesPerMonth,
		"kit":           &in.KitPrice,
		"mantenimiento": &in.Maintenance,
	} {
		if v := q.Get(name); v != "" {
			*dst = decimal.NewFromFloat(core.ParseLocaleNumber(v))
		}
	}
	return in
}
