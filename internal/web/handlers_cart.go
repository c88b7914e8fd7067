package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/go-chi/chi/v5"
)

// cartAnchor is where form submissions land after a cart change.
const cartAnchor = "/#carrito"

type cartResponse struct {
	Lines       []core.CartLine `json:"lines"`
	CouponCode  string          `json:"couponCode,omitempty"`
	Totals      core.Totals     `json:"totals"`
	Display     displayTotals   `json:"display"`
	CouponError string          `json:"couponError,omitempty"`
}

// displayTotals are the totals formatted for es-AR.
type displayTotals struct {
	Gross    string `json:"gross"`
	Discount string `json:"discount"`
	Net      string `json:"net"`
}

func newCartResponse(c core.Cart) cartResponse {
	tot := c.Totals()
	lines := c.Lines
	if lines == nil {
		lines = []core.CartLine{}
	}
	return cartResponse{
		Lines:      lines,
		CouponCode: c.CouponCode,
		Totals:     tot,
		Display: displayTotals{
			Gross:    core.FormatARS(tot.Gross),
			Discount: core.FormatARS(tot.Discount),
			Net:      core.FormatARS(tot.Net),
		},
	}
}

// respondCart answers a cart command: JSON for API clients, a redirect back
// to the cart for browser forms.
func respondCart(w http.ResponseWriter, r *http.Request, resp cartResponse) {
	if isFormPost(r) {
		http.Redirect(w, r, cartAnchor, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeRequest reads a JSON body into dst, or hands the parsed form to
// fromForm for any other content type.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any, fromForm func(url.Values)) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %v", errInvalidRequest, err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	fromForm(r.PostForm)
	return nil
}

// handleGetCart returns the visitor's cart.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.carts.Get(r.Context(), sessionID(r))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(cart))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// handleAddItem adds a catalog product to the cart.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	err := decodeRequest(w, r, &req, func(form url.Values) {
		req.ProductID = form.Get("product_id")
		req.Quantity, _ = strconv.Atoi(form.Get("quantity"))
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		respondError(w, r, fmt.Errorf("%w: missing product id", errInvalidRequest), http.StatusBadRequest)
		return
	}

	cart, err := s.carts.AddItem(r.Context(), sessionID(r), req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	respondCart(w, r, newCartResponse(cart))
}

// lineHandler runs a per-line cart command on the {id} URL param.
func (s *Server) lineHandler(op func(ctx context.Context, sessionID, productID string) (core.Cart, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cart, err := op(r.Context(), sessionID(r), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, r, err, statusFor(err))
			return
		}
		respondCart(w, r, newCartResponse(cart))
	}
}

// handleIncrement adds one unit to a line, capped at stock.
func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	s.lineHandler(s.carts.Increment)(w, r)
}

// handleDecrement removes one unit from a line, never below one.
func (s *Server) handleDecrement(w http.ResponseWriter, r *http.Request) {
	s.lineHandler(s.carts.Decrement)(w, r)
}

// handleRemoveItem deletes a line.
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	s.lineHandler(s.carts.Remove)(w, r)
}

// handleClearCart empties the cart. The coupon is kept.
func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.carts.Clear(r.Context(), sessionID(r))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	respondCart(w, r, newCartResponse(cart))
}

type couponRequest struct {
	Code string `json:"code"`
}

// handleApplyCoupon sets the cart coupon. An unknown code clears the
// discount and is reported in couponError rather than as a failure.
func (s *Server) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeRequest(w, r, &req, func(form url.Values) {
		req.Code = form.Get("code")
	}); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	cart, err := s.carts.ApplyCoupon(r.Context(), sessionID(r), req.Code)
	if err != nil && !errors.Is(err, core.ErrInvalidCoupon) {
		respondError(w, r, err, statusFor(err))
		return
	}

	resp := newCartResponse(cart)
	if err != nil {
		resp.CouponError = core.InvalidCouponMessage
	}
	respondCart(w, r, resp)
}

type checkoutRequest struct {
	Customer string `json:"customer"`
	Note     string `json:"note"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// handleCheckout returns the chat link carrying the order message.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeRequest(w, r, &req, func(form url.Values) {
		req.Customer = form.Get("nombre")
		req.Note = form.Get("nota")
	}); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	link, err := s.carts.Checkout(r.Context(), sessionID(r), req.Customer, req.Note)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if isFormPost(r) {
		http.Redirect(w, r, link, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{URL: link})
}

// handleCheckoutRedirect sends the browser straight to the chat link.
func (s *Server) handleCheckoutRedirect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link, err := s.carts.Checkout(r.Context(), sessionID(r), q.Get("nombre"), q.Get("nota"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	http.Redirect(w, r, link, http.StatusFound)
}
