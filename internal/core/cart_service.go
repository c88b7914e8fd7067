package core

// cart_service.go turns visitor actions into cart commands.
//
// Every command loads the session's cart from the store, applies one change
// through the Cart engine and saves the result. Commands for the same session
// are serialized by a per-session lock so a load-mutate-save cycle never
// interleaves with another in this process.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// CartKeyPrefix namespaces persisted carts in every store.
const CartKeyPrefix = "carrito-disp"

var (
	// ErrCartNotFound is returned by stores when a session has no saved cart.
	ErrCartNotFound = errors.New("cart not found")
	ErrEmptyCart    = errors.New("cart is empty")
)

// CartKey returns the storage key for a session.
func CartKey(sessionID string) string {
	return CartKeyPrefix + ":" + sessionID
}

// CartStore persists serialized carts by session id.
// Load returns ErrCartNotFound when nothing is stored for the session.
type CartStore interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// ProductFinder resolves product ids against the current catalog.
type ProductFinder interface {
	Find(id string) (Product, error)
}

// CartService runs cart commands for visitor sessions.
type CartService struct {
	store    CartStore
	products ProductFinder
	links    Links
	now      func() time.Time

	locks sessionLocks
}

// NewCartService creates a cart service.
func NewCartService(store CartStore, products ProductFinder, links Links) *CartService {
	return &CartService{
		store:    store,
		products: products,
		links:    links,
		now:      time.Now,
	}
}

// Get returns the session's cart. Absent or corrupt state yields an empty cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.load(ctx, sessionID)
}

// AddItem adds qty units of a catalog product.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, qty int) (Cart, error) {
	p, err := s.products.Find(productID)
	if err != nil {
		return Cart{}, err
	}
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.Add(p, qty)
	})
}

// Increment adds one unit to a line.
func (s *CartService) Increment(ctx context.Context, sessionID, productID string) (Cart, error) {
	return s.mutate(ctx, sessionID, lineCommand(productID, (*Cart).Increment))
}

// Decrement removes one unit from a line, keeping at least one.
func (s *CartService) Decrement(ctx context.Context, sessionID, productID string) (Cart, error) {
	return s.mutate(ctx, sessionID, lineCommand(productID, (*Cart).Decrement))
}

// Remove deletes a line.
func (s *CartService) Remove(ctx context.Context, sessionID, productID string) (Cart, error) {
	return s.mutate(ctx, sessionID, lineCommand(productID, (*Cart).Remove))
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (Cart, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

// ApplyCoupon sets the cart coupon. An invalid code is saved as "no coupon"
// and ErrInvalidCoupon is returned along with the updated cart.
func (s *CartService) ApplyCoupon(ctx context.Context, sessionID, code string) (Cart, error) {
	var couponErr error
	cart, err := s.mutate(ctx, sessionID, func(c *Cart) error {
		couponErr = c.ApplyCoupon(code)
		return nil
	})
	if err != nil {
		return cart, err
	}
	return cart, couponErr
}

// Checkout builds the wa.me link for the session's cart.
func (s *CartService) Checkout(ctx context.Context, sessionID, customer, note string) (string, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(cart.Lines) == 0 {
		return "", ErrEmptyCart
	}
	return s.links.Order(Order{
		Customer: customer,
		Note:     note,
		Cart:     cart,
		Date:     s.now(),
	}), nil
}

func lineCommand(productID string, op func(*Cart, string) bool) func(*Cart) error {
	return func(c *Cart) error {
		if !op(c, productID) {
			return fmt.Errorf("%w: %q", ErrLineNotFound, productID)
		}
		return nil
	}
}

// mutate runs one load-change-save cycle under the session lock. The cart is
// only saved when fn succeeds.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	if err := fn(&cart); err != nil {
		return cart, err
	}
	if err := s.save(ctx, sessionID, cart); err != nil {
		return cart, err
	}
	return cart, nil
}

func (s *CartService) load(ctx context.Context, sessionID string) (Cart, error) {
	data, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		slog.Warn("discarding corrupt cart state",
			"key", CartKey(sessionID),
			"error", err,
		)
		return Cart{}, nil
	}
	if cart.Sanitize() {
		slog.Debug("cart state sanitized on restore", "key", CartKey(sessionID))
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, sessionID string, cart Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if err := s.store.Save(ctx, sessionID, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// sessionLocks hands out one mutex per session id. Entries are removed when
// their last holder unlocks.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*sessionLock)
	}
	e, ok := l.entries[id]
	if !ok {
		e = &sessionLock{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
