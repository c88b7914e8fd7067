package core

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory CartStore.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	d, ok := m.data[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return d, nil
}

func (m *memStore) Save(ctx context.Context, sessionID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[sessionID] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func newTestCartService(t *testing.T) (*CartService, *memStore) {
	t.Helper()
	sin := filtro()
	sin.ID, sin.Stock = "Z0", 0
	catalog := NewCatalog(nil, CatalogConfig{Fallback: []Product{filtro(), sin}})
	store := newMemStore()
	svc := NewCartService(store, catalog, NewLinks(""))
	svc.now = func() time.Time { return orderDate }
	return svc, store
}

func TestCartService_AddAndPersist(t *testing.T) {
	svc, store := newTestCartService(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "s1", "A1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 1, store.saves)

	cart, err = svc.Increment(ctx, "s1", "A1")
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "3630", got.GrossTotal().String())

	other, err := svc.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines, "sessions are isolated")
}

func TestCartService_Errors(t *testing.T) {
	svc, store := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "nope", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddItem(ctx, "s1", "Z0", 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = svc.Increment(ctx, "s1", "A1")
	assert.ErrorIs(t, err, ErrLineNotFound)

	_, err = svc.Remove(ctx, "s1", "A1")
	assert.ErrorIs(t, err, ErrLineNotFound)

	assert.Equal(t, 0, store.saves, "failed commands are not saved")
}

func TestCartService_DecrementRemoveClear(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "A1", 2)
	require.NoError(t, err)

	cart, err := svc.Decrement(ctx, "s1", "A1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Quantity)

	cart, err = svc.Decrement(ctx, "s1", "A1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Quantity)

	cart, err = svc.Remove(ctx, "s1", "A1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	_, err = svc.AddItem(ctx, "s1", "A1", 1)
	require.NoError(t, err)
	_, err = svc.ApplyCoupon(ctx, "s1", "AMIGOS")
	require.NoError(t, err)

	cart, err = svc.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, "AMIGOS", cart.CouponCode)
}

func TestCartService_InvalidCouponIsPersisted(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.ApplyCoupon(ctx, "s1", "clientevip")
	require.NoError(t, err)

	cart, err := svc.ApplyCoupon(ctx, "s1", "GRATIS")
	assert.ErrorIs(t, err, ErrInvalidCoupon)
	assert.Equal(t, 0, cart.CouponPct)

	stored, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CouponPct)
	assert.Empty(t, stored.CouponCode)
}

func TestCartService_CorruptStateStartsEmpty(t *testing.T) {
	svc, store := newTestCartService(t)
	store.data["s1"] = []byte("{not json")

	cart, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	cart, err = svc.AddItem(context.Background(), "s1", "A1", 1)
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 1)
}

func TestCartService_SanitizesRestoredState(t *testing.T) {
	svc, store := newTestCartService(t)
	store.data["s1"] = []byte(`{"lines":[` +
		`{"id":"A1","name":"Filtro","unitPrice":"1000","taxRate":"0.21","stock":3,"quantity":40},` +
		`{"id":"Z0","name":"Agotado","unitPrice":"1","taxRate":"0.21","stock":0,"quantity":2}` +
		`],"couponCode":"VIEJO","couponPct":80}`)

	cart, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, 0, cart.CouponPct)
}

func TestCartService_StoreFailures(t *testing.T) {
	svc, store := newTestCartService(t)
	ctx := context.Background()

	store.saveErr = errors.New("disk full")
	_, err := svc.AddItem(ctx, "s1", "A1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save cart")
	assert.Equal(t, "UPS001", MapError(err).Code)

	store.saveErr = nil
	store.loadErr = errors.New("connection reset")
	_, err = svc.Get(ctx, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load cart")
}

func TestCartService_Checkout(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, "s1", "Juan", "")
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.AddItem(ctx, "s1", "A1", 3)
	require.NoError(t, err)

	link, err := svc.Checkout(ctx, "s1", "Juan", "")
	require.NoError(t, err)

	prefix := "https://wa.me/" + DefaultWhatsAppPhone + "?text="
	require.True(t, strings.HasPrefix(link, prefix))
	text, err := url.PathUnescape(strings.TrimPrefix(link, prefix))
	require.NoError(t, err)
	assert.Contains(t, text, "Cliente: Juan")
	assert.Contains(t, text, "*Precios vigentes revisados:* 5/3/2026")
	assert.True(t, strings.HasSuffix(text, "Total: $\u00a03.630,00"))
}

func TestCartService_ConcurrentCommands(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", "A1", 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Increment(ctx, "s1", "A1")
		}()
	}
	wg.Wait()

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, 0, svc.locks.size(), "locks are released")
}

func TestSessionIDContext(t *testing.T) {
	ctx := ContextWithSessionID(context.Background(), "abc")
	assert.Equal(t, "abc", SessionIDFromContext(ctx))
	assert.Empty(t, SessionIDFromContext(context.Background()))
}

func TestCartKey(t *testing.T) {
	assert.Equal(t, "carrito-disp:abc", CartKey("abc"))
}
