package core

// catalog.go holds the product snapshot shown to every visitor.
//
// The snapshot starts as the bundled fallback and is replaced wholesale by
// each refresh: with the spreadsheet contents on success, with the fallback
// again on any failure. Refreshes may overlap (periodic tick plus a manual
// trigger); each one takes a sequence number when it starts and a result is
// dropped if a newer refresh has already been applied.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/dispenser/internal/csv"
)

// SyncAdvisory is shown to visitors while the catalog is serving fallback data.
const SyncAdvisory = "No se pudo revisar precios en Sheets. Usando datos locales."

// DefaultMaxCatalogBytes caps the spreadsheet body when no limit is configured.
const DefaultMaxCatalogBytes int64 = 10 << 20

var (
	ErrEmptyCatalog    = errors.New("catalog source returned no products")
	ErrStaleRefresh    = errors.New("stale catalog refresh discarded")
	ErrNoSource        = errors.New("no catalog source configured")
	ErrProductNotFound = errors.New("product not found")
)

// Source fetches the raw CSV text of the remote catalog.
// Implementations are expected to bypass intermediate caches on every call.
type Source interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// CatalogConfig configures a Catalog. Zero values pick defaults.
type CatalogConfig struct {
	MaxBytes int64            // Body size cap (default: DefaultMaxCatalogBytes)
	Fallback []Product        // Snapshot used when the source fails (default: FallbackProducts())
	Now      func() time.Time // Clock for LastSync (default: time.Now)
	Limiter  *RefreshLimiter  // Bounds parallel fetches (default: NewRefreshLimiter(0, 0))
}

// Catalog owns the current product snapshot.
type Catalog struct {
	source   Source
	fallback []Product
	maxBytes int64
	now      func() time.Time
	limiter  *RefreshLimiter

	seq atomic.Uint64

	mu        sync.RWMutex
	products  []Product
	lastSync  time.Time
	syncError string
	applied   uint64
}

// NewCatalog creates a catalog initialized from the fallback snapshot.
func NewCatalog(source Source, cfg CatalogConfig) *Catalog {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxCatalogBytes
	}
	if cfg.Fallback == nil {
		cfg.Fallback = FallbackProducts()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Limiter == nil {
		cfg.Limiter = NewRefreshLimiter(0, 0)
	}
	return &Catalog{
		source:   source,
		fallback: cfg.Fallback,
		maxBytes: cfg.MaxBytes,
		now:      cfg.Now,
		limiter:  cfg.Limiter,
		products: cloneProducts(cfg.Fallback),
	}
}

// Products returns the current snapshot.
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProducts(c.products)
}

// Find returns the product with the given id from the current snapshot.
func (c *Catalog) Find(id string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, id)
}

// Status reports the last successful sync time and any advisory.
func (c *Catalog) Status() CatalogStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CatalogStatus{
		LastSync:  c.lastSync,
		SyncError: c.syncError,
		Products:  len(c.products),
	}
}

// Refresh fetches, decodes and normalizes the remote catalog.
//
// On success with at least one product the snapshot is replaced and LastSync
// recorded. On any failure the snapshot reverts to the fallback, the
// advisory is set and LastSync is left unchanged; the cause is returned.
// ErrStaleRefresh is returned when a newer refresh finished first, and
// ErrRefreshBusy, with the snapshot untouched, when no fetch slot frees up.
func (c *Catalog) Refresh(ctx context.Context) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return err
	}
	defer c.limiter.Release()

	seq := c.seq.Add(1)
	start := time.Now()

	products, fetchErr := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.applied {
		slog.Debug("catalog refresh discarded", "seq", seq, "applied", c.applied)
		return ErrStaleRefresh
	}
	c.applied = seq

	if fetchErr != nil {
		c.products = cloneProducts(c.fallback)
		c.syncError = SyncAdvisory
		slog.Warn("catalog refresh failed, using fallback",
			"error", fetchErr,
			"fallback_products", len(c.fallback),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fetchErr
	}

	c.products = products
	c.lastSync = c.now()
	c.syncError = ""
	slog.Info("catalog refreshed",
		"products", len(products),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (c *Catalog) load(ctx context.Context) ([]Product, error) {
	if c.source == nil {
		return nil, ErrNoSource
	}

	body, err := c.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer body.Close()

	recs, err := csv.DecodeReader(csv.NewReader(body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := NormalizeRows(recs)
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	return products, nil
}

// WaitForRefreshes blocks until in-flight refreshes finish or ctx is done.
func (c *Catalog) WaitForRefreshes(ctx context.Context) error {
	return c.limiter.WaitForDrain(ctx)
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	copy(out, in)
	return out
}
