package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default values applied by the product normalizers.
const (
	DefaultProductName = "Producto"
	DefaultCategory    = "General"
	DefaultUnit        = "unidad"
)

// DefaultTaxRate is the VAT applied to every product.
var DefaultTaxRate = decimal.RequireFromString("0.21")

// LowStockThreshold is the stock level at or below which a product is flagged as low.
const LowStockThreshold = 5

// Product is the canonical catalog item. Prices are net of tax.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Stock       int             `json:"stock"`
	Unit        string          `json:"unit"`
}

// GrossUnitPrice returns the tax-inclusive unit price, unrounded.
func (p Product) GrossUnitPrice() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(1).Add(p.TaxRate))
}

// StockLevel classifies stock for display: "none", "low" or "ok".
func (p Product) StockLevel() string {
	switch {
	case p.Stock <= 0:
		return "none"
	case p.Stock <= LowStockThreshold:
		return "low"
	default:
		return "ok"
	}
}

// StockLabel is the Spanish badge text for StockLevel.
func (p Product) StockLabel() string {
	switch p.StockLevel() {
	case "none":
		return "Sin stock"
	case "low":
		return "Bajo stock"
	default:
		return "Disponible"
	}
}

// LocalProduct is a hand-maintained catalog entry bundled with the binary.
type LocalProduct struct {
	SKU         string   `yaml:"sku" json:"sku"`
	Name        string   `yaml:"name" json:"name"`
	Category    string   `yaml:"category" json:"category"`
	Description string   `yaml:"description" json:"description"`
	Images      []string `yaml:"images" json:"images"`
	Price       float64  `yaml:"price" json:"price"`
	IVA         *float64 `yaml:"iva" json:"iva"`
	Stock       *int     `yaml:"stock" json:"stock"`
	Unit        string   `yaml:"unit" json:"unit"`
}

// CartLine is a product snapshot plus a quantity in [1, Stock].
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns the unrounded gross total of the line.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.GrossUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CatalogStatus reports the outcome of the most recent refreshes.
type CatalogStatus struct {
	LastSync  time.Time `json:"lastSync"`
	SyncError string    `json:"syncError,omitempty"`
	Products  int       `json:"products"`
}

// Synced reports whether any remote refresh has ever succeeded.
func (s CatalogStatus) Synced() bool {
	return !s.LastSync.IsZero()
}
