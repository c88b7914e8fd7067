package core

// normalize.go maps spreadsheet rows and bundled entries onto Product.
//
// Spreadsheet columns are resolved through ordered synonym lists: the first
// synonym with a non-blank value wins. Adding a synonym means appending to
// the relevant list in columnSynonyms, nothing else.

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/JonMunkholm/dispenser/internal/csv"
	"github.com/shopspring/decimal"
)

// Logical product fields resolved from spreadsheet columns.
type productField int

const (
	fieldID productField = iota
	fieldName
	fieldPrice
	fieldStock
	fieldDescription
	fieldCategory
	fieldImages
)

// columnSynonyms lists accepted header names per field, in priority order.
var columnSynonyms = map[productField][]string{
	fieldID:          {"sku", "codigo", "cod", "id"},
	fieldName:        {"name", "nombre", "titulo"},
	fieldPrice:       {"price", "precio"},
	fieldStock:       {"stock", "cantidad", "existencias"},
	fieldDescription: {"description", "descripcion", "detalle"},
	fieldCategory:    {"category", "categoria"},
	fieldImages:      {"images"},
}

var (
	imageColumnPattern = regexp.MustCompile(`(?i)^(images?|image_url|imagen|image|foto)(_?\d+)?$`)
	imageSplitPattern  = regexp.MustCompile(`[;|,]\s*`)
	drivePreviewURL    = regexp.MustCompile(`(?i)drive\.google\.com/file/d/([^/]+)/`)
)

// pick returns the first non-blank value among the synonyms of f.
func pick(rec csv.Record, f productField) string {
	for _, key := range columnSynonyms[f] {
		if v := strings.TrimSpace(rec.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeRow converts a decoded spreadsheet record into a Product.
func NormalizeRow(rec csv.Record) Product {
	return Product{
		ID:          pick(rec, fieldID),
		Name:        orDefault(pick(rec, fieldName), DefaultProductName),
		Category:    orDefault(pick(rec, fieldCategory), DefaultCategory),
		Description: pick(rec, fieldDescription),
		Images:      rowImages(rec),
		UnitPrice:   nonNegativePrice(ParseLocaleNumber(pick(rec, fieldPrice))),
		TaxRate:     DefaultTaxRate,
		Stock:       stockFromFloat(ParseLocaleNumber(pick(rec, fieldStock))),
		Unit:        DefaultUnit,
	}
}

// NormalizeRows converts every record, preserving order.
func NormalizeRows(recs []csv.Record) []Product {
	out := make([]Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, NormalizeRow(rec))
	}
	return out
}

// NormalizeLocal fills defaults on a bundled entry. Images are kept as listed.
func NormalizeLocal(lp LocalProduct) Product {
	tax := DefaultTaxRate
	if lp.IVA != nil && !math.IsNaN(*lp.IVA) && !math.IsInf(*lp.IVA, 0) && *lp.IVA >= 0 {
		tax = decimal.NewFromFloat(*lp.IVA)
	}
	stock := 0
	if lp.Stock != nil && *lp.Stock > 0 {
		stock = *lp.Stock
	}
	images := make([]string, 0, len(lp.Images))
	images = append(images, lp.Images...)

	return Product{
		ID:          lp.SKU,
		Name:        orDefault(strings.TrimSpace(lp.Name), DefaultProductName),
		Category:    orDefault(strings.TrimSpace(lp.Category), DefaultCategory),
		Description: lp.Description,
		Images:      images,
		UnitPrice:   nonNegativePrice(lp.Price),
		TaxRate:     tax,
		Stock:       stock,
		Unit:        orDefault(strings.TrimSpace(lp.Unit), DefaultUnit),
	}
}

// NormalizeLocals converts every bundled entry, preserving order.
func NormalizeLocals(lps []LocalProduct) []Product {
	out := make([]Product, 0, len(lps))
	for _, lp := range lps {
		out = append(out, NormalizeLocal(lp))
	}
	return out
}

// rowImages gathers image URLs from every image-like column in header order
// plus the dedicated "images" list column.
func rowImages(rec csv.Record) []string {
	var parts []string
	for _, key := range rec.Keys() {
		if !imageColumnPattern.MatchString(key) {
			continue
		}
		if v := rec.Get(key); v != "" {
			parts = append(parts, v)
		}
	}
	if v := pick(rec, fieldImages); v != "" {
		parts = append(parts, v)
	}
	return SplitImageList(strings.Join(parts, "|"))
}

// SplitImageList splits a ";", "|" or "," separated list into unique absolute
// http(s) URLs, rewriting Google Drive preview links to direct links.
func SplitImageList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	out := []string{}
	seen := make(map[string]struct{})
	for _, s := range imageSplitPattern.Split(raw, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		s = ConvertDriveURL(s)
		if !isHTTPURL(s) {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ConvertDriveURL rewrites a Google Drive file preview link to its direct
// content link. Other values are returned unchanged.
func ConvertDriveURL(u string) string {
	m := drivePreviewURL.FindStringSubmatch(u)
	if m == nil {
		return u
	}
	return "https://drive.google.com/uc?export=view&id=" + m[1]
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func nonNegativePrice(f float64) decimal.Decimal {
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func stockFromFloat(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Trunc(f))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
