package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/JonMunkholm/dispenser/internal/csv"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Number Parsing Benchmarks
// ============================================================================

// BenchmarkParseLocaleNumber benchmarks the mixed formats seen in the sheet.
// Every price and stock cell of every refresh goes through it.
func BenchmarkParseLocaleNumber(b *testing.B) {
	testCases := []string{
		"1234",
		"12.345,67",  // es-AR
		"1,234.56",   // en-US
		"$ 1.210,00", // currency prefix
		"  99,9  ",   // whitespace
		"",
		"abc",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseLocaleNumber(tc)
		}
	}
}

// BenchmarkParseLocaleNumber_Simple benchmarks the most common case: plain integers.
func BenchmarkParseLocaleNumber_Simple(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseLocaleNumber("12345")
	}
}

// ============================================================================
// CSV Decode + Normalize Benchmarks
// ============================================================================

// BenchmarkDecode benchmarks decoding a typical catalog export.
func BenchmarkDecode(b *testing.B) {
	data := generateTestCSV(200)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		csv.Decode(data)
	}
}

// BenchmarkDecode_Large benchmarks a catalog far larger than the real one.
func BenchmarkDecode_Large(b *testing.B) {
	data := generateTestCSV(10000)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		csv.Decode(data)
	}
}

// BenchmarkNormalizeRows benchmarks turning decoded records into products.
func BenchmarkNormalizeRows(b *testing.B) {
	recs := csv.Decode(generateTestCSV(200))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NormalizeRows(recs)
	}
}

// BenchmarkRefreshPipeline benchmarks the whole decode and normalize path
// of a refresh, reading through the sanitizing reader.
func BenchmarkRefreshPipeline(b *testing.B) {
	data := "\xEF\xBB\xBF" + generateTestCSV(200)
	b.SetBytes(int64(len(data)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		recs, err := csv.DecodeReader(csv.NewReader(strings.NewReader(data), DefaultMaxCatalogBytes))
		if err != nil {
			b.Fatal(err)
		}
		NormalizeRows(recs)
	}
}

// ============================================================================
// Search Benchmarks
// ============================================================================

// BenchmarkFilter benchmarks the search box over a realistic catalog.
func BenchmarkFilter(b *testing.B) {
	products := NormalizeRows(csv.Decode(generateTestCSV(200)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Filter(products, "filtro")
	}
}

// BenchmarkSuggest benchmarks autocomplete, which runs on every keystroke.
func BenchmarkSuggest(b *testing.B) {
	products := NormalizeRows(csv.Decode(generateTestCSV(200)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Suggest(products, "fi")
	}
}

// ============================================================================
// Cart and Message Benchmarks
// ============================================================================

// BenchmarkBuildOrderText benchmarks the checkout message for a full cart.
func BenchmarkBuildOrderText(b *testing.B) {
	var cart Cart
	for i := 0; i < 20; i++ {
		p := Product{
			ID:        fmt.Sprintf("SKU-%02d", i),
			Name:      "Filtro de carbón activado",
			UnitPrice: decimal.NewFromInt(int64(1000 + i)),
			TaxRate:   DefaultTaxRate,
			Stock:     10,
		}
		if err := cart.Add(p, 3); err != nil {
			b.Fatal(err)
		}
	}
	cart.CouponCode, cart.CouponPct = "CLIENTEVIP", 10
	o := Order{Customer: "Juan", Note: "Timbre 2B", Cart: cart, Date: fixedNow()}
	links := NewLinks("")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		links.Order(o)
	}
}

// ============================================================================
// Parallel Benchmarks (concurrent refresh and page load)
// ============================================================================

// BenchmarkParseLocaleNumberParallel benchmarks concurrent number parsing.
func BenchmarkParseLocaleNumberParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			ParseLocaleNumber("12.345,67")
		}
	})
}

// BenchmarkCatalogProductsParallel benchmarks snapshot reads from many
// requests at once.
func BenchmarkCatalogProductsParallel(b *testing.B) {
	c := NewCatalog(nil, CatalogConfig{Fallback: NormalizeRows(csv.Decode(generateTestCSV(200)))})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Products()
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestCSV generates a catalog export with the specified number of rows.
func generateTestCSV(rows int) string {
	var b strings.Builder
	b.WriteString("SKU,Nombre,Categoría,Descripción,Precio,IVA,Stock,Imagenes\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "FLT-%04d,Filtro de carbón %d,Filtros,\"Repuesto anual, compatible Ushuaia\",\"18.500,00\",21,%d,https://drive.google.com/file/d/abc%d/view\n",
			i, i, i%30, i)
	}
	return b.String()
}
