package core

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/fallback_products.yaml
var fallbackYAML []byte

var bundledLocals = sync.OnceValues(func() ([]LocalProduct, error) {
	return ParseLocalProducts(fallbackYAML)
})

// ParseLocalProducts decodes a YAML list of bundled catalog entries.
func ParseLocalProducts(data []byte) ([]LocalProduct, error) {
	var out []LocalProduct
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse fallback catalog: %w", err)
	}
	return out, nil
}

// FallbackProducts returns the normalized bundled catalog.
// Each call returns a fresh slice the caller may keep.
func FallbackProducts() []Product {
	locals, err := bundledLocals()
	if err != nil {
		// The file is embedded at build time; a parse error is a programming error.
		panic(err)
	}
	return NormalizeLocals(locals)
}
