package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchProducts() []Product {
	return []Product{
		{ID: "A1", Name: "Filtro de carbón", Description: "Repuesto anual"},
		{ID: "B2", Name: "Bidón", Description: "20 litros, compatible Ushuaia"},
		{ID: "FIL-9", Name: "Canilla", Description: "Azul"},
		{ID: "C3", Name: "Dispenser a red", Description: "Incluye filtro"},
	}
}

func ids(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		q    string
		want []string
	}{
		{name: "empty matches all", q: "", want: []string{"A1", "B2", "FIL-9", "C3"}},
		{name: "blank matches all", q: "   ", want: []string{"A1", "B2", "FIL-9", "C3"}},
		{name: "name substring any case", q: "FILTRO", want: []string{"A1", "C3"}},
		{name: "id substring", q: "b2", want: []string{"B2"}},
		{name: "description", q: "ushuaia", want: []string{"B2"}},
		{name: "accented", q: "bidón", want: []string{"B2"}},
		{name: "no match", q: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(searchProducts(), tt.q)))
		})
	}
}

func TestSuggest_Ranking(t *testing.T) {
	got := Suggest(searchProducts(), "fil")
	// FIL-9 id prefix (3), Filtro name prefix (2), Dispenser description (1).
	assert.Equal(t, []string{"FIL-9", "A1", "C3"}, ids(got))
}

func TestSuggest_Scenario(t *testing.T) {
	products := []Product{
		{ID: "A1", Name: "Filtro de carbón"},
		{ID: "B2", Name: "Bidón"},
	}
	got := Suggest(products, "fil")
	require.Len(t, got, 1)
	assert.Equal(t, "Filtro de carbón", got[0].Name)
}

func TestSuggest_ShortQuery(t *testing.T) {
	assert.Nil(t, Suggest(searchProducts(), "f"))
	assert.Nil(t, Suggest(searchProducts(), "  f  "))
	assert.Nil(t, Suggest(searchProducts(), ""))
}

func TestSuggest_StableAndCapped(t *testing.T) {
	var products []Product
	for i := 0; i < 12; i++ {
		products = append(products, Product{ID: fmt.Sprintf("P%02d", i), Name: "Dispenser"})
	}
	products = append(products, Product{ID: "DI-1", Name: "Otro"})

	got := Suggest(products, "di")
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "DI-1", got[0].ID)
	for i := 1; i < MaxSuggestions; i++ {
		assert.Equal(t, fmt.Sprintf("P%02d", i-1), got[i].ID)
	}
}

func TestFilterByTag(t *testing.T) {
	got, err := FilterByTag(searchProducts(), "Ushuaia")
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, ids(got))

	got, err = FilterByTag(searchProducts(), "red")
	require.NoError(t, err)
	assert.Equal(t, []string{"C3"}, ids(got))

	all, err := FilterByTag(searchProducts(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = FilterByTag(searchProducts(), "acme")
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestDetectTags(t *testing.T) {
	p := Product{Name: "Válvula Non-Spill", Description: "para bidón Bacope"}
	assert.Equal(t, []string{"bacope", "non-spill", "bidón"}, DetectTags(p))
}
