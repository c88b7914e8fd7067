package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CATALOG_CSV_URL", "")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogList_Bundled(t *testing.T) {
	out, err := run(t, "catalog", "list", "--query", "filtro")
	require.NoError(t, err)
	assert.Contains(t, out, "SKU")
	assert.Contains(t, out, "FLT-CARB-01")
	assert.Contains(t, out, "$\u00a022.385,00")
}

func TestCatalogList_UnknownTag(t *testing.T) {
	_, err := run(t, "catalog", "list", "--tag", "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tag")
}

func TestCatalogList_JSON(t *testing.T) {
	out, err := run(t, "catalog", "list", "--tag", "ushuaia", "--json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))
	assert.Contains(t, out, `"id": "DSP-BID-01"`)
}

func TestCatalogFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("sku,nombre,precio,stock\nA1,Filtro,1000,3\nB2,Bidón,500,1\n"))
	}))
	defer ts.Close()

	out, err := run(t, "catalog", "fetch", "--url", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "2 productos")

	_, err = run(t, "catalog", "fetch")
	assert.Error(t, err, "url required")
}

func TestCatalogFetch_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	_, err := run(t, "catalog", "fetch", "--url", ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch catalog")
}

func TestQuote(t *testing.T) {
	out, err := run(t, "quote", "--item", "FLT-CARB-01=2", "--coupon", "amigos", "--customer", "Juan")
	require.NoError(t, err)

	assert.Contains(t, out, "Cliente: Juan")
	assert.Contains(t, out, "1. Filtro de carbón activado (SKU FLT-CARB-01) x2 — $\u00a022.385,00 c/u — Subtotal $\u00a044.770,00")
	assert.Contains(t, out, "Descuento: 5% ($\u00a02.238,50) — Cupón: *AMIGOS*")
	assert.Contains(t, out, "Total: $\u00a042.531,50")
	assert.Contains(t, out, "https://wa.me/5491166082608?text=")
}

func TestQuote_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no items", args: []string{"quote"}, want: "--item"},
		{name: "bad quantity", args: []string{"quote", "--item", "FLT-CARB-01=dos"}, want: "quantity"},
		{name: "unknown sku", args: []string{"quote", "--item", "NOPE"}, want: "product not found"},
		{name: "bad coupon", args: []string{"quote", "--item", "FLT-CARB-01", "--coupon", "GRATIS"}, want: "Cupón inválido"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestQuote_LinkOnly(t *testing.T) {
	out, err := run(t, "quote", "-i", "FLT-CARB-01", "--phone", "+54 9 11 1234-5678", "--link-only")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "https://wa.me/5491112345678?text="))
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestSavings(t *testing.T) {
	out, err := run(t, "savings")
	require.NoError(t, err)
	assert.Contains(t, out, "$\u00a0360.000")
	assert.Regexp(t, `Recupero del kit \(meses\)\s+7`, out)

	out, err = run(t, "savings", "--bottles", "1", "--bottle-price", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "sin recuperación")
}

func TestCarts_FileStore(t *testing.T) {
	t.Setenv("CART_STORE", "file")
	t.Setenv("CART_DIR", t.TempDir())
	t.Setenv("API_KEYS", "k")

	out, err := run(t, "carts", "ping")
	require.NoError(t, err)
	assert.Equal(t, "file store ok\n", out)

	out, err = run(t, "carts", "sweep", "--ttl", "1h")
	require.NoError(t, err)
	assert.Equal(t, "0 carritos eliminados\n", out)
}
