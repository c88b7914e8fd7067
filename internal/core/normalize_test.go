package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dispenser/internal/csv"
)

func TestNormalizeRow_Synonyms(t *testing.T) {
	recs := csv.Decode("codigo,titulo,precio,existencias,detalle,categoria\n" +
		"A1,Filtro,\"1.000,50\",3,Carbón activado,Filtros\n")
	require.Len(t, recs, 1)

	p := NormalizeRow(recs[0])
	assert.Equal(t, "A1", p.ID)
	assert.Equal(t, "Filtro", p.Name)
	assert.Equal(t, "1000.5", p.UnitPrice.String())
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, "Carbón activado", p.Description)
	assert.Equal(t, "Filtros", p.Category)
	assert.Equal(t, "unidad", p.Unit)
	assert.True(t, p.TaxRate.Equal(DefaultTaxRate))
}

func TestNormalizeRow_SynonymPriority(t *testing.T) {
	// sku wins over id, and a blank higher-priority column falls through.
	rec := csv.NewRecord("id", "ID-9", "sku", "SKU-1", "name", "", "nombre", "Bidón")
	p := NormalizeRow(rec)
	assert.Equal(t, "SKU-1", p.ID)
	assert.Equal(t, "Bidón", p.Name)
}

func TestNormalizeRow_Defaults(t *testing.T) {
	p := NormalizeRow(csv.NewRecord("precio", "abc", "stock", "-4"))
	assert.Equal(t, "", p.ID)
	assert.Equal(t, DefaultProductName, p.Name)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.Equal(t, DefaultUnit, p.Unit)
	assert.True(t, p.UnitPrice.IsZero())
	assert.Equal(t, 0, p.Stock)
	assert.Empty(t, p.Images)
}

func TestNormalizeRow_StockTruncated(t *testing.T) {
	p := NormalizeRow(csv.NewRecord("stock", "7,9", "precio", "-10"))
	assert.Equal(t, 7, p.Stock)
	assert.True(t, p.UnitPrice.IsZero())
}

func TestNormalizeRow_Images(t *testing.T) {
	rec := csv.NewRecord(
		"sku", "A1",
		"image", "https://a.example/1.jpg",
		"image_2", "https://drive.google.com/file/d/abc123/view?usp=sharing",
		"foto3", "ftp://nope.example/x.jpg",
		"images", "https://a.example/1.jpg; https://b.example/2.png|not a url",
		"imagenes", "https://ignored.example/x.jpg",
	)
	p := NormalizeRow(rec)
	assert.Equal(t, []string{
		"https://a.example/1.jpg",
		"https://drive.google.com/uc?export=view&id=abc123",
		"https://b.example/2.png",
	}, p.Images)
}

func TestSplitImageList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "comma with space", in: "http://a.example/x, https://b.example/y", want: []string{"http://a.example/x", "https://b.example/y"}},
		{name: "pipe and semicolon", in: "https://a.example/x|https://b.example/y;https://c.example/z", want: []string{"https://a.example/x", "https://b.example/y", "https://c.example/z"}},
		{name: "relative dropped", in: "/img/x.png;https://a.example/x", want: []string{"https://a.example/x"}},
		{name: "upper scheme kept", in: "HTTPS://A.example/x", want: []string{"HTTPS://A.example/x"}},
		{name: "duplicates removed", in: "https://a.example/x;https://a.example/x", want: []string{"https://a.example/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitImageList(tt.in))
		})
	}
}

func TestConvertDriveURL(t *testing.T) {
	assert.Equal(t,
		"https://drive.google.com/uc?export=view&id=XYZ",
		ConvertDriveURL("https://drive.google.com/file/d/XYZ/view"))
	assert.Equal(t, "https://a.example/x", ConvertDriveURL("https://a.example/x"))
}

func TestNormalizeLocal(t *testing.T) {
	iva := 0.105
	stock := 4
	p := NormalizeLocal(LocalProduct{
		SKU:    "L1",
		Name:   "Dispenser",
		Images: []string{"/local/img.png"},
		Price:  1000,
		IVA:    &iva,
		Stock:  &stock,
	})
	assert.Equal(t, "L1", p.ID)
	assert.Equal(t, "Dispenser", p.Name)
	assert.Equal(t, DefaultCategory, p.Category)
	assert.Equal(t, []string{"/local/img.png"}, p.Images)
	assert.Equal(t, "0.105", p.TaxRate.String())
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, DefaultUnit, p.Unit)

	d := NormalizeLocal(LocalProduct{SKU: "L2"})
	assert.Equal(t, DefaultProductName, d.Name)
	assert.True(t, d.TaxRate.Equal(DefaultTaxRate))
	assert.Equal(t, 0, d.Stock)
	assert.NotNil(t, d.Images)
}

func TestNormalizeRow_Pure(t *testing.T) {
	rec := csv.NewRecord("sku", "A1", "images", "https://a.example/x")
	assert.Equal(t, NormalizeRow(rec), NormalizeRow(rec))
}
