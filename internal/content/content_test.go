package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Bundled(t *testing.T) {
	site, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Dispenser La Tienda", site.Brand.Name)
	assert.Equal(t, "+54 11 6608-2608", site.Brand.Phone)
	assert.Equal(t, "CABA y GBA", site.Brand.Coverage)
	assert.Len(t, site.Services.Items, 4)
	assert.Len(t, site.Process.Items, 3)
	assert.Len(t, site.Equipment.Items, 4)
	require.NotEmpty(t, site.FAQ.Items)

	calculators := 0
	for _, f := range site.FAQ.Items {
		assert.NotEmpty(t, f.Question)
		assert.NotEmpty(t, f.AnswerHTML, f.Question)
		assert.NotEmpty(t, f.CTA, f.Question)
		if f.Calculator {
			calculators++
		}
	}
	assert.Equal(t, 1, calculators, "exactly one answer embeds the savings calculator")

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, site, again)
}

func TestLoad_MarkdownRendered(t *testing.T) {
	site, err := Load()
	require.NoError(t, err)

	first := site.FAQ.Items[0].AnswerHTML
	assert.Contains(t, first, "<strong>filtro de carbón activado saturado</strong>")
	assert.Contains(t, first, "<p>")

	var list string
	for _, f := range site.FAQ.Items {
		if strings.Contains(f.AnswerHTML, "<ul>") {
			list = f.AnswerHTML
			break
		}
	}
	assert.Contains(t, list, "<li>", "bullet lists are rendered")
}

func TestRenderMarkdown_Sanitizes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name:    "script removed",
			in:      "hola <script>alert(1)</script> **mundo**",
			want:    []string{"<strong>mundo</strong>"},
			notWant: []string{"<script", "</script"},
		},
		{
			name:    "event handlers removed",
			in:      "foto <img src=x onerror=alert(1)> **ok**",
			want:    []string{"<strong>ok</strong>"},
			notWant: []string{"<img", `onerror="`},
		},
		{
			name:    "links get nofollow",
			in:      "[web](https://example.com)",
			want:    []string{`href="https://example.com"`, `rel="nofollow noopener"`, `target="_blank"`},
			notWant: nil,
		},
		{
			name:    "javascript links dropped",
			in:      "[x](javascript:alert(1))",
			notWant: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderMarkdown(tt.in)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, got, nw)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("brand: [unclosed"))
	assert.Error(t, err)

	_, err = Parse([]byte("brand:\n  slogan: sin nombre\n"))
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Filtro nuevo", PlainText("<b>Filtro</b> nuevo"))
	assert.Equal(t, "", PlainText("<script>x()</script>"))
	assert.Equal(t, "A &amp; B", PlainText("A & B"))
}
