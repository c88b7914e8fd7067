// Package views renders the storefront pages as templ components.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// html writes markup to w and keeps the first write error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped for element content.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// open writes a start tag. attrs alternate name and value; values are escaped.
func (h *html) open(tag string, attrs ...string) {
	h.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		h.raw(" " + attrs[i] + `="` + templ.EscapeString(attrs[i+1]) + `"`)
	}
	h.raw(">")
}

func (h *html) close(tag string) {
	h.raw("</" + tag + ">")
}

// elem writes a complete element with escaped text content.
func (h *html) elem(tag, text string, attrs ...string) {
	h.open(tag, attrs...)
	h.text(text)
	h.close(tag)
}

func (h *html) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// safeURL drops URLs with schemes templ does not consider safe.
func safeURL(u string) string {
	return string(templ.URL(u))
}

// Layout wraps body in the shared document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw("<!DOCTYPE html>")
		h.open("html", "lang", "es-AR")
		h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.elem("title", title)
		h.raw("</head>")
		h.raw("<body>")
		h.open("nav")
		h.elem("a", "Catálogo", "href", "/")
		h.raw(" ")
		h.elem("a", "Servicio técnico", "href", "/sitio")
		h.close("nav")
		h.component(body)
		h.raw("</body></html>")
		return h.err
	})
}
