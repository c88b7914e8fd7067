package views

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/dispenser/internal/content"
	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/a-h/templ"
)

// CatalogData is everything the catalog page shows.
type CatalogData struct {
	Title    string
	Subtitle string
	Query    string
	Products []core.Product
	Status   core.CatalogStatus
	Cart     core.Cart
	Links    core.Links
}

// CatalogPage renders the product grid with the visitor's cart.
func CatalogPage(d CatalogData) templ.Component {
	title := d.Title
	if title == "" {
		title = "Catálogo"
	}
	return Layout(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.open("main", "id", "catalogo")
		h.elem("h1", title)
		if d.Subtitle != "" {
			h.elem("p", d.Subtitle, "class", "lead")
		}

		if d.Status.SyncError != "" {
			h.elem("p", d.Status.SyncError, "class", "advisory", "role", "status")
		}
		if d.Status.Synced() {
			h.elem("p", "Precios vigentes revisados: "+core.FormatDate(d.Status.LastSync), "class", "last-sync")
		}

		h.open("form", "method", "get", "action", "/", "role", "search")
		h.raw(`<label for="q">Buscar</label>`)
		h.open("input", "type", "search", "id", "q", "name", "q", "value", d.Query, "autocomplete", "off")
		h.raw(`<button type="submit">Buscar</button></form>`)

		h.component(CartSummary(d.Cart))

		h.open("section", "class", "products")
		if len(d.Products) == 0 {
			h.elem("p", "No encontramos productos para tu búsqueda.", "class", "empty")
		}
		for _, p := range d.Products {
			h.component(productCard(p, d.Links))
		}
		h.close("section")
		h.close("main")
		return h.err
	}))
}

func productCard(p core.Product, links core.Links) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.open("article", "class", "product", "data-id", p.ID, "data-stock", p.StockLevel())
		if len(p.Images) > 0 {
			h.open("img", "src", safeURL(p.Images[0]), "alt", p.Name, "loading", "lazy")
		}
		h.elem("h2", p.Name)
		if p.ID != "" {
			h.elem("p", "SKU "+p.ID, "class", "sku")
		}
		h.elem("p", p.Category, "class", "category")
		if desc := content.PlainText(p.Description); desc != "" {
			h.elem("p", desc, "class", "description")
		}
		h.elem("p", core.FormatARS(p.GrossUnitPrice()), "class", "price")
		h.elem("span", p.StockLabel(), "class", "stock stock-"+p.StockLevel())

		if p.Stock > 0 && p.ID != "" {
			h.open("form", "method", "post", "action", "/api/cart/items", "class", "add")
			h.open("input", "type", "hidden", "name", "product_id", "value", p.ID)
			h.open("input", "type", "number", "name", "quantity", "value", "1", "min", "1", "max", strconv.Itoa(p.Stock))
			h.raw(`<button type="submit">Agregar</button></form>`)
		}
		h.elem("a", "Consultar precio", "class", "ask-price", "href", safeURL(links.AskPrice(p.Name)), "rel", "noopener", "target", "_blank")
		h.close("article")
		return h.err
	})
}

// CartSummary renders cart lines, coupon form and checkout form.
func CartSummary(c core.Cart) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		tot := c.Totals()

		h.open("aside", "id", "carrito", "class", "cart")
		h.elem("h2", "Carrito ("+strconv.Itoa(tot.Units)+")")
		if len(c.Lines) == 0 {
			h.elem("p", "Tu carrito está vacío.", "class", "empty")
			h.close("aside")
			return h.err
		}

		h.raw("<ul>")
		for _, l := range c.Lines {
			base := "/api/cart/items/" + l.ID
			h.open("li", "data-id", l.ID)
			h.elem("span", l.Name, "class", "name")
			h.elem("span", "x"+strconv.Itoa(l.Quantity), "class", "qty")
			h.elem("span", core.FormatARS(l.LineTotal()), "class", "line-total")
			actionButton(h, base+"/decrement", "−", "Quitar uno")
			actionButton(h, base+"/increment", "+", "Agregar uno")
			actionButton(h, base+"/delete", "Eliminar", "Eliminar del carrito")
			h.close("li")
		}
		h.raw("</ul>")

		h.open("dl", "class", "totals")
		h.elem("dt", "Subtotal")
		h.elem("dd", core.FormatARS(tot.Gross), "class", "gross")
		if tot.DiscountPct > 0 {
			h.elem("dt", "Descuento "+strconv.Itoa(tot.DiscountPct)+"%")
			h.elem("dd", "−"+core.FormatARS(tot.Discount), "class", "discount")
		}
		h.elem("dt", "Total")
		h.elem("dd", core.FormatARS(tot.Net), "class", "net")
		h.close("dl")
		h.elem("p", "Precio final (IVA incluido)", "class", "tax-note")

		h.open("form", "method", "post", "action", "/api/cart/coupon", "class", "coupon")
		h.open("input", "type", "text", "name", "code", "value", c.CouponCode, "placeholder", "Cupón")
		h.raw(`<button type="submit">Aplicar</button></form>`)

		h.open("form", "method", "get", "action", "/checkout", "class", "checkout", "target", "_blank")
		h.raw(`<input type="text" name="nombre" placeholder="Tu nombre">`)
		h.raw(`<input type="text" name="nota" placeholder="Nota (opcional)">`)
		h.raw(`<button type="submit">Enviar pedido por WhatsApp</button></form>`)

		actionButton(h, "/api/cart/clear", "Vaciar carrito", "Vaciar carrito")
		h.close("aside")
		return h.err
	})
}

func actionButton(h *html, action, label, title string) {
	h.open("form", "method", "post", "action", action, "class", "inline")
	h.elem("button", label, "type", "submit", "title", title)
	h.close("form")
}
