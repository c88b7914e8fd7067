package views

import (
	"context"
	"io"

	"github.com/JonMunkholm/dispenser/internal/content"
	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/a-h/templ"
)

// LandingData is everything the landing page shows.
type LandingData struct {
	Site    *content.Site
	Links   core.Links
	Savings core.SavingsInput
	Result  core.SavingsResult
}

// LandingPage renders the informational site.
func LandingPage(d LandingData) templ.Component {
	site := d.Site
	return Layout(site.Brand.Name, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		contact := safeURL(d.Links.Contact())

		h.open("header", "class", "hero")
		h.elem("p", site.Hero.Kicker, "class", "kicker")
		h.elem("h1", site.Hero.Title)
		h.elem("p", site.Brand.Slogan, "class", "slogan")
		h.raw("<ul>")
		for _, hl := range site.Hero.Highlights {
			h.elem("li", hl)
		}
		h.raw("</ul>")
		h.elem("a", "Escribinos por WhatsApp", "class", "cta", "href", contact, "rel", "noopener", "target", "_blank")
		h.close("header")

		cards(h, "servicios", site.Services)
		cards(h, "proceso", site.Process)

		h.open("section", "id", "equipos")
		h.elem("h2", site.Equipment.Title)
		h.elem("p", site.Equipment.Subtitle)
		for _, e := range site.Equipment.Items {
			h.open("article", "class", "equipment", "data-id", e.ID)
			if e.Image != "" {
				h.open("img", "src", safeURL(e.Image), "alt", e.Name, "loading", "lazy")
			}
			h.elem("h3", e.Name)
			h.elem("p", e.Description)
			h.elem("a", "Consultar precio", "class", "ask-price", "href", safeURL(d.Links.AskPrice(e.Name)), "rel", "noopener", "target", "_blank")
			h.close("article")
		}
		h.close("section")

		h.open("section", "id", "faq")
		h.elem("h2", site.FAQ.Title)
		h.elem("p", site.FAQ.Subtitle)
		for _, f := range site.FAQ.Items {
			h.open("details", "class", "faq")
			h.elem("summary", f.Question)
			h.open("div", "class", "answer")
			h.component(templ.Raw(f.AnswerHTML))
			h.close("div")
			if f.Calculator {
				h.component(SavingsCalculator(d.Savings, d.Result))
			}
			if f.CTA != "" {
				h.elem("a", f.CTA, "class", "cta", "href", contact, "rel", "noopener", "target", "_blank")
			}
			h.close("details")
		}
		h.close("section")

		h.component(contactForm(site))

		h.open("footer")
		h.elem("p", site.Brand.Name+" · "+site.Brand.Coverage+" · "+site.Brand.Hours)
		h.elem("a", site.Brand.Phone, "href", contact)
		h.raw(" ")
		h.elem("a", site.Brand.Email, "href", "mailto:"+site.Brand.Email)
		h.close("footer")
		return h.err
	}))
}

func cards(h *html, id string, s content.CardSection) {
	h.open("section", "id", id)
	h.elem("h2", s.Title)
	if s.Subtitle != "" {
		h.elem("p", s.Subtitle)
	}
	for _, c := range s.Items {
		h.open("article", "class", "card")
		h.elem("h3", c.Title)
		h.elem("p", c.Text)
		h.close("article")
	}
	h.close("section")
}

// SavingsCalculator renders the calculator form and its result.
func SavingsCalculator(in core.SavingsInput, r core.SavingsResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.open("form", "id", "calculadora", "method", "get", "action", "/sitio#calculadora", "class", "calculator")
		numberField(h, "botella", "Precio del bidón", in.BottlePrice.String())
		numberField(h, "bidones", "Bidones por mes", in.BottlesPerMonth.String())
		numberField(h, "kit", "Kit de adaptación", in.KitPrice.String())
		numberField(h, "mantenimiento", "Mantenimiento anual", in.Maintenance.String())
		h.raw(`<button type="submit">Calcular</button>`)
		h.close("form")

		h.open("dl", "class", "savings")
		row := func(label, class, value string) {
			h.elem("dt", label)
			h.elem("dd", value, "class", class)
		}
		row("Gasto anual en bidones", "annual", core.FormatARSWhole(r.AnnualBottleCost))
		row("Primer año con red", "first-year", core.FormatARSWhole(r.FirstYearCost))
		row("Años siguientes", "following", core.FormatARSWhole(r.FollowingYears))
		row("Ahorro primer año", "first-savings", core.FormatARSWhole(r.FirstYearSavings))
		row("Ahorro anual luego", "yearly-savings", core.FormatARSWhole(r.YearlySavings))
		payback := r.PaybackLabel()
		if r.HasPayback {
			payback += " meses"
		}
		row("Recuperás el kit en", "payback", payback)
		h.close("dl")
		return h.err
	})
}

func numberField(h *html, name, label, value string) {
	h.open("label", "for", name)
	h.text(label)
	h.close("label")
	h.open("input", "type", "number", "id", name, "name", name, "value", value, "min", "0", "step", "any")
}

func contactForm(site *content.Site) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.open("section", "id", "contacto")
		h.elem("h2", site.Contact.Title)
		h.elem("p", site.Contact.Subtitle)
		h.open("form", "method", "post", "action", "/contacto", "target", "_blank")
		for _, f := range [][2]string{
			{"nombre", "Nombre"},
			{"institucion", "Institución"},
			{"ciudad", "Ciudad"},
		} {
			h.open("label", "for", f[0])
			h.text(f[1])
			h.close("label")
			h.open("input", "type", "text", "id", f[0], "name", f[0])
		}
		h.raw(`<label for="mensaje">Mensaje</label><textarea id="mensaje" name="mensaje" rows="4"></textarea>`)
		h.raw(`<button type="submit">Enviar por WhatsApp</button>`)
		h.close("form")
		h.close("section")
		return h.err
	})
}
