package core

import (
	"net/url"
	"strings"
)

// DefaultWhatsAppPhone receives orders and contact messages. Digits only.
const DefaultWhatsAppPhone = "5491166082608"

// Fixed chat openers.
const (
	ContactText  = "Hola, vengo de la web (servicio técnico)."
	AskPriceText = "Hola, quiero precio de: "
)

// uriComponentUnescape lists characters encodeURIComponent leaves alone that
// url.QueryEscape escapes.
var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s like the browser function of the same
// name: everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped, and
// spaces become %20.
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}

// Links builds wa.me deep links for a destination phone.
type Links struct {
	phone string
}

// NewLinks returns a link builder. An empty phone uses DefaultWhatsAppPhone.
// Non-digit characters are dropped.
func NewLinks(phone string) Links {
	phone = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if phone == "" {
		phone = DefaultWhatsAppPhone
	}
	return Links{phone: phone}
}

// Phone returns the destination phone number.
func (l Links) Phone() string {
	return l.phone
}

// Text returns a deep link that opens a chat prefilled with text.
func (l Links) Text(text string) string {
	return "https://wa.me/" + l.phone + "?text=" + EncodeURIComponent(text)
}

// Contact returns the generic technical-service link.
func (l Links) Contact() string {
	return l.Text(ContactText)
}

// AskPrice returns a link asking for the price of a product.
func (l Links) AskPrice(name string) string {
	return l.Text(AskPriceText + name)
}

// Order returns the checkout link for an order.
func (l Links) Order(o Order) string {
	return l.Text(BuildOrderText(o))
}

// ContactForm returns the link for a submitted contact form.
func (l Links) ContactForm(f ContactForm) string {
	return l.Text(BuildContactText(f))
}
