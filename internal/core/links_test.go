package core

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "hola mundo", want: "hola%20mundo"},
		{in: "a+b/c?d=e&f", want: "a%2Bb%2Fc%3Fd%3De%26f"},
		{in: "-_.!~*'()", want: "-_.!~*'()"},
		{in: "ñandú", want: "%C3%B1and%C3%BA"},
		{in: "línea\nnueva", want: "l%C3%ADnea%0Anueva"},
		{in: "*negrita*", want: "*negrita*"},
		{in: "100%", want: "100%25"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeURIComponent(tt.in))
		})
	}
}

func TestEncodeURIComponent_RoundTrip(t *testing.T) {
	text := BuildOrderText(Order{Customer: "José (oficina)", Note: "50% antes!", Cart: Cart{}, Date: orderDate})
	back, err := url.PathUnescape(EncodeURIComponent(text))
	require.NoError(t, err)
	assert.Equal(t, text, back)
}

func TestNewLinks(t *testing.T) {
	assert.Equal(t, DefaultWhatsAppPhone, NewLinks("").Phone())
	assert.Equal(t, "5491100000000", NewLinks("+54 9 11 0000-0000").Phone())
}

func TestLinks(t *testing.T) {
	l := NewLinks("")

	assert.Equal(t,
		"https://wa.me/5491166082608?text=Hola%2C%20vengo%20de%20la%20web%20(servicio%20t%C3%A9cnico).",
		l.Contact())
	assert.Equal(t,
		"https://wa.me/5491166082608?text=Hola%2C%20quiero%20precio%20de%3A%20Bid%C3%B3n",
		l.AskPrice("Bidón"))

	order := Order{Customer: "Juan", Cart: filtroCart(t), Date: orderDate}
	link := l.Order(order)
	require.True(t, strings.HasPrefix(link, "https://wa.me/5491166082608?text="))
	text, err := url.PathUnescape(strings.TrimPrefix(link, "https://wa.me/5491166082608?text="))
	require.NoError(t, err)
	assert.Equal(t, BuildOrderText(order), text)
	assert.Contains(t, link, "Total%3A%20%24%C2%A03.630%2C00", "peso sign keeps its no-break space")
}

func TestBuildContactText(t *testing.T) {
	got := BuildContactText(ContactForm{Name: " Laura ", Institution: "Escuela 12", Message: "Necesito un presupuesto"})
	assert.Equal(t,
		"Consulta desde la web:\n\nNombre: Laura\nInstitución: Escuela 12\nCiudad: \nMensaje: Necesito un presupuesto",
		got)

	link := NewLinks("").ContactForm(ContactForm{Name: "Laura"})
	assert.Contains(t, link, "Nombre%3A%20Laura")
}
