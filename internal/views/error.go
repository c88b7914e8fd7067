package views

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders a user-facing error as a fragment.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.open("div", "class", "error", "role", "alert", "data-code", msg.Code)
		h.elem("p", msg.Message, "class", "message")
		if msg.Action != "" {
			h.elem("p", msg.Action, "class", "action")
		}
		h.elem("p", "Código: "+msg.Code, "class", "code")
		h.close("div")
		return h.err
	})
}

// ErrorPage renders a full page for a failed browser request.
func ErrorPage(status int, msg core.UserMessage) templ.Component {
	return Layout("Error "+strconv.Itoa(status), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.open("main")
		h.component(ErrorAlert(msg))
		h.elem("a", "Volver al catálogo", "href", "/")
		h.close("main")
		return h.err
	}))
}
