package web

import (
	"net/http"
	"net/url"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/JonMunkholm/dispenser/internal/logging"
)

type savingsResponse struct {
	Input        core.SavingsInput  `json:"input"`
	Result       core.SavingsResult `json:"result"`
	PaybackLabel string             `json:"paybackLabel"`
}

// handleSavings computes the bottled-water versus mains comparison.
func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	in := savingsInput(r.URL.Query())
	res := core.CalculateSavings(in)
	writeJSON(w, http.StatusOK, savingsResponse{
		Input:        in,
		Result:       res,
		PaybackLabel: res.PaybackLabel(),
	})
}

// handleContact forwards the contact form to the chat link.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var form core.ContactForm
	if err := decodeRequest(w, r, &form, func(v url.Values) {
		form = core.ContactForm{
			Name:        v.Get("nombre"),
			Institution: v.Get("institucion"),
			City:        v.Get("ciudad"),
			Message:     v.Get("mensaje"),
		}
	}); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("contact form submitted", "city", form.City)
	http.Redirect(w, r, s.links.ContactForm(form), http.StatusSeeOther)
}
