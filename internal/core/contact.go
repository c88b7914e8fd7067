package core

import (
	"fmt"
	"strings"
)

// ContactForm is the landing-page contact form. Every field is optional.
type ContactForm struct {
	Name        string `json:"nombre"`
	Institution string `json:"institucion"`
	City        string `json:"ciudad"`
	Message     string `json:"mensaje"`
}

// BuildContactText renders the contact form as a chat message.
func BuildContactText(f ContactForm) string {
	return fmt.Sprintf("Consulta desde la web:\n\nNombre: %s\nInstitución: %s\nCiudad: %s\nMensaje: %s",
		strings.TrimSpace(f.Name),
		strings.TrimSpace(f.Institution),
		strings.TrimSpace(f.City),
		strings.TrimSpace(f.Message),
	)
}
