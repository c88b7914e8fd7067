package core

// error_messages.go maps technical errors to visitor-facing messages.
//
// # Error Codes Reference
//
// Codes are grouped by area so a visitor can quote one when asking for help:
//
// # Catalog (CAT001-CAT099)
//
//	CAT001 - Product not found         Patterns: "product not found"
//	CAT002 - Unknown tag filter        Patterns: "unknown tag"
//	CAT003 - Remote catalog unusable   Patterns: "fetch catalog", "decode catalog",
//	                                             "catalog source returned no products",
//	                                             "no catalog source configured"
//	CAT004 - Refresh already running   Patterns: "too many catalog refreshes"
//
// # Cart (CART001-CART099)
//
//	CART001 - Out of stock             Patterns: "product out of stock"
//	CART002 - Line not in cart         Patterns: "cart line not found"
//	CART003 - Empty cart at checkout   Patterns: "cart is empty"
//
// # Coupons (CPN001-CPN099)
//
//	CPN001 - Invalid coupon            Patterns: "invalid coupon"
//
// # Requests (REQ001-REQ099)
//
//	REQ001 - Malformed request         Patterns: "invalid request"
//	REQ002 - Missing session           Patterns: "invalid session"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests        Patterns: "rate limit"
//
// # Upstream (UPS001-UPS099)
//
//	UPS001 - Cart storage unavailable  Patterns: "load cart", "save cart"
//	UPS002 - Request timed out         Patterns: "context deadline exceeded"
//	UPS003 - Request cancelled         Patterns: "context canceled"
//
// # Default (ERR000)
//
// Returned when nothing matches. Check the server log for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Reference code for support
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Catalog
	{
		pattern: "product not found",
		msg: UserMessage{
			Message: "El producto no existe en el catálogo",
			Action:  "Actualizá la página para ver los productos vigentes",
			Code:    "CAT001",
		},
	},
	{
		pattern: "unknown tag",
		msg: UserMessage{
			Message: "Filtro desconocido",
			Action:  "Elegí una de las referencias listadas",
			Code:    "CAT002",
		},
	},
	{
		pattern: "fetch catalog",
		msg:     catalogUnavailable,
	},
	{
		pattern: "decode catalog",
		msg:     catalogUnavailable,
	},
	{
		pattern: "catalog source returned no products",
		msg:     catalogUnavailable,
	},
	{
		pattern: "no catalog source configured",
		msg:     catalogUnavailable,
	},
	{
		pattern: "too many catalog refreshes",
		msg: UserMessage{
			Message: "Ya hay una actualización del catálogo en curso",
			Action:  "Esperá unos segundos y volvé a intentar",
			Code:    "CAT004",
		},
	},

	// Cart
	{
		pattern: "product out of stock",
		msg: UserMessage{
			Message: "No hay stock disponible para este producto.",
			Action:  "Consultanos por WhatsApp para conocer la reposición",
			Code:    "CART001",
		},
	},
	{
		pattern: "cart line not found",
		msg: UserMessage{
			Message: "El producto no está en el carrito",
			Action:  "Actualizá el carrito y volvé a intentar",
			Code:    "CART002",
		},
	},
	{
		pattern: "cart is empty",
		msg: UserMessage{
			Message: "El carrito está vacío",
			Action:  "Agregá productos antes de enviar el pedido",
			Code:    "CART003",
		},
	},

	// Coupons
	{
		pattern: "invalid coupon",
		msg: UserMessage{
			Message: InvalidCouponMessage,
			Action:  "Revisá el código e intentá de nuevo",
			Code:    "CPN001",
		},
	},

	// Requests
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "Solicitud inválida",
			Action:  "Revisá los datos enviados",
			Code:    "REQ001",
		},
	},
	{
		pattern: "invalid session",
		msg: UserMessage{
			Message: "No encontramos tu carrito",
			Action:  "Habilitá las cookies y recargá la página",
			Code:    "REQ002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Demasiadas solicitudes",
			Action:  "Esperá un momento antes de volver a intentar",
			Code:    "RATE001",
		},
	},

	// Upstream
	{
		pattern: "load cart",
		msg:     storageUnavailable,
	},
	{
		pattern: "save cart",
		msg:     storageUnavailable,
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "La solicitud tardó demasiado",
			Action:  "Volvé a intentar en unos segundos",
			Code:    "UPS002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "La solicitud fue cancelada",
			Action:  "Volvé a intentar",
			Code:    "UPS003",
		},
	},
}

var (
	catalogUnavailable = UserMessage{
		Message: SyncAdvisory,
		Action:  "Los precios pueden no estar actualizados",
		Code:    "CAT003",
	}
	storageUnavailable = UserMessage{
		Message: "No pudimos acceder a tu carrito",
		Action:  "Volvé a intentar en unos momentos",
		Code:    "UPS001",
	}
)

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "Ocurrió un error inesperado",
	Action:  "Volvé a intentar o escribinos por WhatsApp",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first pattern match, or the ERR000 fallback.
//
// Example:
//
//	msg := MapError(fmt.Errorf("add item: %w", ErrOutOfStock))
//	// msg.Code == "CART001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a display string: "Message (Código: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Código: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original error for logging
	User      UserMessage // Message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
