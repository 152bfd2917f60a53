package whatsapp

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the webhook endpoints. They are unauthenticated;
// the provider proves itself through the verify token handshake.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/webhook", h.Verify)
	r.Post("/webhook", h.Receive)
}
