package conversation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the conversation routes. Everything under /api
// requires an authenticated caller.
func RegisterRoutes(r chi.Router, h *Handler, auth func(next http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(auth)

		r.Post("/individual_conversation", h.IndividualConversation)
		r.Post("/experts_conversation", h.ExpertConversation)
		r.Post("/conversation", h.LegacyConversation)
		r.Get("/conversations/{session_key}/transcript", h.GetTranscript)
		r.Post("/upload", h.Upload)
	})
}
