package bot

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the bot channel webhook
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/messages", h.Messages)
}
