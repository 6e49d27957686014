package handlers

import (
	"net/http"

	"sownmark/internal/service"
)

type NewsletterRequest struct {
	Email string `json:"email" validate:"max=254"`
}

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.NewsletterService.Subscribe(r.Context(), req.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if outcome == service.Resubscribed {
		writeMessage(w, "Re-subscribed successfully", http.StatusOK)
		return
	}
	writeMessage(w, "Subscribed successfully", http.StatusCreated)
}

// Unsubscribe takes the email from the body, or from ?email= for links.
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if email := r.URL.Query().Get("email"); email != "" {
		req.Email = email
		if !h.validate(w, &req) {
			return
		}
	} else if !h.decodeJSON(w, r, &req) {
		return
	}

	err := h.NewsletterService.Unsubscribe(r.Context(), req.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Unsubscribed successfully", http.StatusOK)
}
