package handlers

import (
	"net/http"

	"sownmark/internal/service"
)

type ContactRequest struct {
	Name    string  `json:"name" validate:"max=100"`
	Email   string  `json:"email" validate:"max=254"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Subject string  `json:"subject" validate:"max=100"`
	Message string  `json:"message" validate:"max=5000"`
}

type ContactResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.ContactService.Submit(r.Context(), service.ContactRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, ContactResponse{Message: "Form submitted successfully", ID: msg.ID}, http.StatusCreated)
}

func (h *Handlers) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	list, err := h.ContactService.List(r.Context(),
		r.URL.Query().Get("status"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, list, http.StatusOK)
}

func (h *Handlers) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, "Invalid contact message ID", http.StatusBadRequest)
		return
	}

	var req StatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.ContactService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Contact message status updated successfully", http.StatusOK)
}
