package handlers

import (
	"net/http"

	"sownmark/internal/service"
)

type SignupRequest struct {
	Username string `json:"username" validate:"max=50"`
	Password string `json:"password" validate:"max=72"`
	Email    string `json:"email" validate:"max=254"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"max=50"`
	Password string `json:"password" validate:"max=72"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	_, err := h.AuthService.Signup(r.Context(), service.SignupRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeMessage(w, "Admin account created successfully", http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, LoginResponse{Message: "Login successful", Token: token}, http.StatusOK)
}
