package handlers

import (
	"net/http"

	"sownmark/internal/service"
)

type MarketingApplyRequest struct {
	Name         string `json:"name" validate:"max=100"`
	Email        string `json:"email" validate:"max=254"`
	Phone        string `json:"phone" validate:"max=20"`
	ReferralCode string `json:"referralCode" validate:"max=16"`
}

type MarketingApplyResponse struct {
	Message      string `json:"message"`
	ReferralCode string `json:"referralCode"`
}

func (h *Handlers) ApplyMarketing(w http.ResponseWriter, r *http.Request) {
	var req MarketingApplyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	app, err := h.MarketingService.Apply(r.Context(), service.ApplyRequest{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MarketingApplyResponse{
		Message:      "Application submitted successfully",
		ReferralCode: app.ReferralCode,
	}, http.StatusCreated)
}

// ListMarketingApplications is admin only; minReferrals filters on the derived count.
func (h *Handlers) ListMarketingApplications(w http.ResponseWriter, r *http.Request) {
	list, err := h.MarketingService.ListApplications(r.Context(),
		queryInt(r, "page"), queryInt(r, "limit"), queryInt(r, "minReferrals"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, list, http.StatusOK)
}
