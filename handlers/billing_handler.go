package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"replyMateAPI/services"
)

type BillingHandler struct {
	billing *services.BillingService
}

func NewBillingHandler(billing *services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

type checkoutSessionRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Plan   string `json:"plan"`
}

func (h *BillingHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req checkoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionID, err := h.billing.CreateCheckoutSession(ctx, req.UserID, req.Email, req.Plan)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			log.Printf("checkout session error for user %s: %v", req.UserID, err)
		}
		respondWithError(w, status, clientMessage(err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}
