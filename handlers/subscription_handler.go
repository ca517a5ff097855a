package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"replyMateAPI/internal/subscription"
	"replyMateAPI/middleware"
	"replyMateAPI/services"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sub, err := h.subscriptions.GetSubscription(ctx, userID)
	if err != nil {
		log.Printf("Failed to load subscription for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, clientMessage(err))
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.subscriptions.Cancel)
}

func (h *SubscriptionHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.subscriptions.Reactivate)
}

func (h *SubscriptionHandler) setStatus(w http.ResponseWriter, r *http.Request, transition func(context.Context, string) (subscription.Subscription, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sub, err := transition(ctx, userID)
	if err != nil {
		status := statusForError(err)
		if status != http.StatusNotFound {
			log.Printf("Subscription transition failed for %s: %v", userID, err)
		}
		respondWithError(w, status, clientMessage(err))
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}
