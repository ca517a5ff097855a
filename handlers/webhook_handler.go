package handlers

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"

	"replyMateAPI/services"
)

// WebhookHandler consumes Stripe's asynchronous billing events. Delivery is
// at-least-once, so everything downstream of signature verification must be
// idempotent; entitlement writes are plain overwrites, which makes replays
// harmless.
type WebhookHandler struct {
	subscriptions  *services.SubscriptionService
	endpointSecret string
}

func NewWebhookHandler(subscriptions *services.SubscriptionService, endpointSecret string) *WebhookHandler {
	return &WebhookHandler{
		subscriptions:  subscriptions,
		endpointSecret: endpointSecret,
	}
}

// HandleStripeWebhook processes events sent by Stripe
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading request body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	// Verify the signature before touching the payload. Fail closed.
	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.endpointSecret)
	if err != nil {
		log.Printf("Error verifying webhook signature: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	update, err := services.EntitlementFromEvent(event, time.Now().UTC())
	if err != nil {
		log.Printf("Error parsing webhook event %s: %v", event.ID, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if update == nil {
		// Unknown event types and events missing reference fields are
		// acknowledged so Stripe does not keep retrying them.
		log.Printf("Ignoring webhook event %s (%s)", event.ID, event.Type)
		respondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	if err := h.subscriptions.SetSubscription(r.Context(), *update); err != nil {
		// Surface a server error so Stripe redelivers.
		log.Printf("Error persisting subscription for user %s: %v", update.UserID, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Printf("Subscription updated via webhook: user=%s plan=%s", update.UserID, update.Plan)
	respondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
}
