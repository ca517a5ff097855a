package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"replyMateAPI/internal/subscription"
)

// SessionCreator is the checkout delegation point, stubbed in tests.
type SessionCreator interface {
	Create(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeSessions calls the live Stripe API. stripe.Key must be set before use.
type StripeSessions struct{}

func (StripeSessions) Create(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

// BillingService issues checkout sessions for priceable plans. The hobby
// plan has no price and is deliberately absent from the map.
type BillingService struct {
	sessions SessionCreator
	prices   map[subscription.Plan]string
	appURL   string
}

func NewBillingService(sessions SessionCreator, appURL, proPriceID, teamPriceID string) *BillingService {
	return &BillingService{
		sessions: sessions,
		prices: map[subscription.Plan]string{
			subscription.PlanPro:  proPriceID,
			subscription.PlanTeam: teamPriceID,
		},
		appURL: appURL,
	}
}

// CreateCheckoutSession validates the request, creates a subscription-mode
// checkout session and returns its id. The user id and plan ride along as
// client_reference_id and metadata so the webhook can recover them; that
// metadata channel is the only linkage between checkout and entitlement.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, userID, email, planID string) (string, error) {
	if userID == "" || email == "" || planID == "" {
		return "", fmt.Errorf("%w: missing userId, email or plan", ErrInvalidRequest)
	}
	plan, ok := subscription.ParsePlan(planID)
	if !ok {
		return "", fmt.Errorf("%w: unknown plan %q", ErrInvalidRequest, planID)
	}
	priceID := s.prices[plan]
	if priceID == "" {
		return "", fmt.Errorf("%w: plan %q is not priceable", ErrInvalidRequest, plan)
	}

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.appURL + "/dashboard?payment=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.appURL + "/pricing"),
		ClientReferenceID: stripe.String(userID),
		CustomerEmail:     stripe.String(email),
	}
	params.AddMetadata("plan", string(plan))
	params.AddMetadata("user_id", userID)

	sess, err := s.sessions.Create(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	if sess.ID == "" {
		return "", fmt.Errorf("stripe returned a session without an id")
	}
	return sess.ID, nil
}

// EntitlementFromEvent is the transport-independent webhook rule: given a
// verified event, decide what (if anything) to write to the entitlement
// store. A nil subscription with nil error means acknowledge without action.
func EntitlementFromEvent(event stripe.Event, now time.Time) (*subscription.Subscription, error) {
	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %w", err)
	}

	userID := sess.ClientReferenceID
	plan, ok := subscription.ParsePlan(sess.Metadata["plan"])
	if userID == "" || !ok {
		// The event is acknowledged anyway so Stripe does not retry it.
		return nil, nil
	}

	return &subscription.Subscription{
		UserID:           userID,
		Plan:             plan,
		Status:           subscription.StatusActive,
		CurrentPeriodEnd: now.Add(subscription.PaidPeriod),
		UpdatedAt:        now,
	}, nil
}
