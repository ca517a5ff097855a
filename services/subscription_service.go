package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"replyMateAPI/internal/subscription"
	"replyMateAPI/store"
)

// SubscriptionService is the authoritative source for what plan a user is on
// and whether they may still generate this billing month.
type SubscriptionService struct {
	subs        store.SubscriptionStore
	submissions store.SubmissionStore
}

func NewSubscriptionService(subs store.SubscriptionStore, submissions store.SubmissionStore) *SubscriptionService {
	return &SubscriptionService{subs: subs, submissions: submissions}
}

// GetSubscription never fails for a valid user: a missing record is
// materialized as the hobby default and persisted, and a canceled record
// whose paid period has run out is downgraded the same way on read.
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (subscription.Subscription, error) {
	now := time.Now().UTC()

	sub, err := s.subs.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return subscription.Subscription{}, err
		}
		sub = subscription.Default(userID, now)
		if err := s.subs.Put(ctx, sub); err != nil {
			return subscription.Subscription{}, err
		}
		return sub, nil
	}

	if sub.Expired(now) {
		sub = subscription.Default(userID, now)
		if err := s.subs.Put(ctx, sub); err != nil {
			return subscription.Subscription{}, err
		}
	}
	return sub, nil
}

// SetSubscription unconditionally overwrites the stored record. Webhook
// ingestion relies on this being idempotent.
func (s *SubscriptionService) SetSubscription(ctx context.Context, sub subscription.Subscription) error {
	return s.subs.Put(ctx, sub)
}

// Cancel flips status to canceled, leaving plan and period end untouched.
// Unlike GetSubscription it requires a pre-existing record and returns
// store.ErrNotFound otherwise.
func (s *SubscriptionService) Cancel(ctx context.Context, userID string) (subscription.Subscription, error) {
	return s.subs.SetStatus(ctx, userID, subscription.StatusCanceled)
}

// Reactivate flips status back to active. Same not-found contract as Cancel.
func (s *SubscriptionService) Reactivate(ctx context.Context, userID string) (subscription.Subscription, error) {
	return s.subs.SetStatus(ctx, userID, subscription.StatusActive)
}

// CheckQuota compares the user's submissions in the current billing month
// against their plan limit and returns ErrQuotaExceeded when the limit is
// reached. The billing month is the current calendar month in UTC.
func (s *SubscriptionService) CheckQuota(ctx context.Context, userID string) error {
	sub, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return err
	}

	limit, ok := sub.Plan.MonthlyLimit()
	if !ok {
		return nil
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count, err := s.submissions.CountByUserSince(ctx, userID, monthStart)
	if err != nil {
		return err
	}
	if count >= limit {
		return fmt.Errorf("%w: %d of %d used on plan %s", ErrQuotaExceeded, count, limit, sub.Plan)
	}
	return nil
}
