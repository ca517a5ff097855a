// Package store holds the persistence contracts for subscriptions,
// submissions and users. Services only see these interfaces; the Postgres
// implementation backs the running service and the in-memory one backs tests.
package store

import (
	"context"
	"errors"
	"time"

	"replyMateAPI/internal/submission"
	"replyMateAPI/internal/subscription"
	"replyMateAPI/internal/user"
)

var ErrNotFound = errors.New("record not found")

type SubscriptionStore interface {
	// Get returns the subscription for userID or ErrNotFound.
	Get(ctx context.Context, userID string) (subscription.Subscription, error)
	// Put overwrites the subscription for its user, creating it if absent.
	Put(ctx context.Context, sub subscription.Subscription) error
	// SetStatus atomically updates only the status field and returns the
	// resulting record, or ErrNotFound when no record exists.
	SetStatus(ctx context.Context, userID string, status subscription.Status) (subscription.Subscription, error)
}

type SubmissionStore interface {
	Insert(ctx context.Context, sub submission.Submission) error
	Get(ctx context.Context, id string) (submission.Submission, error)
	// ListByUser returns the user's submissions, newest first.
	ListByUser(ctx context.Context, userID string) ([]submission.Submission, error)
	// ListAll returns every submission, newest first.
	ListAll(ctx context.Context) ([]submission.Submission, error)
	// Delete removes a submission. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// CountByUserSince counts the user's submissions created at or after since.
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}
