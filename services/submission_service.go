package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"replyMateAPI/internal/submission"
	"replyMateAPI/store"
)

// SubmissionService is the usage ledger: one record per successful
// generation, and the sole writer of the submissions store.
type SubmissionService struct {
	store store.SubmissionStore
}

func NewSubmissionService(st store.SubmissionStore) *SubmissionService {
	return &SubmissionService{store: st}
}

func (s *SubmissionService) Append(ctx context.Context, userID string, typ submission.Type, input any, result string) (submission.Submission, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return submission.Submission{}, fmt.Errorf("failed to encode submission input: %w", err)
	}

	sub := submission.Submission{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		Input:     raw,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, sub); err != nil {
		return submission.Submission{}, err
	}
	return sub, nil
}

func (s *SubmissionService) ListForUser(ctx context.Context, userID string) ([]submission.Submission, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *SubmissionService) ListAll(ctx context.Context) ([]submission.Submission, error) {
	return s.store.ListAll(ctx)
}

// DeleteForUser removes one of the user's own submissions. Deleting an id
// that no longer exists is a no-op; an id owned by someone else is reported
// as not found rather than revealing the record exists.
func (s *SubmissionService) DeleteForUser(ctx context.Context, userID, id string) error {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if sub.UserID != userID {
		return store.ErrNotFound
	}
	return s.store.Delete(ctx, id)
}

// UsageCounts tallies the user's submissions by type. Derived on every call
// so it can never lag a creation or deletion.
func (s *SubmissionService) UsageCounts(ctx context.Context, userID string) (submission.UsageCounts, error) {
	subs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return submission.UsageCounts{}, err
	}

	var counts submission.UsageCounts
	for _, sub := range subs {
		switch sub.Type {
		case submission.TypeShortReply:
			counts.ShortReply++
		case submission.TypeViralTweet:
			counts.ViralTweet++
		default:
			continue
		}
		counts.Total++
	}
	return counts, nil
}
