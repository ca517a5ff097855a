package services

import (
	"context"

	"replyMateAPI/internal/submission"
	"replyMateAPI/store"
)

// AnalyticsService derives the admin panel's per-user usage figures from the
// submission ledger.
type AnalyticsService struct {
	store store.SubmissionStore
}

func NewAnalyticsService(st store.SubmissionStore) *AnalyticsService {
	return &AnalyticsService{store: st}
}

// AllUsageCounts maps every user with at least one submission to their usage
// tally. A full scan is fine at this scale; the contract allows swapping in
// an indexed aggregate later.
func (s *AnalyticsService) AllUsageCounts(ctx context.Context) (map[string]submission.UsageCounts, error) {
	subs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]submission.UsageCounts)
	for _, sub := range subs {
		c := counts[sub.UserID]
		switch sub.Type {
		case submission.TypeShortReply:
			c.ShortReply++
		case submission.TypeViralTweet:
			c.ViralTweet++
		default:
			continue
		}
		c.Total++
		counts[sub.UserID] = c
	}
	return counts, nil
}
