package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replyMateAPI/internal/submission"
	"replyMateAPI/store"
)

func TestAppendAndListNewestFirst(t *testing.T) {
	mem := store.NewMemory()
	svc := NewSubmissionService(mem.Submissions)
	ctx := context.Background()

	first, err := svc.Append(ctx, "u1", submission.TypeShortReply, submission.NewShortReplyInput("post", "friendly"), "nice!")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	time.Sleep(2 * time.Millisecond)
	second, err := svc.Append(ctx, "u1", submission.TypeViralTweet, submission.NewViralTweetInput([]string{"a", "b"}), `["x","y","z"]`)
	require.NoError(t, err)

	subs, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, second.ID, subs[0].ID)
	assert.Equal(t, first.ID, subs[1].ID)
}

func TestDeleteForUserIsIdempotentAndScoped(t *testing.T) {
	mem := store.NewMemory()
	svc := NewSubmissionService(mem.Submissions)
	ctx := context.Background()

	mine, err := svc.Append(ctx, "u1", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
	require.NoError(t, err)
	theirs, err := svc.Append(ctx, "u2", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
	require.NoError(t, err)

	// Someone else's submission reads as not found.
	assert.ErrorIs(t, svc.DeleteForUser(ctx, "u1", theirs.ID), store.ErrNotFound)

	require.NoError(t, svc.DeleteForUser(ctx, "u1", mine.ID))
	// Deleting again is a no-op.
	require.NoError(t, svc.DeleteForUser(ctx, "u1", mine.ID))

	u1Subs, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, u1Subs)

	u2Subs, err := svc.ListForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, u2Subs, 1)
}

func TestUsageCounts(t *testing.T) {
	mem := store.NewMemory()
	svc := NewSubmissionService(mem.Submissions)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Append(ctx, "userA", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Append(ctx, "userA", submission.TypeViralTweet, submission.NewViralTweetInput([]string{"a", "b"}), "[]")
		require.NoError(t, err)
	}
	_, err := svc.Append(ctx, "userB", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
	require.NoError(t, err)

	counts, err := svc.UsageCounts(ctx, "userA")
	require.NoError(t, err)
	assert.Equal(t, submission.UsageCounts{ShortReply: 3, ViralTweet: 2, Total: 5}, counts)

	// Counts are recomputed, never cached past a deletion.
	subs, err := svc.ListForUser(ctx, "userA")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteForUser(ctx, "userA", subs[0].ID))

	counts, err = svc.UsageCounts(ctx, "userA")
	require.NoError(t, err)
	assert.Equal(t, 4, counts.Total)
}

func TestAllUsageCounts(t *testing.T) {
	mem := store.NewMemory()
	svc := NewSubmissionService(mem.Submissions)
	analytics := NewAnalyticsService(mem.Submissions)
	ctx := context.Background()

	_, err := svc.Append(ctx, "userA", submission.TypeShortReply, submission.NewShortReplyInput("p", "t"), "r")
	require.NoError(t, err)
	_, err = svc.Append(ctx, "userB", submission.TypeViralTweet, submission.NewViralTweetInput([]string{"a", "b"}), "[]")
	require.NoError(t, err)

	counts, err := analytics.AllUsageCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, submission.UsageCounts{ShortReply: 1, Total: 1}, counts["userA"])
	assert.Equal(t, submission.UsageCounts{ViralTweet: 1, Total: 1}, counts["userB"])
}
