package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"replyMateAPI/internal/safety"
	"replyMateAPI/internal/submission"
)

const (
	maxReplyWords = 30
	maxTweetRunes = 280
	tweetCount    = 3
	minExamples   = 2
)

// GenerationService runs the request pipeline for both generation kinds:
// validate -> safety -> quota -> backend -> output validation -> safety ->
// ledger append. userID may be empty; anonymous callers get results but are
// never recorded or quota-checked.
type GenerationService struct {
	generator     TextGenerator
	subscriptions *SubscriptionService
	submissions   *SubmissionService
}

func NewGenerationService(generator TextGenerator, subscriptions *SubscriptionService, submissions *SubmissionService) *GenerationService {
	return &GenerationService{
		generator:     generator,
		subscriptions: subscriptions,
		submissions:   submissions,
	}
}

func (s *GenerationService) GenerateShortReply(ctx context.Context, userID, postContent, tone string) (string, error) {
	postContent = strings.TrimSpace(postContent)
	tone = strings.TrimSpace(tone)
	if postContent == "" || tone == "" {
		return "", fmt.Errorf("%w: missing postContent or tone", ErrInvalidRequest)
	}
	if !safety.IsSafe(postContent) || !safety.IsSafe(tone) {
		return "", ErrUnsafeInput
	}

	if userID != "" {
		if err := s.subscriptions.CheckQuota(ctx, userID); err != nil {
			return "", err
		}
	}

	reply, err := s.generator.GenerateReply(ctx, postContent, tone)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" || len(strings.Fields(reply)) > maxReplyWords {
		return "", fmt.Errorf("%w: reply violates length constraint", ErrGenerationFailed)
	}
	if !safety.IsSafe(reply) {
		log.Printf("audit: unsafe reply blocked for input %q", postContent)
		return "", ErrUnsafeOutput
	}

	if userID != "" {
		input := submission.NewShortReplyInput(postContent, tone)
		if _, err := s.submissions.Append(ctx, userID, submission.TypeShortReply, input, reply); err != nil {
			return "", err
		}
	}
	return reply, nil
}

func (s *GenerationService) GenerateViralTweets(ctx context.Context, userID string, examples []string) ([]string, error) {
	var cleaned []string
	for _, ex := range examples {
		if ex = strings.TrimSpace(ex); ex != "" {
			cleaned = append(cleaned, ex)
		}
	}
	if len(cleaned) < minExamples {
		return nil, fmt.Errorf("%w: at least %d non-empty examples required", ErrInvalidRequest, minExamples)
	}
	for _, ex := range cleaned {
		if !safety.IsSafe(ex) {
			return nil, ErrUnsafeInput
		}
	}

	if userID != "" {
		if err := s.subscriptions.CheckQuota(ctx, userID); err != nil {
			return nil, err
		}
	}

	payload, err := s.generator.GenerateTweets(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, err)
	}

	var tweets []string
	if err := json.Unmarshal([]byte(payload), &tweets); err != nil {
		return nil, fmt.Errorf("%w: backend returned malformed payload", ErrGenerationFailed)
	}
	if len(tweets) != tweetCount {
		return nil, fmt.Errorf("%w: expected %d tweets, got %d", ErrGenerationFailed, tweetCount, len(tweets))
	}
	for i, tweet := range tweets {
		tweet = strings.TrimSpace(tweet)
		if tweet == "" || utf8.RuneCountInString(tweet) > maxTweetRunes {
			return nil, fmt.Errorf("%w: tweet violates length constraint", ErrGenerationFailed)
		}
		tweets[i] = tweet
	}
	for _, tweet := range tweets {
		if !safety.IsSafe(tweet) {
			log.Printf("audit: unsafe tweet blocked for examples %q", cleaned)
			return nil, ErrUnsafeOutput
		}
	}

	if userID != "" {
		result, err := json.Marshal(tweets)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tweets: %w", err)
		}
		input := submission.NewViralTweetInput(cleaned)
		if _, err := s.submissions.Append(ctx, userID, submission.TypeViralTweet, input, string(result)); err != nil {
			return nil, err
		}
	}
	return tweets, nil
}
