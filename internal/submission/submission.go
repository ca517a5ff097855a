package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	TypeShortReply Type = "short-reply"
	TypeViralTweet Type = "viral-tweet"
)

type Submission struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"userId" db:"user_id"`
	Type      Type            `json:"type" db:"type"`
	Input     json.RawMessage `json:"input" db:"input"`
	Result    string          `json:"result" db:"result"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

type UsageCounts struct {
	ShortReply int `json:"short-reply"`
	ViralTweet int `json:"viral-tweet"`
	Total      int `json:"total"`
}

// SchemaVersion is written into every new input payload. Records written
// before payloads were tagged carry no version field and are decoded through
// the legacy fallbacks below.
const SchemaVersion = 2

type ShortReplyInput struct {
	SchemaVersion int    `json:"schemaVersion,omitempty"`
	PostContent   string `json:"postContent"`
	Tone          string `json:"tone"`
}

type ViralTweetInput struct {
	SchemaVersion int      `json:"schemaVersion,omitempty"`
	Examples      []string `json:"examples"`
}

func NewShortReplyInput(postContent, tone string) ShortReplyInput {
	return ShortReplyInput{SchemaVersion: SchemaVersion, PostContent: postContent, Tone: tone}
}

func NewViralTweetInput(examples []string) ViralTweetInput {
	return ViralTweetInput{SchemaVersion: SchemaVersion, Examples: examples}
}

// DecodeShortReplyInput reads a stored short-reply payload. Legacy records
// used the same flat object without a schemaVersion tag, so a missing tag is
// accepted as version 1.
func DecodeShortReplyInput(raw json.RawMessage) (ShortReplyInput, error) {
	var in ShortReplyInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return ShortReplyInput{}, fmt.Errorf("failed to decode short-reply input: %w", err)
	}
	if in.SchemaVersion == 0 {
		in.SchemaVersion = 1
	}
	return in, nil
}

// DecodeViralTweetInput reads a stored viral-tweet payload. Legacy records
// stored the examples as a bare JSON array rather than a tagged object.
func DecodeViralTweetInput(raw json.RawMessage) (ViralTweetInput, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var examples []string
		if err := json.Unmarshal(trimmed, &examples); err != nil {
			return ViralTweetInput{}, fmt.Errorf("failed to decode legacy viral-tweet input: %w", err)
		}
		return ViralTweetInput{SchemaVersion: 1, Examples: examples}, nil
	}
	var in ViralTweetInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return ViralTweetInput{}, fmt.Errorf("failed to decode viral-tweet input: %w", err)
	}
	if in.SchemaVersion == 0 {
		in.SchemaVersion = 1
	}
	return in, nil
}
