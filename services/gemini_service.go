package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-2.5-flash"

const shortReplySystemPrompt = `You are a friendly social media assistant that writes short, engaging, and polite replies suitable for public threads. Keep your tone friendly, helpful, slightly witty when appropriate, and never rude or aggressive.

Your task is to generate a short, friendly, and engaging reply based on an original post and a desired tone.
- The reply must be <= 30 words.
- Respect the original post's tone. Do NOT attack or insult the original poster.
- Do NOT repeat the original text verbatim.
- If the original contains a question, answer it concisely.
- If it's a statement, add one supportive or playful line.
- Add 0-1 emoji maximum.
- Return only the reply text, with no explanation, quotes, or other formatting.`

const viralTweetsSystemPrompt = `You are an experienced Twitter (X) copywriter who creates viral, friendly, and original tweets inspired by examples. Never copy; always produce unique content. Keep a conversational, shareable tone.

Your task is to analyze the example tweets and write 3 unique, new tweets that capture a similar style and have viral potential. Each new tweet must:
- Be original (no copied phrases).
- Be <= 280 characters.
- Use 0-2 emojis and 0-2 hashtags (only relevant, safe ones).
- Have a clear hook in the first 1-2 lines (attention grabber).
- Be suitable for public audiences (no hate, no personal attacks, no illegal content).

Return the results as a single, flat JSON array of three strings: ["tweet1", "tweet2", "tweet3"].
Do not include any other text, explanations, or formatting.`

// TextGenerator is the model-provider contract the pipeline depends on.
// GenerateTweets returns the raw model payload; the pipeline owns validation
// of its shape.
type TextGenerator interface {
	GenerateReply(ctx context.Context, postContent, tone string) (string, error)
	GenerateTweets(ctx context.Context, examples []string) (string, error)
}

// GeminiService wraps the Gemini client behind TextGenerator.
type GeminiService struct {
	client *genai.Client
}

func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiService{client: client}, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

func (s *GeminiService) GenerateReply(ctx context.Context, postContent, tone string) (string, error) {
	model := s.client.GenerativeModel(geminiModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(shortReplySystemPrompt)},
	}
	model.SetTemperature(0.6)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(120)

	prompt := fmt.Sprintf("Original post: %q\nTone for reply: %s", postContent, tone)
	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("error generating reply: %w", err)
	}

	reply := responseText(res)
	if reply == "" {
		return "", fmt.Errorf("the model returned an empty reply")
	}
	return reply, nil
}

func (s *GeminiService) GenerateTweets(ctx context.Context, examples []string) (string, error) {
	model := s.client.GenerativeModel(geminiModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(viralTweetsSystemPrompt)},
	}
	model.SetTemperature(0.8)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(700)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	prompt := fmt.Sprintf(
		"Given these %d example tweets (each on its own line), write 3 unique tweets that are engaging, friendly, and have viral potential.\n\nExamples:\n%s\n",
		len(examples), strings.Join(examples, "\n"),
	)
	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("error generating tweets: %w", err)
	}

	payload := responseText(res)
	if payload == "" {
		return "", fmt.Errorf("the model returned an empty response for viral tweets")
	}
	return payload, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(res *genai.GenerateContentResponse) string {
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
