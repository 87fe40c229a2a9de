// Package gemini produces personalised study tips with Google's Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/model"
	"google.golang.org/api/option"
)

const (
	maxTips        = 5
	requestTimeout = 15 * time.Second
)

const tipsPrompt = `You are a supportive exam coach. A learner has just finished a %s practice exam.

Score: %.1f%% (grade %s), %d correct, %d wrong, %d skipped.
Weak topics: %s
Strong topics: %s

Write at most %d short, concrete study tips for the next week. Focus on the weak topics first.
Each tip must be one sentence and must not repeat the score.

Respond with a JSON object of the form:
{"tips": ["tip one", "tip two"]}
`

// Advisor wraps a Gemini model. A nil *Advisor is valid and returns no tips.
type Advisor struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    zerolog.Logger
}

// NewAdvisor creates an Advisor. It returns (nil, nil) when apiKey is empty
// so callers can run without AI tips.
func NewAdvisor(ctx context.Context, apiKey, modelName string, log zerolog.Logger) (*Advisor, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	m := client.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.4)

	return &Advisor{
		client: client,
		model:  m,
		log:    log.With().Str("component", "gemini_advisor").Logger(),
	}, nil
}

// Close releases the underlying client.
func (a *Advisor) Close() error {
	if a == nil {
		return nil
	}
	return a.client.Close()
}

// StudyTips asks Gemini for tips tailored to an exam result.
func (a *Advisor) StudyTips(ctx context.Context, subject string, result model.ExamResult) ([]string, error) {
	if a == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := a.model.GenerateContent(ctx, genai.Text(BuildPrompt(subject, result)))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	tips, err := ParseTips(sb.String())
	if err != nil {
		return nil, err
	}

	a.log.Debug().
		Str("subject", subject).
		Int("tips", len(tips)).
		Dur("took", time.Since(start)).
		Msg("Study tips generated")
	return tips, nil
}

// BuildPrompt renders the tips prompt for a result.
func BuildPrompt(subject string, r model.ExamResult) string {
	return fmt.Sprintf(tipsPrompt,
		subject, r.Score, r.Grade, r.CorrectAnswers, r.WrongAnswers, r.Skipped,
		listOrNone(r.WeakTopics), listOrNone(r.StrongTopics), maxTips)
}

// ParseTips decodes the model's JSON answer, tolerating Markdown code fences.
// Blank tips are dropped and at most five are kept.
func ParseTips(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var body struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &body); err != nil {
		return nil, fmt.Errorf("decode tips: %w", err)
	}

	tips := make([]string, 0, len(body.Tips))
	for _, t := range body.Tips {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, t)
		}
		if len(tips) == maxTips {
			break
		}
	}
	return tips, nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
