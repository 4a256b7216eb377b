// Package analyzer answers ad-hoc natural-language questions about the
// collected dataset using Claude.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/DankoOfficial/angrybird/internal/store"
)

// DefaultMaxRows caps how many dataset rows are sent with a question.
const DefaultMaxRows = 75

// Provider is the LLM backend. Replaceable for testing.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Analyzer formats dataset rows and asks the provider data-analyst
// questions about them.
type Analyzer struct {
	provider Provider
	maxRows  int
}

// New creates an analyzer backed by the Anthropic API.
func New(apiKey, model string, maxRows int) *Analyzer {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Analyzer{
		provider: newAnthropicProvider(apiKey, model),
		maxRows:  maxRows,
	}
}

// NewWithProvider creates an analyzer with a custom provider.
func NewWithProvider(p Provider, maxRows int) *Analyzer {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Analyzer{provider: p, maxRows: maxRows}
}

// Ask answers one question about the given videos.
func (a *Analyzer) Ask(ctx context.Context, question string, videos []store.Video) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("empty question")
	}
	prompt := buildPrompt(question, FormatRows(videos, a.maxRows))
	return a.provider.Complete(ctx, prompt)
}

// FormatRows renders up to maxRows videos in the fixed pipe layout the
// prompt documents.
func FormatRows(videos []store.Video, maxRows int) string {
	if len(videos) > maxRows {
		videos = videos[:maxRows]
	}
	lines := make([]string, 0, len(videos))
	for i, v := range videos {
		lines = append(lines, fmt.Sprintf("%d|%s|%s|%s|%d|%d|%d|%s|%s",
			i, v.Uploader, v.UploadDate, v.Description,
			v.Likes, v.Comments, v.Shares, v.Favorites, v.MusicText))
	}
	return strings.Join(lines, "\n")
}

func buildPrompt(question, rows string) string {
	var b strings.Builder
	b.WriteString("You are a data analyst. Always base your response strictly on the ")
	b.WriteString("data provided, using clear examples and logical reasoning. Provide ")
	b.WriteString("specific insights, identify patterns, and explain any trends or ")
	b.WriteString("anomalies. When relevant, offer actionable recommendations backed ")
	b.WriteString("by data.\n\n")
	b.WriteString("Below is the TikTok video data. Each row follows this format: ")
	b.WriteString("index|uploader|upload_date|description|likes|comments|shares|favorites|music_text\n\n")
	b.WriteString(rows)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// anthropicProvider implements Provider using Anthropic's Claude API
type anthropicProvider struct {
	client *anthropic.Client
	model  string
}

func newAnthropicProvider(apiKey, model string) *anthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &anthropicProvider{client: &client, model: model}
}

func (p *anthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("Claude returned empty response")
}
