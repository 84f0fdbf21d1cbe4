package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/xanadium"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ xanadium.Responder = (*Responder)(nil)

// errNoText is returned when the model produced no text parts.
var errNoText = errors.New("gemini: empty reply")

// Responder implements [xanadium.Responder] for the Google Gemini API.
type Responder struct {
	client *genai.Client
	model  string
}

// Option configures a [Responder].
type Option func(*Responder)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(r *Responder) {
		if model != "" {
			r.model = model
		}
	}
}

// New creates a Gemini [Responder] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Responder, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	r := &Responder{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Respond sends the prompt and returns the concatenated reply text.
func (r *Responder) Respond(ctx context.Context, p xanadium.Prompt) (string, error) {
	config := &genai.GenerateContentConfig{MaxOutputTokens: defaultMaxTokens}
	resp, err := r.client.Models.GenerateContent(ctx, r.model, BuildContents(p), config)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := ExtractText(resp)
	if text == "" {
		return "", errNoText
	}
	return text, nil
}

// BuildContents converts a prompt to genai Contents.
// Exported for testing.
func BuildContents(p xanadium.Prompt) []*genai.Content {
	parts := []*genai.Part{{Text: p.Render()}}
	if img := p.Image; img != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: img.MimeType,
				Data:     img.Data,
			},
		})
	}
	return []*genai.Content{{Role: "user", Parts: parts}}
}

// ExtractText joins the text parts of the first candidate, skipping
// thoughts. Exported for testing.
func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
