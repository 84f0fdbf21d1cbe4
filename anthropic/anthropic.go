// Package anthropic implements [xanadium.Responder] for the Anthropic
// Messages API using the official SDK.
package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/xanadium"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

// Interface compliance check.
var _ xanadium.Responder = (*Responder)(nil)

// errNoText is returned when the reply carried no text blocks.
var errNoText = errors.New("anthropic: empty reply")

// Responder implements [xanadium.Responder] for the Anthropic Messages API.
type Responder struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	reqOpts   []option.RequestOption
}

// Option configures a [Responder].
type Option func(*Responder)

// WithModel sets the model ID. Default is claude-sonnet-4-20250514.
func WithModel(model string) Option {
	return func(r *Responder) {
		if model != "" {
			r.model = model
		}
	}
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int64) Option {
	return func(r *Responder) { r.maxTokens = n }
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(r *Responder) { r.reqOpts = append(r.reqOpts, option.WithBaseURL(url)) }
}

// New creates an Anthropic [Responder] with the given API key and options.
func New(apiKey string, opts ...Option) *Responder {
	r := &Responder{
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, o := range opts {
		o(r)
	}
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, r.reqOpts...)
	r.client = anthropic.NewClient(reqOpts...)
	return r
}

// Respond sends the prompt as one user turn and returns the concatenated
// text blocks of the reply.
func (r *Responder) Respond(ctx context.Context, p xanadium.Prompt) (string, error) {
	msg, err := r.client.Messages.New(ctx, BuildParams(p, r.model, r.maxTokens))
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	if b.Len() == 0 {
		return "", errNoText
	}
	return b.String(), nil
}

// BuildParams converts a prompt to request parameters.
// Exported for testing.
func BuildParams(p xanadium.Prompt, model string, maxTokens int64) anthropic.MessageNewParams {
	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(p.Render())}
	if img := p.Image; img != nil {
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MimeType, base64.StdEncoding.EncodeToString(img.Data)))
	}
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
}
