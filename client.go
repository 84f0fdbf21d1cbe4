package xanadium

import "context"

// Outgoing is the payload of one send: the user's text and an optional
// image.
type Outgoing struct {
	Text  string
	Image *Attachment
}

// ChatClient forwards one message to the remote chat endpoint and returns
// the reply text. Implementations return ErrMalformedResponse when the
// endpoint answered without a usable reply.
type ChatClient interface {
	Chat(ctx context.Context, out Outgoing) (string, error)
}

// DefaultPersona is used when no persona file is configured.
const DefaultPersona = "You are XanadiumAI."

// Prompt is what the backend hands to a model for one incoming message.
type Prompt struct {
	Persona string
	Text    string
	Image   *Attachment
}

// Render flattens the persona and the user text into a single prompt.
// Text-only prompts label the user's turn; with an image the text follows
// the persona directly and the image travels as a separate part.
func (p Prompt) Render() string {
	persona := p.Persona
	if persona == "" {
		persona = DefaultPersona
	}
	if p.Image != nil {
		return persona + "\n\n" + p.Text
	}
	return persona + "\n\nUser: " + p.Text
}

// Responder produces a model reply for a prompt. The backend handler
// depends on it; gemini and anthropic provide implementations.
type Responder interface {
	Respond(ctx context.Context, p Prompt) (string, error)
}
