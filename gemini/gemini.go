// Package gemini implements [xanadium.Responder] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. A prompt becomes a single user
// turn holding the rendered text and, when present, the image as inline
// data.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 8192
)
