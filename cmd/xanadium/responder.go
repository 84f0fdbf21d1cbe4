package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/xanadium"
	"github.com/fwojciec/xanadium/anthropic"
	"github.com/fwojciec/xanadium/gemini"
)

// resolveResponder selects and constructs the model backend. All env var
// values are passed in as parameters; env is only read in run().
func resolveResponder(ctx context.Context, provider, model, anthropicKey, geminiKey string) (xanadium.Responder, error) {
	// Auto-detect from the keys present.
	if provider == "" {
		hasAnthropic := anthropicKey != ""
		hasGemini := geminiKey != ""
		switch {
		case hasAnthropic && hasGemini:
			return nil, fmt.Errorf("multiple API keys found (ANTHROPIC_API_KEY, GEMINI_API_KEY): use --provider to select")
		case hasAnthropic:
			provider = "anthropic"
		case hasGemini:
			provider = "gemini"
		default:
			return nil, fmt.Errorf("no API key found: set GEMINI_API_KEY or ANTHROPIC_API_KEY")
		}
	}

	switch provider {
	case "anthropic":
		if anthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return anthropic.New(anthropicKey, anthropic.WithModel(model)), nil
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		r, err := gemini.New(ctx, geminiKey, gemini.WithModel(model))
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"anthropic\" or \"gemini\"", provider)
	}
}
