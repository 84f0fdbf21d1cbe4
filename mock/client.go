// Package mock provides test doubles for xanadium interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/fwojciec/xanadium"
)

// Interface compliance checks.
var (
	_ xanadium.ChatClient   = (*ChatClient)(nil)
	_ xanadium.Responder    = (*Responder)(nil)
	_ xanadium.SessionStore = (*SessionStore)(nil)
)

// ChatClient is a test double for xanadium.ChatClient.
// Set ChatFn before calling Chat.
type ChatClient struct {
	ChatFn func(ctx context.Context, out xanadium.Outgoing) (string, error)
}

// Chat delegates to ChatFn.
func (c *ChatClient) Chat(ctx context.Context, out xanadium.Outgoing) (string, error) {
	return c.ChatFn(ctx, out)
}

// Responder is a test double for xanadium.Responder.
type Responder struct {
	RespondFn func(ctx context.Context, p xanadium.Prompt) (string, error)
}

// Respond delegates to RespondFn.
func (r *Responder) Respond(ctx context.Context, p xanadium.Prompt) (string, error) {
	return r.RespondFn(ctx, p)
}

// SessionStore is a test double for xanadium.SessionStore.
type SessionStore struct {
	LoadFn   func() xanadium.History
	SaveFn   func(s xanadium.Session) error
	DeleteFn func(id int64) (xanadium.History, error)
}

// Load delegates to LoadFn.
func (s *SessionStore) Load() xanadium.History {
	return s.LoadFn()
}

// Save delegates to SaveFn.
func (s *SessionStore) Save(session xanadium.Session) error {
	return s.SaveFn(session)
}

// Delete delegates to DeleteFn.
func (s *SessionStore) Delete(id int64) (xanadium.History, error) {
	return s.DeleteFn(id)
}
