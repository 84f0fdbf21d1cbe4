package xanadium

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ConnectionLostText is the assistant reply recorded when a request fails
// or the endpoint answers with something unusable.
const ConnectionLostText = "Connection lost."

// ErrEmptyMessage indicates a send with neither text nor image.
var ErrEmptyMessage = errors.New("empty message")

// Screen is the top-level view the front end should show.
type Screen int

const (
	ScreenWelcome Screen = iota // No messages shown yet.
	ScreenChat                  // Conversation view.
)

// ActiveSession is the conversation currently shown and appended to.
type ActiveSession struct {
	ID       int64
	Messages []Message
}

// View is a snapshot of the controller state for rendering.
type View struct {
	Screen    Screen
	SessionID int64
	Messages  []Message
	// Pending is set while a request sent from the active session is in
	// flight.
	Pending bool
	// Busy is set while any request is in flight; sending is refused.
	Busy bool
}

// Controller drives the chat flow: it owns the active session, sends user
// input through a ChatClient and persists every appended message through a
// SessionStore.
//
// A Controller is not safe for concurrent use. Front ends call it from
// their UI goroutine; the only work done elsewhere is the request inside a
// Call, whose result is folded back in with Resolve.
type Controller struct {
	store  SessionStore
	client ChatClient
	now    func() time.Time
	logger *log.Logger

	active  ActiveSession
	screen  Screen
	pending *Call
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for session ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a Controller showing a fresh, empty session.
func NewController(store SessionStore, client ChatClient, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		client: client,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, o := range opts {
		o(c)
	}
	c.reset()
	return c
}

// Active returns a copy of the active session.
func (c *Controller) Active() ActiveSession {
	return ActiveSession{ID: c.active.ID, Messages: append([]Message(nil), c.active.Messages...)}
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	return View{
		Screen:    c.screen,
		SessionID: c.active.ID,
		Messages:  append([]Message(nil), c.active.Messages...),
		Pending:   c.pending != nil && c.pending.SessionID == c.active.ID,
		Busy:      c.pending != nil,
	}
}

// History returns the persisted sessions, newest first.
func (c *Controller) History() History {
	return c.store.Load()
}

// NewChat persists the active session if it has any messages and starts a
// fresh one on the welcome screen.
func (c *Controller) NewChat() {
	if len(c.active.Messages) > 0 {
		c.persist()
	}
	c.reset()
}

// Submit appends the user message, persists it and starts the request. The
// returned Call must be handed back to Resolve once it is done.
//
// It returns ErrEmptyMessage when both text and image are empty and
// ErrBusy while another request is in flight; neither changes any state.
func (c *Controller) Submit(text string, image *Attachment) (*Call, error) {
	text = strings.TrimSpace(text)
	if text == "" && image == nil {
		return nil, ErrEmptyMessage
	}
	if c.pending != nil {
		return nil, ErrBusy
	}

	msg := Message{Role: RoleUser, Text: text}
	if image != nil {
		msg.Image = image.DataURL()
	}
	c.active.Messages = append(c.active.Messages, msg)
	c.screen = ScreenChat
	c.persist()

	c.logger.Debug("sending message", "session", c.active.ID, "chars", len(text), "image", image != nil)
	c.pending = startCall(context.Background(), c.active.ID, c.client, Outgoing{Text: text, Image: image})
	return c.pending, nil
}

// Resolve waits for call and appends the assistant message it produced:
// the reply text, or ConnectionLostText on failure. The message goes to the
// session the call was sent from, even if the user has switched sessions
// meanwhile. Resolving a call that is not pending is a no-op and returns
// false.
func (c *Controller) Resolve(call *Call) (Message, bool) {
	if call == nil || call != c.pending {
		return Message{}, false
	}
	reply, err := call.Wait()
	c.pending = nil

	msg := Message{Role: RoleAssistant, Text: reply}
	if err != nil {
		c.logger.Warn("chat request failed", "session", call.SessionID, "err", err)
		msg.Text = ConnectionLostText
	}

	if call.SessionID == c.active.ID {
		c.active.Messages = append(c.active.Messages, msg)
		c.persist()
		return msg, true
	}

	stored, ok := c.store.Load().Find(call.SessionID)
	if !ok {
		c.logger.Warn("reply for deleted session dropped", "session", call.SessionID)
		return msg, true
	}
	s := NewSession(stored.ID, append(stored.Messages, msg), c.now())
	if err := c.store.Save(s); err != nil {
		c.logger.Warn("save session", "session", s.ID, "err", err)
	}
	return msg, true
}

// Send submits and waits for the reply. If ctx ends first the request is
// cancelled and the connection-lost reply is recorded.
func (c *Controller) Send(ctx context.Context, text string, image *Attachment) (Message, error) {
	call, err := c.Submit(text, image)
	if err != nil {
		return Message{}, err
	}
	select {
	case <-call.Done():
	case <-ctx.Done():
		call.Cancel()
	}
	msg, _ := c.Resolve(call)
	return msg, nil
}

// LoadSession replaces the active session with a persisted one and shows
// the conversation view.
func (c *Controller) LoadSession(id int64) error {
	s, ok := c.store.Load().Find(id)
	if !ok {
		return fmt.Errorf("load session %d: %w", id, ErrSessionNotFound)
	}
	c.active = ActiveSession{ID: s.ID, Messages: s.Messages}
	c.screen = ScreenChat
	return nil
}

// DeleteSession removes a persisted session and returns the remaining
// history. Deleting the active session resets to an empty welcome session
// without persisting it again. Callers are expected to have asked the user
// for confirmation.
func (c *Controller) DeleteSession(id int64) (History, error) {
	h, err := c.store.Delete(id)
	if err != nil {
		return nil, fmt.Errorf("delete session %d: %w", id, err)
	}
	if id == c.active.ID {
		c.reset()
	}
	return h, nil
}

func (c *Controller) reset() {
	id := c.now().UnixMilli()
	if id <= c.active.ID {
		id = c.active.ID + 1
	}
	c.active = ActiveSession{ID: id}
	c.screen = ScreenWelcome
}

func (c *Controller) persist() {
	s := NewSession(c.active.ID, c.active.Messages, c.now())
	if err := c.store.Save(s); err != nil {
		c.logger.Warn("save session", "session", s.ID, "err", err)
	}
}
