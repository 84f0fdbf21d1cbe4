package xanadium

import "context"

// Call is one in-flight request to the chat endpoint. It resolves exactly
// once; Done is closed at that point and Wait returns the outcome.
type Call struct {
	// SessionID is the session the request was sent from.
	SessionID int64

	cancel context.CancelFunc
	done   chan struct{}
	reply  string
	err    error
}

func startCall(parent context.Context, sessionID int64, client ChatClient, out Outgoing) *Call {
	ctx, cancel := context.WithCancel(parent)
	c := &Call{
		SessionID: sessionID,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go func() {
		defer cancel()
		c.reply, c.err = client.Chat(ctx, out)
		close(c.done)
	}()
	return c
}

// Done returns a channel closed when the call resolves.
func (c *Call) Done() <-chan struct{} { return c.done }

// Wait blocks until the call resolves and returns the reply text.
func (c *Call) Wait() (string, error) {
	<-c.done
	return c.reply, c.err
}

// Cancel aborts the request. The call still resolves, with the context
// error.
func (c *Call) Cancel() { c.cancel() }
