// Package bubbletea provides the Bubble Tea terminal front end for a
// xanadium chat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/xanadium"
)

// LogoutFunc ends the remote session and drops local credentials.
type LogoutFunc func(ctx context.Context) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ReplyMsg signals that an in-flight call has resolved.
type ReplyMsg struct {
	Call *xanadium.Call
}

// LogoutMsg reports the outcome of a logout request.
type LogoutMsg struct {
	Err error
}

// waitForReply blocks until call resolves.
func waitForReply(call *xanadium.Call) tea.Cmd {
	return func() tea.Msg {
		<-call.Done()
		return ReplyMsg{Call: call}
	}
}

func logoutCmd(logout LogoutFunc) tea.Cmd {
	return func() tea.Msg {
		return LogoutMsg{Err: logout(context.Background())}
	}
}
