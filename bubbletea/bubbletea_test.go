package bubbletea_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/xanadium"
	bt "github.com/fwojciec/xanadium/bubbletea"
	xjson "github.com/fwojciec/xanadium/json"
	"github.com/fwojciec/xanadium/mock"
	"github.com/stretchr/testify/require"
)

func stripANSI(s string) string {
	return ansi.Strip(s)
}

// stepClock returns a clock advancing one second per call.
func stepClock() func() time.Time {
	var n atomic.Int64
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

type fixture struct {
	store *xjson.Store
	ctrl  *xanadium.Controller
}

func newFixture(t *testing.T, chat func(ctx context.Context, out xanadium.Outgoing) (string, error)) *fixture {
	t.Helper()
	store := xjson.NewStore(&mock.MemSlot{})
	ctrl := xanadium.NewController(store, &mock.ChatClient{ChatFn: chat}, xanadium.WithClock(stepClock()))
	return &fixture{store: store, ctrl: ctrl}
}

func echo(_ context.Context, out xanadium.Outgoing) (string, error) {
	return "echo: " + out.Text, nil
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, ctrl *xanadium.Controller, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(ctrl, opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// send types text, presses Enter and delivers the reply once the call
// resolves.
func send(t *testing.T, m bt.Model, text string) bt.Model {
	t.Helper()
	m.Input.SetValue(text)
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	call := bt.PendingCall(m)
	require.NotNil(t, call)
	<-call.Done()
	return updateModel(t, m, bt.ReplyMsg{Call: call})
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
