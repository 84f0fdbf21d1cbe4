package bubbletea

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/xanadium"
)

var _ tea.Model = Model{}

type mode int

const (
	modeChat mode = iota
	modeAttach
	modeHistory
)

// Layout constants.
const (
	inputHeight  = 3
	statusHeight = 1
	gapHeight    = 2 // newlines between sections
	blockGap     = "\n\n"
)

// Model is the Bubble Tea model for the chat TUI. It renders the state of
// a xanadium.Controller and feeds user input back into it.
type Model struct {
	// Input is the message editor. Exported for test access.
	Input textarea.Model
	// Path is the attachment path prompt. Exported for test access.
	Path textinput.Model
	// Viewport is the scrollable conversation area. Exported for test access.
	Viewport viewport.Model

	ctrl    *xanadium.Controller
	theme   xanadium.Theme
	styles  Styles
	logout  LogoutFunc
	spinner spinner.Model

	blocks    []MessageBlock
	blocksFor int64 // session the blocks were built for

	call    *xanadium.Call
	image   *xanadium.Attachment
	sidebar sidebar
	mode    mode
	notice  string
	err     error

	width  int
	height int
	ready  bool
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the color theme.
func WithTheme(t xanadium.Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithLogout enables Ctrl+L.
func WithLogout(f LogoutFunc) Option {
	return func(m *Model) { m.logout = f }
}

// New creates a TUI Model over ctrl.
func New(ctrl *xanadium.Controller, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	// Enter sends; the model handles it before the textarea sees it.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	path := textinput.New()
	path.Prompt = "Image path: "
	path.Placeholder = "~/Pictures/photo.png"

	m := Model{
		Input:   ta,
		Path:    path,
		ctrl:    ctrl,
		theme:   xanadium.DefaultTheme(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	for _, o := range opts {
		o(&m)
	}
	m.styles = NewStyles(m.theme)
	m.spinner.Style = m.styles.Pending
	return m
}

// Busy returns whether a request is in flight.
func (m Model) Busy() bool { return m.call != nil }

// Err returns the last error shown in the status line, if any.
func (m Model) Err() error { return m.err }

// Notice returns the last informational status text.
func (m Model) Notice() string { return m.notice }

// Attachment returns the image queued for the next message, if any.
func (m Model) Attachment() *xanadium.Attachment { return m.image }

// SidebarOpen returns whether the history sidebar is shown.
func (m Model) SidebarOpen() bool { return m.sidebar.open }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case LogoutMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("logout: %w", msg.Err)
			m.notice = ""
			return m, nil
		}
		m.err = nil
		m.notice = "Logged out."
		return m, nil

	case spinner.TickMsg:
		if m.call == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m = m.refresh(false)
		return m, cmd
	}

	// Mouse wheel and cursor blinks.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if m.mode == modeAttach {
		m.Path, cmd = m.Path.Update(msg)
	} else {
		m.Input, cmd = m.Input.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	main := m.Viewport.View()
	if m.sidebar.open {
		side := m.styles.Sidebar.Render(m.sidebar.view(SidebarWidth-2, m.Viewport.Height, m.ctrl.View().SessionID, m.styles))
		main = lipgloss.JoinHorizontal(lipgloss.Top, side, main)
	}

	var b strings.Builder
	b.WriteString(main)
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.mode == modeAttach {
		b.WriteString(m.Path.View())
	} else {
		b.WriteString(m.Input.View())
	}
	return b.String()
}

func (m Model) resize(width, height int) Model {
	m.width, m.height = width, height
	vpWidth := width
	if m.sidebar.open {
		vpWidth = max(width-SidebarWidth, 10)
	}
	vpHeight := max(height-inputHeight-statusHeight-gapHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = vpWidth
		m.Viewport.Height = vpHeight
	}
	m.Input.SetWidth(width)
	m.Path.Width = max(width-lipgloss.Width(m.Path.Prompt)-1, 1)
	return m.refresh(true)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.call != nil {
			m.call.Cancel()
			return m, nil
		}
		return m, tea.Quit
	}
	switch m.mode {
	case modeHistory:
		return m.historyKey(msg)
	case modeAttach:
		return m.attachKey(msg)
	}
	return m.chatKey(msg)
}

func (m Model) chatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlN:
		m.ctrl.NewChat()
		m.err = nil
		m.notice = ""
		return m.refresh(true), nil

	case tea.KeyCtrlO:
		if m.call != nil {
			return m, nil
		}
		m.mode = modeAttach
		m.Input.Blur()
		m.Path.Reset()
		cmd := m.Path.Focus()
		return m, cmd

	case tea.KeyCtrlX:
		if m.image != nil {
			m.image = nil
			m.notice = "Attachment removed."
		}
		return m, nil

	case tea.KeyCtrlR:
		m.mode = modeHistory
		m.Input.Blur()
		m.sidebar = m.sidebar.show(m.ctrl.History())
		return m.resize(m.width, m.height), nil

	case tea.KeyCtrlL:
		if m.logout == nil {
			m.notice = "Not signed in."
			return m, nil
		}
		if m.call != nil {
			m.notice = "Wait for the reply before logging out."
			return m, nil
		}
		m.notice = "Logging out..."
		return m, logoutCmd(m.logout)

	case tea.KeyEnter:
		if !msg.Alt {
			return m.submit()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	// Character keys go to the editor only; 'j', 'k' and space are also
	// viewport bindings.
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.call == nil {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	call, err := m.ctrl.Submit(m.Input.Value(), m.image)
	if err != nil {
		// Empty input or a request already in flight.
		return m, nil
	}
	m.Input.Reset()
	m.Input.Blur()
	m.image = nil
	m.call = call
	m.err = nil
	m.notice = ""
	m = m.refresh(true)
	return m, tea.Batch(waitForReply(call), m.spinner.Tick)
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	if _, ok := m.ctrl.Resolve(msg.Call); !ok {
		return m, nil
	}
	m.call = nil
	if m.sidebar.open {
		m.sidebar = m.sidebar.refresh(m.ctrl.History())
	}
	m = m.refresh(true)
	if m.mode != modeChat {
		return m, nil
	}
	cmd := m.Input.Focus()
	return m, cmd
}

func (m Model) attachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeChat
		m.Path.Blur()
		cmd := m.Input.Focus()
		return m, cmd

	case tea.KeyEnter:
		m.mode = modeChat
		m.Path.Blur()
		path := expandHome(strings.TrimSpace(m.Path.Value()))
		if path != "" {
			att, err := xanadium.LoadAttachment(path)
			if err != nil {
				m.err = err
			} else {
				m.image = &att
				m.err = nil
				m.notice = ""
			}
		}
		cmd := m.Input.Focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.Path, cmd = m.Path.Update(msg)
	return m, cmd
}

func (m Model) historyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sidebar.confirming {
		switch msg.String() {
		case "y", "Y":
			m.sidebar.confirming = false
			e, ok := m.sidebar.selected()
			if !ok {
				return m, nil
			}
			h, err := m.ctrl.DeleteSession(e.ID)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.notice = "Chat deleted."
			m.sidebar = m.sidebar.refresh(h)
			return m.refresh(true), nil
		case "n", "N", "esc":
			m.sidebar.confirming = false
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.sidebar = m.sidebar.move(-1)
	case "down", "j":
		m.sidebar = m.sidebar.move(1)
	case "d", "delete":
		if _, ok := m.sidebar.selected(); ok {
			m.sidebar.confirming = true
		}
	case "enter":
		if e, ok := m.sidebar.selected(); ok {
			if err := m.ctrl.LoadSession(e.ID); err != nil {
				m.err = err
			} else {
				m.err = nil
			}
		}
		return m.closeSidebar()
	case "ctrl+n":
		m.ctrl.NewChat()
		return m.closeSidebar()
	case "esc", "ctrl+r":
		return m.closeSidebar()
	}
	return m, nil
}

func (m Model) closeSidebar() (tea.Model, tea.Cmd) {
	m.sidebar.open = false
	m.sidebar.confirming = false
	m.mode = modeChat
	m = m.resize(m.width, m.height)
	if m.call != nil {
		return m, nil
	}
	cmd := m.Input.Focus()
	return m, cmd
}

// refresh brings the blocks in line with the controller and redraws the
// viewport. It follows the bottom when asked or when already there.
func (m Model) refresh(follow bool) Model {
	if !m.ready {
		return m
	}
	v := m.ctrl.View()
	if v.SessionID != m.blocksFor || len(m.blocks) > len(v.Messages) {
		m.blocks = nil
		m.blocksFor = v.SessionID
	}
	for _, msg := range v.Messages[len(m.blocks):] {
		m.blocks = append(m.blocks, m.newBlock(msg))
	}

	follow = follow || m.Viewport.AtBottom()
	m.Viewport.SetContent(m.renderContent(v))
	if follow {
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) newBlock(msg xanadium.Message) MessageBlock {
	if msg.Role == xanadium.RoleUser {
		return NewUserBlock(msg, m.styles)
	}
	return NewAssistantBlock(msg.Text, m.theme, m.styles)
}

func (m Model) renderContent(v xanadium.View) string {
	if v.Screen == xanadium.ScreenWelcome {
		return m.welcome()
	}
	width := m.Viewport.Width
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString(blockGap)
		}
		b.WriteString(block.View(width))
	}
	if v.Pending {
		if len(m.blocks) > 0 {
			b.WriteString(blockGap)
		}
		b.WriteString(NewPendingBlock(m.spinner.View(), m.styles).View(width))
	}
	return b.String()
}

func (m Model) welcome() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Accent.Render("X A N A D I U M"),
		"",
		"How can I help you today?",
		m.styles.Muted.Render("Type a message to start a new chat."),
	)
	return lipgloss.Place(m.Viewport.Width, m.Viewport.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) statusLine() string {
	var prefix string
	if m.image != nil {
		prefix = m.styles.Accent.Render("[image: "+m.image.Name+"]") + " "
	}
	switch {
	case m.err != nil:
		return prefix + m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.mode == modeHistory:
		return prefix + m.styles.Muted.Render("↑/↓ select, enter open, d delete, esc close")
	case m.mode == modeAttach:
		return prefix + m.styles.Muted.Render("Enter to attach, Esc to cancel")
	case m.call != nil:
		return prefix + m.styles.Pending.Render(m.spinner.View()+" Waiting for reply... Ctrl+C to cancel")
	case m.notice != "":
		return prefix + m.styles.Muted.Render(m.notice)
	}
	return prefix + m.styles.Muted.Render("Enter to send, Ctrl+O attach, Ctrl+R history, Ctrl+N new chat, Ctrl+C to quit")
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
