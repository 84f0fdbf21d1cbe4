package bubbletea

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/xanadium"
	"github.com/fwojciec/xanadium/goldmark"
)

var (
	_ MessageBlock = (*AssistantBlock)(nil)
	_ MessageBlock = (*PendingBlock)(nil)
)

// AssistantLabel heads every assistant bubble.
const AssistantLabel = "XanadiumAI"

// AssistantBlock renders a labelled reply as markdown. The connection-lost reply is
// shown in the error style instead. Renders are cached per width since a
// reply never changes once appended.
type AssistantBlock struct {
	text    string
	theme   xanadium.Theme
	styles  Styles
	byWidth map[int]string
}

// NewAssistantBlock creates an AssistantBlock for a reply text.
func NewAssistantBlock(text string, theme xanadium.Theme, styles Styles) *AssistantBlock {
	return &AssistantBlock{
		text:    text,
		theme:   theme,
		styles:  styles,
		byWidth: make(map[int]string),
	}
}

func (b *AssistantBlock) View(width int) string {
	if cached, ok := b.byWidth[width]; ok {
		return cached
	}
	var body string
	if b.text == xanadium.ConnectionLostText {
		body = lipgloss.NewStyle().Width(width).Render(b.styles.Error.Render(b.text))
	} else {
		body = goldmark.Render(b.text, width, b.theme)
	}
	label := lipgloss.NewStyle().Width(width).Render(b.styles.Assistant.Render(AssistantLabel))
	out := label + "\n" + body
	b.byWidth[width] = out
	return out
}

// PendingBlock is the typing indicator shown while a reply is awaited.
type PendingBlock struct {
	frame  string
	styles Styles
}

// NewPendingBlock creates a PendingBlock showing the current spinner frame.
func NewPendingBlock(frame string, styles Styles) *PendingBlock {
	return &PendingBlock{frame: frame, styles: styles}
}

func (b *PendingBlock) View(width int) string {
	return lipgloss.NewStyle().Width(width).Render(b.styles.Pending.Render(b.frame + " thinking..."))
}
