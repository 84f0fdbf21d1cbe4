package bubbletea

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/xanadium"
)

var _ MessageBlock = (*UserBlock)(nil)

// ImageMarker stands in for an attached image, which a terminal cannot
// show inline.
const ImageMarker = "[image]"

// UserBlock renders a user message with a "> " prefix.
type UserBlock struct {
	msg    xanadium.Message
	styles Styles
}

// NewUserBlock creates a UserBlock.
func NewUserBlock(msg xanadium.Message, styles Styles) *UserBlock {
	return &UserBlock{msg: msg, styles: styles}
}

func (b *UserBlock) View(width int) string {
	content := b.styles.UserMsg.Render("> ")
	if b.msg.HasImage() {
		content += b.styles.Muted.Render(ImageMarker)
		if b.msg.Text != "" {
			content += " "
		}
	}
	content += b.msg.Text
	return lipgloss.NewStyle().Width(width).Render(content)
}
