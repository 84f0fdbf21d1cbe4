package bubbletea

import "github.com/fwojciec/xanadium"

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent(m.ctrl.View())
}

// PendingCall returns the in-flight call, if any.
func PendingCall(m Model) *xanadium.Call {
	return m.call
}

// SidebarView renders the history sidebar at the given size.
func SidebarView(m Model, width, height int) string {
	return m.sidebar.view(width, height, m.ctrl.View().SessionID, m.styles)
}

// SidebarCursor returns the index of the highlighted history entry.
func SidebarCursor(m Model) int {
	return m.sidebar.cursor
}
