package xanadium

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values. A negative
// index means "no color".
type Theme struct {
	UserMsg   int // User bubble accent
	Assistant int // Assistant bubble accent
	Pending   int // Typing indicator
	Error     int // Connection errors, delete prompts
	Muted     int // Status bar, timestamps, placeholders
	Accent    int // Headings, links, brand
	Selected  int // Highlighted history entry
	CodeBg    int // Code block background
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 6,
		Pending:   8,
		Error:     1,
		Muted:     8,
		Accent:    12,
		Selected:  4,
		CodeBg:    0,
	}
}
