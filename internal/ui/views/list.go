package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/mushaf-t/internal/ui/styles"
)

// listCursor tracks a selection in a scrolling list
type listCursor struct {
	cursor int
	offset int
	size   int
}

func (l *listCursor) setSize(n int) {
	l.size = n
	if l.cursor >= n {
		l.cursor = max(0, n-1)
	}
	if l.offset > l.cursor {
		l.offset = l.cursor
	}
}

// move moves the cursor by delta and keeps it within visible lines
func (l *listCursor) move(delta, visible int) {
	l.cursor += delta
	if l.cursor >= l.size {
		l.cursor = l.size - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.follow(visible)
}

func (l *listCursor) top() {
	l.cursor = 0
	l.offset = 0
}

func (l *listCursor) bottom(visible int) {
	l.cursor = max(0, l.size-1)
	l.follow(visible)
}

// follow ensures the cursor is visible
func (l *listCursor) follow(visible int) {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
}

// handleNav applies the shared vim-like list keys. It reports whether the key
// was consumed.
func (l *listCursor) handleNav(key string, visible int) bool {
	switch key {
	case "j", "down":
		l.move(1, visible)
	case "k", "up":
		l.move(-1, visible)
	case "g", "home":
		l.top()
	case "G", "end":
		l.bottom(visible)
	case "ctrl+d", "pgdown":
		l.move(max(1, visible/2), visible)
	case "ctrl+u", "pgup":
		l.move(-max(1, visible/2), visible)
	default:
		return false
	}
	return true
}

// window returns the [start, end) range of visible rows
func (l *listCursor) window(visible int) (int, int) {
	return l.offset, min(l.offset+visible, l.size)
}

// helpLine renders key hints as "key action" pairs
func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, styles.HelpKey.Render(pairs[i])+styles.Help.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// spread places left and right at the edges of width
func spread(width int, left, right string) string {
	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// centered renders a message in the middle of the content area
func centered(width, height int, text string) string {
	return lipgloss.Place(width, max(1, height), lipgloss.Center, lipgloss.Center, text)
}
