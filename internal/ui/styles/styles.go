package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Colors of the active theme
var (
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
)

// Styles of the active theme. ApplyTheme rebuilds all of them.
var (
	TitleBar  lipgloss.Style
	StatusBar lipgloss.Style
	FooterBar lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style

	InputField        lipgloss.Style
	InputFieldFocused lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemDimmed   lipgloss.Style

	// Reader
	ReaderHeader   lipgloss.Style
	ReaderProgress lipgloss.Style
	VerseNumber    lipgloss.Style
	VerseArabic    lipgloss.Style
	VerseTrans     lipgloss.Style
	VerseSelected  lipgloss.Style
	BookmarkMark   lipgloss.Style
	ChapterDivider lipgloss.Style

	// Home
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	BadgeMeccan  lipgloss.Style
	BadgeMedinan lipgloss.Style

	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
)

// Dimensions returns a style sized to the given box
func Dimensions(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Height(height)
}

// TruncateText shortens s to width terminal cells, adding an ellipsis
func TruncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
