package styles

import "github.com/charmbracelet/lipgloss"

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Core colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	// UI element colors
	Border        lipgloss.Color
	Selection     lipgloss.Color
	SelectionText lipgloss.Color
	Meccan        lipgloss.Color
	Medinan       lipgloss.Color
	BadgeText     lipgloss.Color
}

// Built-in themes
var (
	// LightTheme is the default, a parchment page with green accents
	LightTheme = Theme{
		Name:          "light",
		Primary:       lipgloss.Color("#1B5E20"),
		Secondary:     lipgloss.Color("#00796B"),
		Accent:        lipgloss.Color("#B8860B"),
		Background:    lipgloss.Color("#FBF8EF"),
		Foreground:    lipgloss.Color("#1F2937"),
		Success:       lipgloss.Color("#059669"),
		Error:         lipgloss.Color("#DC2626"),
		Muted:         lipgloss.Color("#6B7280"),
		Border:        lipgloss.Color("#D6CFB8"),
		Selection:     lipgloss.Color("#1B5E20"),
		SelectionText: lipgloss.Color("#FFFFFF"),
		Meccan:        lipgloss.Color("#B8860B"),
		Medinan:       lipgloss.Color("#00796B"),
		BadgeText:     lipgloss.Color("#FFFFFF"),
	}

	// DarkTheme is used when dark mode is on
	DarkTheme = Theme{
		Name:          "dark",
		Primary:       lipgloss.Color("#4CAF50"),
		Secondary:     lipgloss.Color("#4DB6AC"),
		Accent:        lipgloss.Color("#E0B84B"),
		Background:    lipgloss.Color("#111827"),
		Foreground:    lipgloss.Color("#F3F4F6"),
		Success:       lipgloss.Color("#10B981"),
		Error:         lipgloss.Color("#EF4444"),
		Muted:         lipgloss.Color("#9CA3AF"),
		Border:        lipgloss.Color("#374151"),
		Selection:     lipgloss.Color("#2E7D32"),
		SelectionText: lipgloss.Color("#F9FAFB"),
		Meccan:        lipgloss.Color("#E0B84B"),
		Medinan:       lipgloss.Color("#4DB6AC"),
		BadgeText:     lipgloss.Color("#111827"),
	}

	currentTheme = LightTheme
)

// ForDarkMode returns the theme matching the dark mode preference
func ForDarkMode(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// ApplyTheme updates all global styles to use the given theme's colors
func ApplyTheme(theme Theme) {
	currentTheme = theme

	Primary = theme.Primary
	Secondary = theme.Secondary
	Accent = theme.Accent
	Success = theme.Success
	Error = theme.Error
	Muted = theme.Muted
	Background = theme.Background
	Foreground = theme.Foreground
	Border = theme.Border

	TitleBar = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	StatusBar = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 1)

	FooterBar = lipgloss.NewStyle().
		Foreground(theme.Muted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(theme.Border)

	Help = lipgloss.NewStyle().
		Foreground(theme.Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
		Foreground(theme.Muted)

	SecondaryText = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(theme.Success).
		Bold(true).
		Padding(0, 1)

	InputField = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	InputFieldFocused = InputField.
		BorderForeground(theme.Primary)

	ListItem = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 2)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Selection).
		Padding(0, 2).
		Bold(true)

	ListItemDimmed = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 2)

	ReaderHeader = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	ReaderProgress = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Align(lipgloss.Right)

	VerseNumber = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	VerseArabic = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Bold(true)

	VerseTrans = lipgloss.NewStyle().
		Foreground(theme.Foreground)

	VerseSelected = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Primary).
		PaddingLeft(1)

	BookmarkMark = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	ChapterDivider = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Underline(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 2)

	CardTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	Tab = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Padding(0, 2)

	TabActive = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Underline(true).
		Bold(true).
		Padding(0, 2)

	BadgeMeccan = lipgloss.NewStyle().
		Foreground(theme.BadgeText).
		Background(theme.Meccan).
		Padding(0, 1)

	BadgeMedinan = lipgloss.NewStyle().
		Foreground(theme.BadgeText).
		Background(theme.Medinan).
		Padding(0, 1)

	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginBottom(1)
}

// init applies the default theme on package load
func init() {
	ApplyTheme(LightTheme)
}
