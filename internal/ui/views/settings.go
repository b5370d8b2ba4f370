package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/mushaf-t/internal/ui/styles"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

type settingRow int

const (
	rowLanguage settingRow = iota
	rowFontSize
	rowDarkMode
	settingRows
)

// SettingsView edits the display preferences
type SettingsView struct {
	deps Deps
	info []string // read-only lines, e.g. server and storage

	cursor int

	width  int
	height int
}

// NewSettingsView creates the settings screen. info lines are shown below the
// editable rows.
func NewSettingsView(deps Deps, info ...string) *SettingsView {
	return &SettingsView{deps: deps, info: info, width: 80, height: 24}
}

// Init implements View
func (v *SettingsView) Init() tea.Cmd {
	return nil
}

// Update implements View
func (v *SettingsView) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "j", "down":
		v.cursor = min(v.cursor+1, int(settingRows)-1)
	case "k", "up":
		v.cursor = max(v.cursor-1, 0)
	case "enter", " ", "l", "right", "+", "=":
		return v, v.adjust(1)
	case "h", "left", "-":
		return v, v.adjust(-1)
	}
	return v, nil
}

// adjust changes the selected preference; dir only matters for font size
func (v *SettingsView) adjust(dir int) tea.Cmd {
	st := v.deps.Store
	switch settingRow(v.cursor) {
	case rowLanguage:
		st.ToggleLanguage()
	case rowFontSize:
		if dir > 0 {
			st.IncreaseFontSize()
		} else {
			st.DecreaseFontSize()
		}
	case rowDarkMode:
		st.ToggleDarkMode()
	}
	return NotifyPreferences(st.Preferences())
}

// View implements View
func (v *SettingsView) View() string {
	prefs := v.deps.Store.Preferences()

	language := "English"
	if prefs.Language == models.LanguageArabic {
		language = "العربية (translation hidden)"
	}
	theme := "Off"
	if prefs.DarkMode {
		theme = "On"
	}

	rows := []struct{ label, value string }{
		{"Language", language},
		{"Font size", fmt.Sprintf("%d  (%d-%d)", prefs.FontSize, models.MinFontSize, models.MaxFontSize)},
		{"Dark mode", theme},
	}

	var b strings.Builder
	b.WriteString(styles.TitleBar.Render(" Settings ") + "\n\n")
	for i, r := range rows {
		line := fmt.Sprintf("%-12s %s", r.label, r.value)
		if i == v.cursor {
			b.WriteString(styles.ListItemSelected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(styles.ListItem.Render("  "+line) + "\n")
		}
	}

	if len(v.info) > 0 {
		b.WriteString("\n")
		for _, line := range v.info {
			b.WriteString(styles.ListItemDimmed.Render(line) + "\n")
		}
	}
	if n := v.deps.Store.WriteFailures(); n > 0 {
		b.WriteString("\n" + styles.ErrorStyle.Render(fmt.Sprintf("%d settings could not be saved; see the log", n)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpLine("j/k", "nav", "enter/l", "change", "h", "decrease", "esc", "back"))
	return b.String()
}

// SetSize implements View
func (v *SettingsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}
