package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/internal/ui/styles"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

type homeTab int

const (
	tabChapters homeTab = iota
	tabParts
)

func (t homeTab) Label() string {
	if t == tabParts {
		return "Juz"
	}
	return "Surahs"
}

// HomeView lists chapters and parts with a continue-reading card on top
type HomeView struct {
	deps Deps

	chapters []models.Chapter
	parts    []models.Part
	tab      homeTab
	lists    [2]listCursor

	// State
	loading bool
	err     error
	spinner spinner.Model

	// Dimensions
	width  int
	height int
}

// NewHomeView creates the home screen
func NewHomeView(deps Deps) *HomeView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	v := &HomeView{
		deps:    deps,
		parts:   deps.Gateway.ListParts(),
		spinner: sp,
		width:   80,
		height:  24,
	}
	v.lists[tabParts].setSize(len(v.parts))
	return v
}

// chaptersLoadedMsg is sent when the chapter list arrives
type chaptersLoadedMsg struct {
	chapters []models.Chapter
	err      error
}

// Init implements View
func (v *HomeView) Init() tea.Cmd {
	if len(v.chapters) > 0 {
		return nil
	}
	v.loading = true
	return tea.Batch(v.spinner.Tick, v.loadChapters())
}

// Update implements View
func (v *HomeView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		list := &v.lists[v.tab]
		if list.handleNav(msg.String(), v.visibleLines()) {
			return v, nil
		}

		switch msg.String() {
		case "tab", "left", "right", "h", "l":
			v.tab = (v.tab + 1) % 2
		case "enter":
			return v, v.openSelected()
		case "c":
			return v, OpenLastRead(v.deps.Store.LastRead())
		case "/":
			return v, SwitchTo(ViewSearch)
		case "b":
			return v, SwitchTo(ViewBookmarks)
		case "s":
			return v, SwitchTo(ViewSettings)
		case "r":
			v.loading = true
			v.err = nil
			return v, tea.Batch(v.spinner.Tick, v.loadChapters())
		case "T":
			on := v.deps.Store.ToggleDarkMode()
			v.deps.Log.Debug("dark mode toggled from home", logger.Bool("on", on))
			return v, NotifyPreferences(v.deps.Store.Preferences())
		}

	case chaptersLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.chapters = msg.chapters
		v.lists[tabChapters].setSize(len(v.chapters))
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *HomeView) openSelected() tea.Cmd {
	list := v.lists[v.tab]
	switch v.tab {
	case tabParts:
		if list.cursor < len(v.parts) {
			n := v.parts[list.cursor].Number
			return func() tea.Msg { return OpenPartMsg{Number: n} }
		}
	default:
		if list.cursor < len(v.chapters) {
			n := v.chapters[list.cursor].Number
			return func() tea.Msg { return OpenChapterMsg{Number: n} }
		}
	}
	return nil
}

// View implements View
func (v *HomeView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader() + "\n")

	if card := v.renderContinueCard(); card != "" {
		b.WriteString(card + "\n")
	}
	b.WriteString(v.renderTabs() + "\n")

	area := v.visibleLines()
	switch {
	case v.tab == tabChapters && v.loading:
		b.WriteString(centered(v.width, area, v.spinner.View()+styles.MutedText.Render(" Loading surahs...")))
	case v.tab == tabChapters && v.err != nil:
		b.WriteString(centered(v.width, area,
			styles.ErrorStyle.Render(common.UserMessage(v.err))+"\n"+
				styles.Help.Render("press ")+styles.HelpKey.Render("r")+styles.Help.Render(" to retry")))
	case v.tab == tabChapters:
		v.renderChapterRows(&b, area)
	default:
		v.renderPartRows(&b, area)
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

// SetSize implements View
func (v *HomeView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *HomeView) renderHeader() string {
	title := styles.TitleBar.Render(" Mushaf ")
	prefs := v.deps.Store.Preferences()
	mode := "light"
	if prefs.DarkMode {
		mode = "dark"
	}
	info := styles.Help.Render(fmt.Sprintf(" %d bookmarks  %s  %s ", len(v.deps.Store.Bookmarks()), strings.ToUpper(prefs.Language), mode))
	return spread(v.width, title, info)
}

func (v *HomeView) renderContinueCard() string {
	lr := v.deps.Store.LastRead()
	if lr == nil {
		return ""
	}
	body := styles.CardTitle.Render("Continue reading") + "\n" +
		lr.Title() + "  " + styles.Help.Render("press ") + styles.HelpKey.Render("c")
	return styles.Card.Width(min(60, max(20, v.width-4))).Render(body)
}

func (v *HomeView) renderTabs() string {
	var tabs []string
	for _, t := range []homeTab{tabChapters, tabParts} {
		if t == v.tab {
			tabs = append(tabs, styles.TabActive.Render(t.Label()))
		} else {
			tabs = append(tabs, styles.Tab.Render(t.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v *HomeView) renderChapterRows(b *strings.Builder, visible int) {
	list := v.lists[tabChapters]
	start, end := list.window(visible)
	for i := start; i < end; i++ {
		ch := v.chapters[i]
		badge := styles.BadgeMedinan.Render("Medinan")
		if ch.IsMeccan() {
			badge = styles.BadgeMeccan.Render("Meccan ")
		}
		text := fmt.Sprintf("%3d  %-18s %-28s %3d verses",
			ch.Number, ch.EnglishName, styles.TruncateText(ch.EnglishNameTranslation, 28), ch.NumberOfAyahs)
		b.WriteString(v.renderRow(text+" ", badge, i == list.cursor) + "\n")
	}
}

func (v *HomeView) renderPartRows(b *strings.Builder, visible int) {
	list := v.lists[tabParts]
	start, end := list.window(visible)
	for i := start; i < end; i++ {
		p := v.parts[i]
		text := fmt.Sprintf("%3d  %-18s %s - %s", p.Number, p.Name, p.Start(), p.End())
		b.WriteString(v.renderRow(text, "", i == list.cursor) + "\n")
	}
}

func (v *HomeView) renderRow(text, badge string, selected bool) string {
	maxWidth := v.width - 6 - lipgloss.Width(badge)
	text = styles.TruncateText(text, maxWidth)
	if selected {
		return styles.ListItemSelected.Width(v.width).Render("▸ " + text + badge)
	}
	return styles.ListItem.Render("  " + text + badge)
}

func (v *HomeView) renderFooter() string {
	return helpLine(
		"j/k", "nav",
		"tab", "surahs/juz",
		"enter", "open",
		"c", "continue",
		"/", "search",
		"b", "bookmarks",
		"s", "settings",
		"q", "quit",
	)
}

// visibleLines returns the number of list rows that fit
func (v *HomeView) visibleLines() int {
	lines := v.height - 6
	if v.deps.Store.LastRead() != nil {
		lines -= 4
	}
	return max(1, lines)
}

// loadChapters fetches the chapter list from the API
func (v *HomeView) loadChapters() tea.Cmd {
	gw := v.deps.Gateway
	return func() tea.Msg {
		chapters, err := gw.ListChapters(context.Background())
		return chaptersLoadedMsg{chapters: chapters, err: err}
	}
}
