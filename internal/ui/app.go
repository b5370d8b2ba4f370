package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/internal/ui/styles"
	"github.com/justyntemme/mushaf-t/internal/ui/views"
)

// App is the main application model
type App struct {
	deps views.Deps
	keys KeyMap

	// Current view state
	currentView views.ViewType

	// Window dimensions
	width  int
	height int

	// View models
	homeView      views.View
	readerView    *views.ReaderView
	searchView    *views.SearchView
	bookmarksView *views.BookmarksView
	settingsView  views.View

	// Error/status message
	err      error
	showHelp bool
}

// NewApp creates a new application instance. settingsInfo lines are shown
// read-only on the settings screen.
func NewApp(deps views.Deps, settingsInfo ...string) *App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	app := &App{
		deps:        deps,
		keys:        DefaultKeyMap(),
		currentView: views.ViewHome,
		width:       80,
		height:      24,
	}

	styles.ApplyTheme(styles.ForDarkMode(deps.Store.Preferences().DarkMode))

	app.homeView = views.NewHomeView(deps)
	app.readerView = views.NewReaderView(deps)
	app.searchView = views.NewSearchView(deps)
	app.bookmarksView = views.NewBookmarksView(deps)
	app.settingsView = views.NewSettingsView(deps, settingsInfo...)

	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.getCurrentView().Init(),
		tea.SetWindowTitle("mushaf-t"),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Propagate to all views
		a.homeView.SetSize(msg.Width, msg.Height)
		a.readerView.SetSize(msg.Width, msg.Height)
		a.searchView.SetSize(msg.Width, msg.Height)
		a.bookmarksView.SetSize(msg.Width, msg.Height)
		a.settingsView.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// The search box owns every key while typing
		if a.currentView == views.ViewSearch && a.searchView.Typing() && msg.String() != "ctrl+c" {
			break
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			if msg.String() == "ctrl+c" || a.currentView == views.ViewHome {
				a.closeViews()
				return a, tea.Quit
			}
			return a.switchView(views.ViewHome)

		case key.Matches(msg, a.keys.Help):
			a.showHelp = !a.showHelp
			return a, nil

		case key.Matches(msg, a.keys.Escape):
			if a.showHelp {
				a.showHelp = false
				return a, nil
			}
			if a.err != nil {
				a.err = nil
				return a, nil
			}
			if a.currentView != views.ViewHome {
				return a.switchView(views.ViewHome)
			}
		}

	case views.OpenChapterMsg:
		a.readerView.OpenChapter(msg.Number, msg.Verse)
		return a.switchView(views.ViewReader)

	case views.OpenPartMsg:
		a.readerView.OpenPart(msg.Number)
		return a.switchView(views.ViewReader)

	case views.PreferencesChangedMsg:
		styles.ApplyTheme(styles.ForDarkMode(msg.Preferences.DarkMode))
		a.deps.Log.Debug("preferences changed",
			logger.String("language", msg.Preferences.Language),
			logger.Int("font_size", msg.Preferences.FontSize),
			logger.Bool("dark_mode", msg.Preferences.DarkMode))
		var cmd tea.Cmd
		a.readerView, cmd = updateAs[*views.ReaderView](a.readerView, msg)
		return a, cmd

	case views.ErrorMsg:
		a.err = msg.Err
		return a, nil

	case views.ClearErrorMsg:
		a.err = nil
		return a, nil

	case views.SwitchViewMsg:
		return a.switchView(msg.View)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.currentView {
	case views.ViewHome:
		a.homeView, cmd = a.homeView.Update(msg)
	case views.ViewReader:
		a.readerView, cmd = updateAs[*views.ReaderView](a.readerView, msg)
	case views.ViewSearch:
		a.searchView, cmd = updateAs[*views.SearchView](a.searchView, msg)
	case views.ViewBookmarks:
		a.bookmarksView, cmd = updateAs[*views.BookmarksView](a.bookmarksView, msg)
	case views.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}
	return a, cmd
}

// updateAs forwards msg to a concrete view and keeps its concrete type
func updateAs[T views.View](v T, msg tea.Msg) (T, tea.Cmd) {
	next, cmd := v.Update(msg)
	if t, ok := next.(T); ok {
		return t, cmd
	}
	return v, cmd
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return a.renderHelp()
	}

	content := a.getCurrentView().View()

	// Add error bar if there's an error
	if a.err != nil {
		errorBar := styles.ErrorStyle.Render("Error: " + common.UserMessage(a.err))
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorBar)
	}
	return content
}

// switchView changes the current view and initializes it
func (a *App) switchView(view views.ViewType) (*App, tea.Cmd) {
	// Recitation belongs to the screen that started it
	switch a.currentView {
	case views.ViewReader:
		if view != views.ViewReader {
			a.readerView.Close()
		}
	case views.ViewBookmarks:
		a.bookmarksView.Close()
	}

	a.currentView = view
	a.err = nil

	return a, a.getCurrentView().Init()
}

func (a *App) closeViews() {
	a.readerView.Close()
	a.bookmarksView.Close()
}

// getCurrentView returns the current view model
func (a *App) getCurrentView() views.View {
	switch a.currentView {
	case views.ViewReader:
		return a.readerView
	case views.ViewSearch:
		return a.searchView
	case views.ViewBookmarks:
		return a.bookmarksView
	case views.ViewSettings:
		return a.settingsView
	default:
		return a.homeView
	}
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Keyboard Shortcuts") + "\n")
	for _, section := range a.keys.helpSections() {
		b.WriteString("\n" + styles.HelpKey.Render(section.title) + "\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-9s %s\n", h.Key, h.Desc))
		}
	}

	help := styles.Dialog.Width(min(60, a.width-4)).Render(strings.TrimRight(b.String(), "\n"))

	// Center the help dialog
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		help,
	)
}
