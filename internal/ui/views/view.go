package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/mushaf-t/internal/audio"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/internal/session"
	"github.com/justyntemme/mushaf-t/internal/store"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// ViewType represents different screens in the application
type ViewType int

const (
	ViewHome ViewType = iota
	ViewReader
	ViewSearch
	ViewBookmarks
	ViewSettings
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewReader:
		return "Reader"
	case ViewSearch:
		return "Search"
	case ViewBookmarks:
		return "Bookmarks"
	case ViewSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Gateway is the content source the views read from. *api.Client
// satisfies it.
type Gateway interface {
	session.Gateway
	ListChapters(ctx context.Context) ([]models.Chapter, error)
	ListParts() []models.Part
	SearchVerses(ctx context.Context, query string) ([]models.Verse, error)
}

// Deps are the long-lived objects the views share. The application owner
// builds them once at startup.
type Deps struct {
	Gateway Gateway
	Store   *store.Store
	Audio   *audio.Controller
	Log     logger.Logger
}

// Message types for inter-view communication

// OpenChapterMsg opens a chapter in the reader, optionally at a verse
type OpenChapterMsg struct {
	Number int
	Verse  int
}

// OpenPartMsg opens a juz in the reader
type OpenPartMsg struct {
	Number int
}

// PreferencesChangedMsg is sent after a display preference changes
type PreferencesChangedMsg struct {
	Preferences models.Preferences
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the current error
type ClearErrorMsg struct{}

// SwitchViewMsg requests a view switch
type SwitchViewMsg struct {
	View ViewType
}

// Helper functions to create messages

// SendError creates an error message command
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// ClearError creates a command to clear errors
func ClearError() tea.Cmd {
	return func() tea.Msg {
		return ClearErrorMsg{}
	}
}

// SwitchTo creates a command to switch views
func SwitchTo(view ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: view}
	}
}

// NotifyPreferences tells the app to re-read display preferences
func NotifyPreferences(p models.Preferences) tea.Cmd {
	return func() tea.Msg {
		return PreferencesChangedMsg{Preferences: p}
	}
}

// OpenLastRead returns the command that reopens a last-read pointer
func OpenLastRead(lr *models.LastRead) tea.Cmd {
	if lr == nil {
		return nil
	}
	switch {
	case lr.Kind == models.LastReadPart && lr.Part != nil:
		n := lr.Part.Number
		return func() tea.Msg { return OpenPartMsg{Number: n} }
	case lr.Kind == models.LastReadChapter && lr.Chapter != nil:
		n := lr.Chapter.Number
		return func() tea.Msg { return OpenChapterMsg{Number: n} }
	}
	return nil
}
