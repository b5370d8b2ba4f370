package ui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/internal/store"
	"github.com/justyntemme/mushaf-t/internal/ui/styles"
	"github.com/justyntemme/mushaf-t/internal/ui/views"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

type emptyGateway struct{}

func (emptyGateway) FetchChapterContent(context.Context, int) (models.Chapter, []models.Verse, error) {
	return models.Chapter{Number: 1}, nil, nil
}

func (emptyGateway) FetchPartContent(context.Context, int) (models.Part, []models.Verse, error) {
	return models.Part{Number: 1}, nil, nil
}

func (emptyGateway) ListChapters(context.Context) ([]models.Chapter, error) { return nil, nil }

func (emptyGateway) ListParts() []models.Part { return nil }

func (emptyGateway) SearchVerses(context.Context, string) ([]models.Verse, error) { return nil, nil }

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()
	st := store.Open(context.Background(), store.NewMemoryKV(), logger.Nop())
	t.Cleanup(func() {
		_ = st.Close(context.Background())
		styles.ApplyTheme(styles.LightTheme)
	})
	return NewApp(views.Deps{Gateway: emptyGateway{}, Store: st}), st
}

func TestAppNavigation(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, views.ViewHome, app.currentView)

	app.Update(views.OpenChapterMsg{Number: 36})
	assert.Equal(t, views.ViewReader, app.currentView)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, views.ViewHome, app.currentView)

	app.Update(views.SwitchViewMsg{View: views.ViewSettings})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, views.ViewHome, app.currentView)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppSearchKeepsTypedKeys(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(views.SwitchViewMsg{View: views.ViewSearch})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, views.ViewSearch, app.currentView)

	// The first esc leaves the input, the second goes home
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, views.ViewSearch, app.currentView)
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, views.ViewHome, app.currentView)
}

func TestAppAppliesTheme(t *testing.T) {
	app, st := newTestApp(t)
	assert.Equal(t, styles.LightTheme.Name, styles.CurrentTheme().Name)

	st.SetDarkMode(true)
	app.Update(views.PreferencesChangedMsg{Preferences: st.Preferences()})
	assert.Equal(t, styles.DarkTheme.Name, styles.CurrentTheme().Name)
}

func TestAppHelpOverlay(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})

	out := app.View()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "toggle bookmark")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, app.showHelp)
}

func TestAppErrorBar(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(views.OpenChapterMsg{Number: 1})

	app.Update(views.ErrorMsg{Err: fmt.Errorf("mpv: %w", common.ErrAudio)})
	assert.Contains(t, app.View(), "Recitation is unavailable")

	// The first esc dismisses the error and stays in the reader
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NoError(t, app.err)
	assert.Equal(t, views.ViewReader, app.currentView)

	app.Update(views.ErrorMsg{Err: common.ErrNetwork})
	app.Update(views.ClearErrorMsg{})
	assert.NotContains(t, app.View(), "Error:")
}
