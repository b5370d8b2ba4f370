package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/parts"
	"github.com/justyntemme/mushaf-t/internal/session"
	"github.com/justyntemme/mushaf-t/internal/ui/styles"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// BookmarksView lists saved verses with their text
type BookmarksView struct {
	deps Deps

	items []session.ResolvedBookmark
	list  listCursor

	// State
	loading   bool
	statusMsg string
	spinner   spinner.Model

	// Dimensions
	width  int
	height int
}

// NewBookmarksView creates the bookmarks screen
func NewBookmarksView(deps Deps) *BookmarksView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &BookmarksView{
		deps:    deps,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// bookmarksResolvedMsg carries bookmarks with their verse text
type bookmarksResolvedMsg struct {
	items []session.ResolvedBookmark
}

// Init implements View
func (v *BookmarksView) Init() tea.Cmd {
	v.loading = true
	v.statusMsg = ""
	return tea.Batch(v.spinner.Tick, v.resolve())
}

func (v *BookmarksView) resolve() tea.Cmd {
	gw, log := v.deps.Gateway, v.deps.Log
	bookmarks := v.deps.Store.Bookmarks()
	return func() tea.Msg {
		return bookmarksResolvedMsg{items: session.ResolveBookmarks(context.Background(), gw, log, bookmarks)}
	}
}

// Close stops any recitation started from this screen
func (v *BookmarksView) Close() {
	if v.deps.Audio != nil {
		v.deps.Audio.Stop()
	}
}

// Update implements View
func (v *BookmarksView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		v.statusMsg = ""
		if v.list.handleNav(msg.String(), v.visibleItems()) {
			return v, nil
		}
		if v.list.cursor >= len(v.items) {
			if msg.String() == "r" {
				return v, v.Init()
			}
			return v, nil
		}
		item := v.items[v.list.cursor]

		switch msg.String() {
		case "enter":
			return v, func() tea.Msg {
				return OpenChapterMsg{Number: item.ChapterNumber, Verse: item.VerseNumber}
			}
		case "d", "x":
			v.deps.Store.RemoveBookmark(item.ID)
			if v.deps.Audio != nil && item.Verse != nil && item.Verse.Audio != "" {
				v.deps.Audio.StopIfActive(item.Verse.Audio)
			}
			v.items = append(v.items[:v.list.cursor:v.list.cursor], v.items[v.list.cursor+1:]...)
			v.list.setSize(len(v.items))
			v.statusMsg = "Removed " + item.Ref().String()
		case " ", "a":
			return v, v.toggleAudio(item)
		case "r":
			return v, v.Init()
		}

	case bookmarksResolvedMsg:
		v.loading = false
		v.items = msg.items
		v.list.setSize(len(v.items))
		return v, allFailed(v.items)

	case audioResultMsg:
		var cmd tea.Cmd
		v.statusMsg, cmd = msg.outcome()
		return v, cmd

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

// allFailed reports a fetch error when no bookmark could be resolved
func allFailed(items []session.ResolvedBookmark) tea.Cmd {
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if item.Err == nil {
			return nil
		}
	}
	return SendError(items[0].Err)
}

// toggleAudio plays the bookmarked verse, or stops it when it is already
// playing
func (v *BookmarksView) toggleAudio(item session.ResolvedBookmark) tea.Cmd {
	if v.deps.Audio == nil || item.Verse == nil || item.Verse.Audio == "" {
		v.statusMsg = "No recitation for this verse"
		return nil
	}
	ctrl, url, ref := v.deps.Audio, item.Verse.Audio, item.Ref()
	return func() tea.Msg {
		if ctrl.StopIfActive(url) {
			return audioResultMsg{status: "Stopped " + ref.String()}
		}
		if err := ctrl.Start(context.Background(), url); err != nil {
			return audioResultMsg{err: err}
		}
		return audioResultMsg{status: "Playing " + ref.String()}
	}
}

// View implements View
func (v *BookmarksView) View() string {
	var b strings.Builder

	b.WriteString(spread(v.width,
		styles.TitleBar.Render(" Bookmarks "),
		styles.Help.Render(fmt.Sprintf(" %d saved ", len(v.deps.Store.Bookmarks())))) + "\n\n")

	area := v.height - 5
	switch {
	case v.loading:
		b.WriteString(centered(v.width, area, v.spinner.View()+styles.MutedText.Render(" Loading bookmarks...")))
		return b.String()
	case len(v.items) == 0:
		b.WriteString(centered(v.width, area, styles.MutedText.Render("No bookmarks yet. Press 'b' on a verse in the reader.")))
	default:
		start, end := v.list.window(v.visibleItems())
		for i := start; i < end; i++ {
			b.WriteString(v.renderItem(v.items[i], i == v.list.cursor))
		}
	}

	b.WriteString("\n")
	if v.statusMsg != "" {
		b.WriteString(styles.SecondaryText.Render(v.statusMsg))
	} else {
		b.WriteString(helpLine("j/k", "nav", "enter", "open", "space", "play/stop", "d", "remove", "r", "refresh", "esc", "back"))
	}
	return b.String()
}

// renderItem renders a bookmark as a header line and a wrapped preview
func (v *BookmarksView) renderItem(item session.ResolvedBookmark, selected bool) string {
	ref := item.Ref()
	head := fmt.Sprintf("%s  %s", ref, item.ChapterName)
	if p, err := parts.ForRef(ref); err == nil {
		head += fmt.Sprintf("  (Juz %d)", p.Number)
	}
	if len(item.Date) >= 10 {
		head += "  " + item.Date[:10]
	}

	var preview string
	switch {
	case item.Err != nil:
		preview = styles.ErrorStyle.Render(common.UserMessage(item.Err))
	case item.Verse == nil:
		preview = styles.MutedText.Render("Verse unavailable")
	default:
		text := item.Verse.Text
		if v.deps.Store.Preferences().Language == models.LanguageEnglish && item.Verse.Translation != "" {
			text = item.Verse.Translation
		}
		lines := strings.Split(wordwrap.String(text, max(20, v.width-8)), "\n")
		if len(lines) > 2 {
			lines = append(lines[:2], "…")
		}
		preview = styles.MutedText.Render(strings.Join(lines, "\n    "))
	}

	if selected {
		return styles.ListItemSelected.Width(v.width).Render("▸ "+head) + "\n    " + preview + "\n"
	}
	return styles.ListItem.Render("  "+head) + "\n    " + preview + "\n"
}

// SetSize implements View
func (v *BookmarksView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// visibleItems returns how many bookmarks fit; each takes up to four lines
func (v *BookmarksView) visibleItems() int {
	return max(1, (v.height-5)/4)
}
