package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/ui/styles"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// SearchView runs a full-text search on the provider
type SearchView struct {
	deps Deps

	input   textinput.Model
	typing  bool
	query   string
	results []models.Verse
	list    listCursor
	seq     int

	// State
	loading bool
	err     error
	spinner spinner.Model

	// Dimensions
	width  int
	height int
}

// NewSearchView creates the search screen
func NewSearchView(deps Deps) *SearchView {
	input := textinput.New()
	input.Placeholder = "Search the translation..."
	input.CharLimit = 100
	input.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &SearchView{
		deps:    deps,
		input:   input,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// searchResultsMsg carries results for the query with the same sequence
type searchResultsMsg struct {
	seq     int
	results []models.Verse
	err     error
}

// Init implements View
func (v *SearchView) Init() tea.Cmd {
	v.typing = true
	v.input.Focus()
	return textinput.Blink
}

// Typing reports whether keys go to the query input
func (v *SearchView) Typing() bool {
	return v.typing
}

// Update implements View
func (v *SearchView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.typing {
			switch msg.String() {
			case "esc":
				v.typing = false
				v.input.Blur()
				return v, nil
			case "enter":
				v.typing = false
				v.input.Blur()
				return v, v.submit()
			default:
				var cmd tea.Cmd
				v.input, cmd = v.input.Update(msg)
				return v, cmd
			}
		}

		if v.list.handleNav(msg.String(), v.visibleLines()) {
			return v, nil
		}
		switch msg.String() {
		case "/", "i":
			v.typing = true
			v.input.Focus()
			return v, textinput.Blink
		case "enter":
			if v.list.cursor < len(v.results) {
				r := v.results[v.list.cursor]
				return v, func() tea.Msg {
					return OpenChapterMsg{Number: r.ChapterNumber, Verse: r.Number}
				}
			}
		case "b":
			if v.list.cursor < len(v.results) {
				r := v.results[v.list.cursor]
				v.deps.Store.ToggleBookmark(r.ChapterNumber, r.Number)
			}
		}

	case searchResultsMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		v.results = msg.results
		v.list = listCursor{}
		v.list.setSize(len(v.results))
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

func (v *SearchView) submit() tea.Cmd {
	q := strings.TrimSpace(v.input.Value())
	v.query = q
	v.seq++
	if q == "" {
		v.results = nil
		v.list = listCursor{}
		v.err = common.ErrInvalidQuery
		return nil
	}

	v.loading = true
	v.err = nil
	seq, gw := v.seq, v.deps.Gateway
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		results, err := gw.SearchVerses(context.Background(), q)
		return searchResultsMsg{seq: seq, results: results, err: err}
	})
}

// View implements View
func (v *SearchView) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleBar.Render(" Search ") + "\n")
	input := styles.InputField.Render(v.input.View())
	if v.typing {
		input = styles.InputFieldFocused.Render(v.input.View())
	}
	b.WriteString(input + "\n")

	area := v.visibleLines()
	switch {
	case v.loading:
		b.WriteString(centered(v.width, area, v.spinner.View()+styles.MutedText.Render(" Searching...")))
	case v.err != nil:
		b.WriteString(centered(v.width, area, styles.ErrorStyle.Render(common.UserMessage(v.err))))
	case v.query == "":
		b.WriteString(centered(v.width, area, styles.MutedText.Render("Type a word and press enter")))
	case len(v.results) == 0:
		b.WriteString(centered(v.width, area, styles.MutedText.Render(fmt.Sprintf("No verses match %q", v.query))))
	default:
		b.WriteString(styles.Help.Render(fmt.Sprintf(" %d results", len(v.results))) + "\n")
		start, end := v.list.window(area - 1)
		for i := start; i < end; i++ {
			b.WriteString(v.renderResult(v.results[i], i == v.list.cursor) + "\n")
		}
	}

	b.WriteString("\n")
	if v.typing {
		b.WriteString(helpLine("enter", "search", "esc", "results"))
	} else {
		b.WriteString(helpLine("j/k", "nav", "enter", "open", "b", "bookmark", "/", "edit query", "esc", "back"))
	}
	return b.String()
}

func (v *SearchView) renderResult(r models.Verse, selected bool) string {
	ref := models.VerseRef{Chapter: r.ChapterNumber, Verse: r.Number}
	mark := "  "
	if v.deps.Store.IsBookmarked(ref.Chapter, ref.Verse) {
		mark = "★ "
	}
	label := fmt.Sprintf("%-8s %-16s ", ref, styles.TruncateText(r.ChapterName, 16))
	line := mark + label + styles.TruncateText(r.Text, max(10, v.width-len(label)-8))
	if selected {
		return styles.ListItemSelected.Width(v.width).Render(line)
	}
	return styles.ListItem.Render(line)
}

// SetSize implements View
func (v *SearchView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = min(60, width-10)
}

func (v *SearchView) visibleLines() int {
	return max(1, v.height-7)
}
