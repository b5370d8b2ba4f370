package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/justyntemme/mushaf-t/internal/audio"
	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/internal/parts"
	"github.com/justyntemme/mushaf-t/internal/session"
	"github.com/justyntemme/mushaf-t/internal/ui/styles"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// ReaderView displays the verses of one chapter or juz
type ReaderView struct {
	deps Deps

	sess        *session.Session
	verses      []models.Verse
	targetVerse int // verse to select once loaded, 0 for the first

	// Laid out content. lineVerse maps each line to its verse index, -1 for
	// chapter dividers and spacing.
	lines      []string
	lineVerse  []int
	blockStart []int
	blockEnd   []int
	lineOffset int
	cursor     int

	// State
	loading   bool
	spinner   spinner.Model
	statusMsg string

	// Dimensions
	width  int
	height int
}

// NewReaderView creates a new reader view
func NewReaderView(deps Deps) *ReaderView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &ReaderView{
		deps:    deps,
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// OpenChapter points the reader at a chapter, selecting verse once loaded
func (v *ReaderView) OpenChapter(number, verse int) {
	v.reset(session.NewChapter(v.deps.Gateway, v.deps.Store, v.deps.Log, number), verse)
}

// OpenPart points the reader at a juz
func (v *ReaderView) OpenPart(number int) {
	v.reset(session.NewPart(v.deps.Gateway, v.deps.Store, v.deps.Log, number), 0)
}

func (v *ReaderView) reset(sess *session.Session, verse int) {
	v.sess = sess
	v.targetVerse = verse
	v.verses = nil
	v.lines = nil
	v.lineVerse = nil
	v.blockStart = nil
	v.blockEnd = nil
	v.lineOffset = 0
	v.cursor = 0
	v.statusMsg = ""
}

// Close stops any recitation started from this screen
func (v *ReaderView) Close() {
	if v.deps.Audio != nil {
		v.deps.Audio.Stop()
	}
}

// Message types
type sessionLoadedMsg struct {
	sess *session.Session
	err  error
}

type audioResultMsg struct {
	status string
	err    error
}

// outcome returns the status line for a playback result. Failures go to the
// app error bar; a success clears a stale one.
func (m audioResultMsg) outcome() (string, tea.Cmd) {
	if m.err == nil {
		return m.status, ClearError()
	}
	err := m.err
	if !errors.Is(err, common.ErrAudio) {
		err = fmt.Errorf("%w: %w", common.ErrAudio, err)
	}
	return "", SendError(err)
}

// Init implements View
func (v *ReaderView) Init() tea.Cmd {
	if v.sess == nil {
		return nil
	}
	return v.load()
}

func (v *ReaderView) load() tea.Cmd {
	v.loading = true
	sess := v.sess
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		err := sess.Load(context.Background())
		return sessionLoadedMsg{sess: sess, err: err}
	})
}

// Update implements View
func (v *ReaderView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		v.statusMsg = ""
		return v.handleKeyMsg(msg)

	case sessionLoadedMsg:
		if msg.sess != v.sess {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.verses = nil
			v.layout()
			return v, nil
		}
		v.verses = v.sess.Verses()
		v.layout()
		v.selectTarget()
		return v, nil

	case audioResultMsg:
		var cmd tea.Cmd
		v.statusMsg, cmd = msg.outcome()
		v.layout()
		return v, cmd

	case PreferencesChangedMsg:
		v.layout()
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

// handleKeyMsg handles key presses in the reader
func (v *ReaderView) handleKeyMsg(msg tea.KeyMsg) (View, tea.Cmd) {
	if v.sess == nil {
		return v, nil
	}
	if v.loading {
		return v, nil
	}
	if v.sess.State() == session.StateFailed {
		if msg.String() == "r" {
			return v, v.load()
		}
		return v, nil
	}

	switch msg.String() {
	case "j", "down":
		if v.cursor == len(v.verses)-1 {
			return v, v.continueIntoNextChapter()
		}
		v.selectVerse(v.cursor + 1)
	case "k", "up":
		v.selectVerse(v.cursor - 1)
	case "ctrl+d", "pgdown":
		v.scroll(v.visibleLines() / 2)
	case "ctrl+u", "pgup":
		v.scroll(-v.visibleLines() / 2)
	case "g", "home":
		v.selectVerse(0)
	case "G", "end":
		v.selectVerse(len(v.verses) - 1)
	case "n", "l":
		return v, v.step(1)
	case "p", "h":
		return v, v.step(-1)
	case "b":
		v.toggleBookmark()
	case " ", "a":
		return v, v.toggleAudio()
	case "x":
		if v.deps.Audio != nil {
			v.deps.Audio.Stop()
			v.layout()
		}
	case "+", "=":
		v.deps.Store.IncreaseFontSize()
		v.relayout()
		return v, NotifyPreferences(v.deps.Store.Preferences())
	case "-":
		v.deps.Store.DecreaseFontSize()
		v.relayout()
		return v, NotifyPreferences(v.deps.Store.Preferences())
	case "L":
		v.deps.Store.ToggleLanguage()
		v.relayout()
		return v, NotifyPreferences(v.deps.Store.Preferences())
	case "r":
		return v, v.load()
	}
	return v, nil
}

// step moves to the next or previous chapter or juz
func (v *ReaderView) step(delta int) tea.Cmd {
	next := v.sess.Number() + delta
	v.Close()
	if v.sess.Kind() == session.KindPart {
		if next < 1 || next > models.PartCount {
			return nil
		}
		v.OpenPart(next)
	} else {
		if next < 1 || next > models.ChapterCount {
			return nil
		}
		v.OpenChapter(next, 0)
	}
	return v.load()
}

// continueIntoNextChapter opens the chapter after the last verse of a surah.
// Juz keep their own end.
func (v *ReaderView) continueIntoNextChapter() tea.Cmd {
	if v.sess.Kind() != session.KindChapter {
		return nil
	}
	ref, ok := v.currentRef()
	if !ok {
		return nil
	}
	next, ok := parts.Next(ref)
	if !ok || next.Chapter == ref.Chapter {
		return nil
	}
	v.Close()
	v.OpenChapter(next.Chapter, next.Verse)
	return v.load()
}

func (v *ReaderView) currentRef() (models.VerseRef, bool) {
	return v.sess.VerseRef(v.cursor)
}

func (v *ReaderView) toggleBookmark() {
	ref, ok := v.currentRef()
	if !ok {
		return
	}
	if v.deps.Store.ToggleBookmark(ref.Chapter, ref.Verse) {
		v.statusMsg = "Bookmarked " + ref.String()
	} else {
		v.statusMsg = "Removed bookmark " + ref.String()
	}
	v.layout()
}

func (v *ReaderView) toggleAudio() tea.Cmd {
	if v.deps.Audio == nil || v.cursor >= len(v.verses) {
		return nil
	}
	url := v.verses[v.cursor].Audio
	if url == "" {
		v.statusMsg = "No recitation for this verse"
		return nil
	}
	ref, _ := v.currentRef()
	ctrl, log := v.deps.Audio, v.deps.Log
	return func() tea.Msg {
		if err := ctrl.Toggle(context.Background(), url); err != nil {
			log.Warn("audio toggle failed", logger.String("verse", ref.String()), logger.Error(err))
			return audioResultMsg{err: err}
		}
		return audioResultMsg{status: fmt.Sprintf("%s %s", ctrl.State(), ref)}
	}
}

// selectTarget moves the cursor to the verse requested when opening
func (v *ReaderView) selectTarget() {
	if v.targetVerse <= 0 {
		v.selectVerse(0)
		return
	}
	for i, verse := range v.verses {
		if verse.Number == v.targetVerse {
			v.selectVerse(i)
			return
		}
	}
	v.selectVerse(0)
}

// selectVerse moves the cursor and scrolls so the whole verse is visible
func (v *ReaderView) selectVerse(i int) {
	if len(v.verses) == 0 {
		return
	}
	v.cursor = min(max(i, 0), len(v.verses)-1)
	visible := v.visibleLines()
	start, end := v.blockStart[v.cursor], v.blockEnd[v.cursor]
	if start < v.lineOffset {
		v.lineOffset = start
	} else if end > v.lineOffset+visible {
		v.lineOffset = min(start, end-visible)
	}
}

// scroll scrolls the content by delta lines and selects the first verse in
// view
func (v *ReaderView) scroll(delta int) {
	v.lineOffset += delta
	maxOffset := max(0, len(v.lines)-v.visibleLines())
	v.lineOffset = min(max(v.lineOffset, 0), maxOffset)

	for i, start := range v.blockStart {
		if start >= v.lineOffset {
			v.cursor = i
			return
		}
	}
}

// relayout rewraps while keeping the selected verse in view
func (v *ReaderView) relayout() {
	v.layout()
	v.selectVerse(v.cursor)
}

// wrapWidth narrows the text column as the font grows, since a terminal
// cannot change its glyph size
func (v *ReaderView) wrapWidth() int {
	base := v.width - 6
	size := v.deps.Store.Preferences().FontSize
	scaled := base * models.DefaultFontSize / max(size, 1)
	return min(max(scaled, 20), max(base, 20))
}

// layout wraps every verse into display lines
func (v *ReaderView) layout() {
	v.lines = v.lines[:0]
	v.lineVerse = v.lineVerse[:0]
	v.blockStart = make([]int, len(v.verses))
	v.blockEnd = make([]int, len(v.verses))

	width := v.wrapWidth()
	prefs := v.deps.Store.Preferences()
	fallback := v.sess.Chapter().Number
	playing := ""
	if v.deps.Audio != nil && v.deps.Audio.State() != audio.Stopped {
		playing = v.deps.Audio.Current()
	}

	add := func(line string, verse int) {
		v.lines = append(v.lines, line)
		v.lineVerse = append(v.lineVerse, verse)
	}

	lastChapter := 0
	for i, verse := range v.verses {
		if verse.ChapterNumber != 0 && verse.ChapterNumber != lastChapter {
			lastChapter = verse.ChapterNumber
			add(styles.ChapterDivider.Render(fmt.Sprintf("Surah %d  %s", verse.ChapterNumber, verse.ChapterName)), -1)
			add("", -1)
		}

		v.blockStart[i] = len(v.lines)

		ref := verse.Ref(fallback)
		marker := styles.VerseNumber.Render(fmt.Sprintf("(%s)", ref))
		if v.deps.Store.IsBookmarked(ref.Chapter, ref.Verse) {
			marker += " " + styles.BookmarkMark.Render("★")
		}
		if playing != "" && verse.Audio == playing {
			marker += " " + styles.SecondaryText.Render("♪")
		}
		add(marker, i)

		for _, line := range strings.Split(wordwrap.String(verse.Text, width), "\n") {
			add(styles.VerseArabic.Render(line), i)
		}
		if prefs.Language == models.LanguageEnglish && verse.Translation != "" {
			for _, line := range strings.Split(wordwrap.String(verse.Translation, width), "\n") {
				add(styles.VerseTrans.Render(line), i)
			}
		}

		v.blockEnd[i] = len(v.lines)
		add("", -1)
	}
}

// View implements View
func (v *ReaderView) View() string {
	if v.sess == nil {
		return styles.ErrorStyle.Render("Nothing selected")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader() + "\n")

	area := v.height - 4
	switch {
	case v.loading:
		b.WriteString(centered(v.width, area, v.spinner.View()+styles.MutedText.Render(" Loading "+v.sess.Title()+"...")))
		return b.String()
	case v.sess.State() == session.StateFailed:
		b.WriteString(centered(v.width, area,
			styles.ErrorStyle.Render(v.sess.Message())+"\n"+
				styles.Help.Render("press ")+styles.HelpKey.Render("r")+styles.Help.Render(" to retry, ")+
				styles.HelpKey.Render("esc")+styles.Help.Render(" to go back")))
		return b.String()
	case len(v.verses) == 0:
		b.WriteString(centered(v.width, area, styles.MutedText.Render("No verses")))
		return b.String()
	}

	visible := v.visibleLines()
	for i := v.lineOffset; i < min(v.lineOffset+visible, len(v.lines)); i++ {
		gutter := "  "
		if v.lineVerse[i] == v.cursor {
			gutter = styles.BookmarkMark.Render("┃ ")
		}
		b.WriteString(" " + gutter + v.lines[i] + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())
	return b.String()
}

// SetSize implements View
func (v *ReaderView) SetSize(width, height int) {
	v.width = width
	v.height = height
	if len(v.verses) > 0 {
		v.relayout()
	}
}

// renderHeader renders the reader header with progress
func (v *ReaderView) renderHeader() string {
	title := v.sess.Title()
	if v.deps.Store.Preferences().Language == models.LanguageArabic && v.sess.Chapter().Name != "" {
		title = v.sess.Chapter().Name
	}
	titlePart := styles.ReaderHeader.Render(" " + styles.TruncateText(title, max(10, v.width/2)) + " ")

	if len(v.verses) == 0 {
		return titlePart
	}

	progress := float64(v.cursor+1) / float64(len(v.verses))
	right := styles.Help.Render(fmt.Sprintf(" Verse %d/%d ", v.cursor+1, len(v.verses))) +
		renderProgressBar(12, progress) +
		styles.ReaderProgress.Render(fmt.Sprintf(" %d%%", int(progress*100)))
	return spread(v.width, titlePart, right)
}

// renderProgressBar renders a visual progress bar using Unicode block characters
// width is the total character width, progress is 0.0-1.0
func renderProgressBar(width int, progress float64) string {
	width = max(width, 3)
	progress = min(max(progress, 0), 1)

	const (
		empty    = "░"
		filled   = "█"
		partials = "▏▎▍▌▋▊▉" // 1/8 to 7/8 filled
	)

	filledWidth := progress * float64(width)
	fullBlocks := int(filledWidth)
	remainder := filledWidth - float64(fullBlocks)

	var bar strings.Builder
	for i := 0; i < fullBlocks && i < width; i++ {
		bar.WriteString(filled)
	}
	if fullBlocks < width && remainder > 0 {
		if idx := min(int(remainder*8), 7); idx > 0 {
			bar.WriteRune([]rune(partials)[idx-1])
			fullBlocks++
		}
	}
	for i := fullBlocks; i < width; i++ {
		bar.WriteString(empty)
	}
	return bar.String()
}

// renderFooter renders the status line or key help
func (v *ReaderView) renderFooter() string {
	if v.statusMsg != "" {
		return styles.FooterBar.Width(v.width).Render(styles.SecondaryText.Render(v.statusMsg))
	}
	prefs := v.deps.Store.Preferences()
	size := styles.MutedText.Render(fmt.Sprintf("[%dpt %s]", prefs.FontSize, strings.ToUpper(prefs.Language)))
	help := helpLine(
		"j/k", "verse",
		"n/p", "next/prev",
		"b", "bookmark",
		"space", "play",
		"x", "stop",
		"+/-", "size",
		"L", "lang",
		"esc", "back",
	)
	return styles.FooterBar.Width(v.width).Render(spread(v.width, help, size))
}

// visibleLines returns the number of visible content lines
func (v *ReaderView) visibleLines() int {
	return max(1, v.height-5)
}
