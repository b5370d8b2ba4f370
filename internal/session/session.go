// Package session holds the state of one opened chapter or juz: the fetch
// lifecycle, the loaded verses and the error shown when loading fails.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// Gateway fetches content. *api.Client satisfies it.
type Gateway interface {
	FetchChapterContent(ctx context.Context, number int) (models.Chapter, []models.Verse, error)
	FetchPartContent(ctx context.Context, number int) (models.Part, []models.Verse, error)
}

// Recorder remembers what was opened last. *store.Store satisfies it.
type Recorder interface {
	SetLastRead(lr models.LastRead) error
}

// State is the lifecycle of a session
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Kind says whether a session reads a chapter or a juz
type Kind int

const (
	KindChapter Kind = iota
	KindPart
)

// Session is safe for concurrent use; bubbletea runs Load on its own
// goroutine while the view reads the state.
type Session struct {
	kind     Kind
	number   int
	gateway  Gateway
	recorder Recorder
	log      logger.Logger

	mu      sync.RWMutex
	state   State
	chapter models.Chapter
	part    models.Part
	verses  []models.Verse
	err     error
	gen     int
}

// NewChapter creates an idle session for chapter n
func NewChapter(gw Gateway, rec Recorder, log logger.Logger, n int) *Session {
	return newSession(KindChapter, gw, rec, log, n)
}

// NewPart creates an idle session for juz n
func NewPart(gw Gateway, rec Recorder, log logger.Logger, n int) *Session {
	return newSession(KindPart, gw, rec, log, n)
}

func newSession(kind Kind, gw Gateway, rec Recorder, log logger.Logger, n int) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		kind:     kind,
		number:   n,
		gateway:  gw,
		recorder: rec,
		log:      log.With(logger.String("component", "session")),
	}
}

// Load fetches the content. It always goes to the network, so calling it
// again after a failure is the retry. When two loads overlap only the most
// recent one is applied.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = StateLoading
	s.err = nil
	s.mu.Unlock()

	var (
		chapter models.Chapter
		part    models.Part
		verses  []models.Verse
		err     error
	)
	switch s.kind {
	case KindPart:
		part, verses, err = s.gateway.FetchPartContent(ctx, s.number)
	default:
		chapter, verses, err = s.gateway.FetchChapterContent(ctx, s.number)
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return err
	}
	if err != nil {
		s.state = StateFailed
		s.verses = nil
		s.err = err
		s.mu.Unlock()
		s.log.Warn("load failed", logger.String("target", s.Title()), logger.Error(err))
		return err
	}
	s.state = StateReady
	s.chapter = chapter
	s.part = part
	s.verses = verses
	s.mu.Unlock()

	s.recordLastRead(chapter, part)
	s.log.Debug("loaded", logger.String("target", s.Title()), logger.Int("verses", len(verses)))
	return nil
}

func (s *Session) recordLastRead(chapter models.Chapter, part models.Part) {
	if s.recorder == nil {
		return
	}
	var lr models.LastRead
	if s.kind == KindPart {
		lr = models.LastRead{Kind: models.LastReadPart, Part: &part}
	} else {
		lr = models.LastRead{Kind: models.LastReadChapter, Chapter: &chapter}
	}
	if err := s.recorder.SetLastRead(lr); err != nil {
		s.log.Error("record last read", logger.Error(err))
	}
}

// Kind returns what the session reads
func (s *Session) Kind() Kind { return s.kind }

// Number returns the chapter or juz number
func (s *Session) Number() int { return s.number }

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Chapter returns the loaded chapter metadata. Zero for part sessions.
func (s *Session) Chapter() models.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chapter
}

// Part returns the loaded juz. Zero for chapter sessions.
func (s *Session) Part() models.Part {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.part
}

// Verses returns a copy of the loaded verses
func (s *Session) Verses() []models.Verse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Verse, len(s.verses))
	copy(out, s.verses)
	return out
}

// Err returns the last load error, if the session is Failed
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Message returns the text to show for a failed load
func (s *Session) Message() string {
	return common.UserMessage(s.Err())
}

// Title returns a header label, falling back to the number before loading
func (s *Session) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.kind {
	case KindPart:
		if s.part.Name != "" {
			return fmt.Sprintf("Juz %d - %s", s.part.Number, s.part.Name)
		}
		return fmt.Sprintf("Juz %d", s.number)
	default:
		if s.chapter.EnglishName != "" {
			return fmt.Sprintf("%d. %s", s.chapter.Number, s.chapter.EnglishName)
		}
		return fmt.Sprintf("Surah %d", s.number)
	}
}

// VerseRef returns the chapter:verse reference for the verse at index i
func (s *Session) VerseRef(i int) (models.VerseRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.verses) {
		return models.VerseRef{}, false
	}
	return s.verses[i].Ref(s.chapter.Number), true
}
