// Package store keeps the reader's preferences, bookmarks and last-read
// pointer in memory and writes them through to a durable KV backend.
//
// The in-memory state is authoritative for the session. Writes happen on a
// background goroutine; a backend failure is logged and counted and never
// returned to callers. A crash loses at most the writes still queued.
//
// # Usage
//
//	st := store.Open(ctx, kv, log)
//	defer st.Close(ctx)
//	st.AddBookmark(2, 255)
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// Persisted keys
const (
	KeyLanguage  = "language"
	KeyFontSize  = "fontSize"
	KeyDarkMode  = "darkMode"
	KeyBookmarks = "bookmarks"
	KeyLastRead  = "lastReadItem"
)

// AllKeys lists every key read at startup
var AllKeys = []string{KeyLanguage, KeyFontSize, KeyDarkMode, KeyBookmarks, KeyLastRead}

const defaultIOTimeout = 5 * time.Second

// Store is the process-wide preference and bookmark state. Construct one with
// Open at startup and pass it to whatever needs it.
type Store struct {
	kv  KV
	log logger.Logger
	now func() time.Time

	mu        sync.RWMutex
	prefs     models.Preferences
	bookmarks []models.Bookmark // newest first
	lastRead  *models.LastRead

	w        *writer
	failures atomic.Int64
}

// Option customizes a Store
type Option func(*Store)

// WithClock overrides the time source used for bookmark and last-read stamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads every key from kv into memory and starts the background writer.
// Unreadable values are logged and replaced by defaults.
func Open(ctx context.Context, kv KV, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		log:   log.With(logger.String("component", "store")),
		now:   time.Now,
		prefs: models.DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx)
	s.w = newWriter(kv, s.onWriteError)
	go s.w.run()
	return s
}

func (s *Store) load(ctx context.Context) {
	read := func(key string) (string, bool) {
		rctx, cancel := context.WithTimeout(ctx, defaultIOTimeout)
		defer cancel()
		v, ok, err := s.kv.Get(rctx, key)
		if err != nil {
			s.log.Error("read failed, using default",
				logger.String("key", key),
				logger.Error(fmt.Errorf("%w: %w", common.ErrStorage, err)))
			return "", false
		}
		return v, ok
	}

	if v, ok := read(KeyLanguage); ok {
		if models.IsValidLanguage(v) {
			s.prefs.Language = v
		} else {
			s.log.Warn("ignoring unknown language", logger.String("value", v))
		}
	}

	if v, ok := read(KeyFontSize); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.prefs.FontSize = models.ClampFontSize(n)
		} else {
			s.log.Warn("ignoring malformed font size", logger.String("value", v))
		}
	}

	if v, ok := read(KeyDarkMode); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			s.prefs.DarkMode = b
		} else {
			s.log.Warn("ignoring malformed dark mode flag", logger.String("value", v))
		}
	}

	if v, ok := read(KeyBookmarks); ok {
		var stored []models.Bookmark
		if err := json.Unmarshal([]byte(v), &stored); err != nil {
			s.log.Warn("ignoring malformed bookmarks", logger.Error(err))
		} else {
			s.bookmarks = dedupe(stored)
		}
	}

	if v, ok := read(KeyLastRead); ok {
		var lr models.LastRead
		if err := json.Unmarshal([]byte(v), &lr); err != nil {
			s.log.Warn("ignoring malformed last-read pointer", logger.Error(err))
		} else if err := lr.Validate(); err != nil {
			s.log.Warn("ignoring invalid last-read pointer", logger.Error(err))
		} else {
			s.lastRead = &lr
		}
	}

	s.log.Info("state loaded",
		logger.String("language", s.prefs.Language),
		logger.Int("font_size", s.prefs.FontSize),
		logger.Bool("dark_mode", s.prefs.DarkMode),
		logger.Int("bookmarks", len(s.bookmarks)),
		logger.Bool("has_last_read", s.lastRead != nil))
}

// dedupe recomputes ids and keeps the first bookmark per verse
func dedupe(in []models.Bookmark) []models.Bookmark {
	seen := make(map[string]bool, len(in))
	out := make([]models.Bookmark, 0, len(in))
	for _, b := range in {
		b.ID = models.BookmarkID(b.ChapterNumber, b.VerseNumber)
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		out = append(out, b)
	}
	return out
}

func (s *Store) onWriteError(key string, err error) {
	s.failures.Add(1)
	s.log.Error("write failed",
		logger.String("key", key),
		logger.Error(fmt.Errorf("%w: %w", common.ErrStorage, err)))
}

// WriteFailures returns how many background writes have failed so far
func (s *Store) WriteFailures() int64 {
	return s.failures.Load()
}

// Flush blocks until every write queued before the call has been attempted
func (s *Store) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close flushes pending writes, stops the writer and closes the backend
func (s *Store) Close(ctx context.Context) error {
	if err := s.w.stop(ctx); err != nil {
		return err
	}
	return s.kv.Close()
}

// Preferences returns the current preferences
func (s *Store) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetLanguage changes the UI language. Unsupported values are ignored.
func (s *Store) SetLanguage(lang string) {
	if !models.IsValidLanguage(lang) {
		s.log.Warn("ignoring unsupported language", logger.String("value", lang))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Language = lang
	s.w.enqueue(KeyLanguage, lang)
}

// ToggleLanguage switches between English and Arabic
func (s *Store) ToggleLanguage() string {
	s.mu.Lock()
	if s.prefs.Language == models.LanguageEnglish {
		s.prefs.Language = models.LanguageArabic
	} else {
		s.prefs.Language = models.LanguageEnglish
	}
	lang := s.prefs.Language
	s.w.enqueue(KeyLanguage, lang)
	s.mu.Unlock()
	return lang
}

// SetFontSize stores n clamped to the supported range and returns the
// stored value
func (s *Store) SetFontSize(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFontSizeLocked(n)
}

// IncreaseFontSize grows the font by one step
func (s *Store) IncreaseFontSize() int {
	return s.stepFontSize(models.FontSizeStep)
}

// DecreaseFontSize shrinks the font by one step
func (s *Store) DecreaseFontSize() int {
	return s.stepFontSize(-models.FontSizeStep)
}

func (s *Store) stepFontSize(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFontSizeLocked(s.prefs.FontSize + delta)
}

// setFontSizeLocked queues the write while s.mu is held so queue order
// matches memory order
func (s *Store) setFontSizeLocked(n int) int {
	n = models.ClampFontSize(n)
	s.prefs.FontSize = n
	s.w.enqueue(KeyFontSize, strconv.Itoa(n))
	return n
}

// SetDarkMode sets the theme flag
func (s *Store) SetDarkMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.DarkMode = on
	s.w.enqueue(KeyDarkMode, strconv.FormatBool(on))
}

// ToggleDarkMode flips the theme flag and returns the new value
func (s *Store) ToggleDarkMode() bool {
	s.mu.Lock()
	s.prefs.DarkMode = !s.prefs.DarkMode
	on := s.prefs.DarkMode
	s.w.enqueue(KeyDarkMode, strconv.FormatBool(on))
	s.mu.Unlock()
	return on
}

// Bookmarks returns a copy of the bookmarks, newest first
func (s *Store) Bookmarks() []models.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// IsBookmarked reports whether the verse is bookmarked
func (s *Store) IsBookmarked(chapter, verse int) bool {
	id := models.BookmarkID(chapter, verse)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// indexOf must be called with mu held
func (s *Store) indexOf(id string) int {
	for i, b := range s.bookmarks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// AddBookmark saves a verse. Adding an existing bookmark returns it unchanged
// with added=false.
func (s *Store) AddBookmark(chapter, verse int) (models.Bookmark, bool) {
	b := models.NewBookmark(chapter, verse, s.now())

	s.mu.Lock()
	if i := s.indexOf(b.ID); i >= 0 {
		existing := s.bookmarks[i]
		s.mu.Unlock()
		return existing, false
	}
	s.bookmarks = append([]models.Bookmark{b}, s.bookmarks...)
	s.w.enqueue(KeyBookmarks, s.bookmarksJSONLocked())
	s.mu.Unlock()
	return b, true
}

// RemoveBookmark deletes a bookmark by id. Unknown ids are a no-op.
func (s *Store) RemoveBookmark(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.bookmarks = append(s.bookmarks[:i:i], s.bookmarks[i+1:]...)
	s.w.enqueue(KeyBookmarks, s.bookmarksJSONLocked())
	s.mu.Unlock()
	return true
}

// ToggleBookmark adds or removes the verse and reports whether it is now
// bookmarked
func (s *Store) ToggleBookmark(chapter, verse int) bool {
	if s.RemoveBookmark(models.BookmarkID(chapter, verse)) {
		return false
	}
	_, added := s.AddBookmark(chapter, verse)
	return added
}

func (s *Store) bookmarksJSONLocked() string {
	data, err := json.Marshal(s.bookmarks)
	if err != nil {
		// Bookmarks are plain structs; this cannot fail
		panic(err)
	}
	return string(data)
}

// LastRead returns the last-read pointer, or nil when nothing has been opened
func (s *Store) LastRead() *models.LastRead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRead == nil {
		return nil
	}
	lr := *s.lastRead
	return &lr
}

// SetLastRead overwrites the last-read pointer
func (s *Store) SetLastRead(lr models.LastRead) error {
	if err := lr.Validate(); err != nil {
		return err
	}
	if lr.Timestamp == "" {
		lr.Timestamp = s.now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(lr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.lastRead = &lr
	s.w.enqueue(KeyLastRead, string(data))
	s.mu.Unlock()
	return nil
}

// MarkChapterRead records a chapter as last read
func (s *Store) MarkChapterRead(ch models.Chapter) error {
	return s.SetLastRead(models.NewChapterLastRead(ch, s.now()))
}

// MarkPartRead records a juz as last read
func (s *Store) MarkPartRead(p models.Part) error {
	return s.SetLastRead(models.NewPartLastRead(p, s.now()))
}
