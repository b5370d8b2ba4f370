package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/justyntemme/mushaf-t/internal/config"
	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T, kv KV) *Store {
	t.Helper()
	s := Open(context.Background(), kv, logger.Nop(), WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(func() { _ = s.w.stop(context.Background()) })
	return s
}

// failingKV rejects every write
type failingKV struct {
	mu     sync.Mutex
	writes int
}

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (f *failingKV) Set(context.Context, string, string) error {
	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
	return errors.New("disk on fire")
}

func (f *failingKV) Close() error { return nil }

func TestOpenDefaults(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())

	assert.Equal(t, models.DefaultPreferences(), s.Preferences())
	assert.Empty(t, s.Bookmarks())
	assert.Nil(t, s.LastRead())
}

func TestAddBookmarkIsIdempotent(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())

	first, added := s.AddBookmark(2, 255)
	require.True(t, added)
	assert.Equal(t, models.BookmarkID(2, 255), first.ID)
	assert.Equal(t, "2026-03-01T12:00:00Z", first.Date)

	again, added := s.AddBookmark(2, 255)
	assert.False(t, added)
	assert.Equal(t, first, again)
	assert.Len(t, s.Bookmarks(), 1)
}

func TestBookmarksNewestFirst(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())

	s.AddBookmark(1, 1)
	s.AddBookmark(2, 255)
	s.AddBookmark(36, 1)

	var refs []string
	for _, b := range s.Bookmarks() {
		refs = append(refs, b.Ref().String())
	}
	assert.Equal(t, []string{"36:1", "2:255", "1:1"}, refs)
}

func TestRemoveBookmark(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())
	b, _ := s.AddBookmark(18, 10)
	s.AddBookmark(18, 11)

	assert.False(t, s.RemoveBookmark("no-such-id"))
	assert.Len(t, s.Bookmarks(), 2)

	assert.True(t, s.RemoveBookmark(b.ID))
	assert.False(t, s.IsBookmarked(18, 10))
	assert.True(t, s.IsBookmarked(18, 11))
}

func TestToggleBookmark(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())

	assert.True(t, s.ToggleBookmark(112, 1))
	assert.True(t, s.IsBookmarked(112, 1))
	assert.False(t, s.ToggleBookmark(112, 1))
	assert.False(t, s.IsBookmarked(112, 1))
	assert.Empty(t, s.Bookmarks())
}

func TestBookmarksReturnsCopy(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())
	s.AddBookmark(1, 1)

	got := s.Bookmarks()
	got[0].VerseNumber = 99
	assert.Equal(t, 1, s.Bookmarks()[0].VerseNumber)
}

func TestFontSizeClamping(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())

	for n := 0; n < 9; n++ {
		s.IncreaseFontSize()
	}
	assert.Equal(t, models.MaxFontSize, s.Preferences().FontSize)

	for n := 0; n < 20; n++ {
		s.DecreaseFontSize()
	}
	assert.Equal(t, models.MinFontSize, s.Preferences().FontSize)

	assert.Equal(t, 20, s.SetFontSize(20))
	assert.Equal(t, models.MaxFontSize, s.SetFontSize(100))
}

func TestLanguageAndTheme(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())

	assert.Equal(t, models.LanguageArabic, s.ToggleLanguage())
	assert.Equal(t, models.LanguageEnglish, s.ToggleLanguage())

	s.SetLanguage("fr")
	assert.Equal(t, models.LanguageEnglish, s.Preferences().Language)
	s.SetLanguage(models.LanguageArabic)
	assert.Equal(t, models.LanguageArabic, s.Preferences().Language)

	assert.True(t, s.ToggleDarkMode())
	s.SetDarkMode(false)
	assert.False(t, s.Preferences().DarkMode)
}

func TestSetLastRead(t *testing.T) {
	s := openTestStore(t, NewMemoryKV())

	err := s.SetLastRead(models.LastRead{Kind: "page"})
	assert.Error(t, err)
	assert.Nil(t, s.LastRead())

	require.NoError(t, s.MarkChapterRead(models.Chapter{Number: 36, EnglishName: "Ya-Sin"}))
	lr := s.LastRead()
	require.NotNil(t, lr)
	assert.Equal(t, models.LastReadChapter, lr.Kind)
	assert.Equal(t, "2026-03-01T12:00:00Z", lr.Timestamp)

	require.NoError(t, s.MarkPartRead(models.Part{Number: 30, Name: "Amma"}))
	lr = s.LastRead()
	require.NotNil(t, lr)
	assert.Equal(t, models.LastReadPart, lr.Kind)
	assert.Nil(t, lr.Chapter)
	assert.Equal(t, 30, lr.Part.Number)
}

func TestRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) KV{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"sqlite": func(t *testing.T) KV {
			kv, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "state.db"))
			require.NoError(t, err)
			return kv
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := open(t)

			s := Open(ctx, kv, logger.Nop())
			s.AddBookmark(2, 255)
			s.AddBookmark(1, 5)
			s.SetLanguage(models.LanguageArabic)
			s.SetFontSize(22)
			s.SetDarkMode(true)
			require.NoError(t, s.MarkPartRead(models.Part{Number: 2, Name: "Sayaqul"}))
			require.NoError(t, s.Flush(ctx))

			reloaded := Open(ctx, kv, logger.Nop())
			defer reloaded.Close(ctx)

			assert.Equal(t, models.Preferences{Language: "ar", FontSize: 22, DarkMode: true}, reloaded.Preferences())
			assert.Equal(t, s.Bookmarks(), reloaded.Bookmarks())
			assert.Equal(t, s.LastRead(), reloaded.LastRead())
			assert.Zero(t, s.WriteFailures())
			require.NoError(t, s.w.stop(ctx))
		})
	}
}

func TestLastWriteWins(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := openTestStore(t, kv)

	for i := 0; i < 50; i++ {
		s.SetDarkMode(i%2 == 0)
	}
	s.SetFontSize(14)
	s.SetFontSize(26)
	require.NoError(t, s.Flush(ctx))

	dark, _, _ := kv.Get(ctx, KeyDarkMode)
	size, _, _ := kv.Get(ctx, KeyFontSize)
	assert.Equal(t, "false", dark)
	assert.Equal(t, "26", size)
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	kv := &failingKV{}

	s := Open(ctx, kv, logger.FromZap(zap.New(core)))
	defer s.Close(ctx)

	// Reads failed too, so the store starts from defaults
	assert.Equal(t, models.DefaultPreferences(), s.Preferences())

	_, added := s.AddBookmark(2, 255)
	assert.True(t, added)
	assert.True(t, s.IsBookmarked(2, 255))
	require.NoError(t, s.Flush(ctx))

	assert.Equal(t, int64(1), s.WriteFailures())
	assert.NotZero(t, logs.FilterMessage("write failed").Len())
	assert.Equal(t, len(AllKeys), logs.FilterMessage("read failed, using default").Len())
}

func TestOpenIgnoresBadValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	dup := models.NewBookmark(2, 255, fixedNow)
	data, err := json.Marshal([]models.Bookmark{dup, {ID: "stale", ChapterNumber: 2, VerseNumber: 255}, models.NewBookmark(1, 1, fixedNow)})
	require.NoError(t, err)

	require.NoError(t, kv.Set(ctx, KeyLanguage, "klingon"))
	require.NoError(t, kv.Set(ctx, KeyFontSize, "huge"))
	require.NoError(t, kv.Set(ctx, KeyDarkMode, "maybe"))
	require.NoError(t, kv.Set(ctx, KeyBookmarks, string(data)))
	require.NoError(t, kv.Set(ctx, KeyLastRead, `{"type":"chapter"}`))

	s := openTestStore(t, kv)

	assert.Equal(t, models.DefaultPreferences(), s.Preferences())
	assert.Len(t, s.Bookmarks(), 2)
	assert.Nil(t, s.LastRead())
}

func TestOpenClampsStoredFontSize(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyFontSize, "40"))

	s := openTestStore(t, kv)
	assert.Equal(t, models.MaxFontSize, s.Preferences().FontSize)
}

func TestFlushAfterClose(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryKV(), logger.Nop())
	require.NoError(t, s.Close(ctx))

	assert.ErrorIs(t, s.Flush(ctx), errWriterStopped)
}

func TestOpenKV(t *testing.T) {
	ctx := context.Background()

	kv, err := OpenKV(ctx, config.Storage{Driver: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	kv, err = OpenKV(ctx, config.Storage{SQLitePath: filepath.Join(t.TempDir(), "state.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	require.NoError(t, kv.Close())

	_, err = OpenKV(ctx, config.Storage{Driver: "etcd"})
	assert.Error(t, err)
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := openTestStore(t, kv)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.AddBookmark(2, v)
			s.ToggleDarkMode()
		}(i)
	}
	wg.Wait()
	require.NoError(t, s.Flush(ctx))

	assert.Len(t, s.Bookmarks(), 20)

	stored, ok, err := kv.Get(ctx, KeyBookmarks)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []models.Bookmark
	require.NoError(t, json.Unmarshal([]byte(stored), &persisted))
	assert.Len(t, persisted, 20)
}

func TestConcurrentWritesMatchMemory(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := openTestStore(t, kv)
	s.SetFontSize(models.MinFontSize)

	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for i := 1; i <= 8; i++ {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()
				s.AddBookmark(round+1, v)
			}(i)
		}
		wg.Wait()
	}

	var wg sync.WaitGroup
	for n := 0; n < 5; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncreaseFontSize()
		}()
	}
	wg.Wait()
	require.NoError(t, s.Flush(ctx))

	stored, _, err := kv.Get(ctx, KeyBookmarks)
	require.NoError(t, err)
	var persisted []models.Bookmark
	require.NoError(t, json.Unmarshal([]byte(stored), &persisted))
	assert.Equal(t, s.Bookmarks(), persisted)

	assert.Equal(t, models.MinFontSize+5*models.FontSizeStep, s.Preferences().FontSize)
	size, _, _ := kv.Get(ctx, KeyFontSize)
	assert.Equal(t, "22", size)
}
