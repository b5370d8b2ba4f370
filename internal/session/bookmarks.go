package session

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/mushaf-t/internal/logger"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// maxChapterFetches bounds concurrent chapter fetches while resolving
const maxChapterFetches = 4

// ResolvedBookmark is a bookmark with its verse content attached. Verse is nil
// when the chapter could not be fetched or no longer has that verse.
type ResolvedBookmark struct {
	models.Bookmark
	ChapterName string
	Verse       *models.Verse
	Err         error
}

// ResolveBookmarks fetches each bookmarked chapter once and attaches the
// verse text. A failed chapter leaves its bookmarks bare instead of failing
// the whole list. Output order matches the input.
func ResolveBookmarks(ctx context.Context, gw Gateway, log logger.Logger, bookmarks []models.Bookmark) []ResolvedBookmark {
	if log == nil {
		log = logger.Nop()
	}

	type chapterResult struct {
		chapter models.Chapter
		verses  []models.Verse
		err     error
	}

	var (
		mu      sync.Mutex
		results = make(map[int]chapterResult)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxChapterFetches)
	seen := make(map[int]bool)
	for _, b := range bookmarks {
		n := b.ChapterNumber
		if seen[n] {
			continue
		}
		seen[n] = true
		g.Go(func() error {
			ch, verses, err := gw.FetchChapterContent(gctx, n)
			if err != nil {
				log.Warn("resolve bookmark chapter", logger.Int("chapter", n), logger.Error(err))
			}
			mu.Lock()
			results[n] = chapterResult{chapter: ch, verses: verses, err: err}
			mu.Unlock()
			// never cancel siblings; one bad chapter must not blank the list
			return nil
		})
	}
	_ = g.Wait()

	out := make([]ResolvedBookmark, len(bookmarks))
	for i, b := range bookmarks {
		r := results[b.ChapterNumber]
		rb := ResolvedBookmark{Bookmark: b, ChapterName: r.chapter.EnglishName, Err: r.err}
		if r.err == nil {
			for j := range r.verses {
				if r.verses[j].Number == b.VerseNumber {
					v := r.verses[j]
					rb.Verse = &v
					break
				}
			}
		}
		out[i] = rb
	}
	return out
}
