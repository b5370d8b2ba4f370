package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/internal/parts"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// fakeProvider serves a minimal alquran.cloud lookalike. Verse counts come
// from the static table so every chapter is well formed.
type fakeProvider struct {
	calls      atomic.Int32
	shortTrans int // when > 0, translation editions return this many ayahs
	failPath   string
	failStatus int
	delay      time.Duration
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1")
	if f.failPath != "" && path == f.failPath {
		w.WriteHeader(f.failStatus)
		_, _ = w.Write([]byte(`{"code":` + strconv.Itoa(f.failStatus) + `,"status":"ERROR","data":"failed"}`))
		return
	}

	segs := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(segs) == 1 && segs[0] == "surah":
		chapters := make([]map[string]any, 0, models.ChapterCount)
		for n := 1; n <= models.ChapterCount; n++ {
			chapters = append(chapters, surahJSON(n))
		}
		writeData(w, chapters)

	case len(segs) == 2 && segs[0] == "surah":
		n, _ := strconv.Atoi(segs[1])
		writeData(w, surahJSON(n))

	case len(segs) == 3 && segs[0] == "surah":
		n, _ := strconv.Atoi(segs[1])
		count := parts.VerseCount(n)
		if strings.HasPrefix(segs[2], "en.") && f.shortTrans > 0 {
			count = f.shortTrans
		}
		ayahs := make([]map[string]any, 0, count)
		for v := 1; v <= count; v++ {
			ayahs = append(ayahs, ayahJSON(segs[2], n, v, false))
		}
		data := surahJSON(n)
		data["ayahs"] = ayahs
		writeData(w, data)

	case len(segs) == 3 && segs[0] == "juz":
		n, _ := strconv.Atoi(segs[1])
		p, err := parts.Get(n)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var ayahs []map[string]any
		ref := p.Start()
		for {
			ayahs = append(ayahs, ayahJSON(segs[2], ref.Chapter, ref.Verse, true))
			if ref == p.End() {
				break
			}
			ref, _ = parts.Next(ref)
		}
		writeData(w, map[string]any{"number": n, "ayahs": ayahs})

	case len(segs) == 4 && segs[0] == "search":
		if segs[1] == "nothing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"status":"NOT FOUND","data":"Nothing found."}`))
			return
		}
		writeData(w, map[string]any{
			"count": 2,
			"matches": []map[string]any{
				ayahJSON("en.sahih", 2, 255, true),
				ayahJSON("en.sahih", 3, 2, true),
			},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func surahJSON(n int) map[string]any {
	return map[string]any{
		"number":                 n,
		"name":                   "سورة",
		"englishName":            fmt.Sprintf("Surah-%d", n),
		"englishNameTranslation": "Translation",
		"numberOfAyahs":          parts.VerseCount(n),
		"revelationType":         models.RevelationMeccan,
	}
}

func ayahJSON(edition string, chapter, verse int, withSurah bool) map[string]any {
	a := map[string]any{
		"number":        chapter*1000 + verse,
		"text":          fmt.Sprintf("%s %d:%d", edition, chapter, verse),
		"numberInSurah": verse,
	}
	if strings.HasPrefix(edition, "ar.") {
		a["audio"] = fmt.Sprintf("https://cdn.example/%d/%d.mp3", chapter, verse)
	}
	if withSurah {
		a["surah"] = surahJSON(chapter)
	}
	return a
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "status": "OK", "data": data})
}

func newTestClient(t *testing.T, f *fakeProvider, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/v1", opts...)
}

func TestListChapters(t *testing.T) {
	client := newTestClient(t, &fakeProvider{})

	chapters, err := client.ListChapters(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 114)
	assert.Equal(t, 7, chapters[0].NumberOfAyahs)
	assert.Equal(t, "Surah-114", chapters[113].EnglishName)
}

func TestListParts(t *testing.T) {
	client := NewClient("http://unused.invalid")
	assert.Len(t, client.ListParts(), 30)
}

func TestFetchChapterContentFirstChapter(t *testing.T) {
	f := &fakeProvider{}
	client := newTestClient(t, f)

	chapter, verses, err := client.FetchChapterContent(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, chapter.Number)
	require.Len(t, verses, 7)
	assert.Equal(t, int32(3), f.calls.Load())
	for i, v := range verses {
		assert.Equal(t, i+1, v.Number)
		assert.Equal(t, fmt.Sprintf("ar.alafasy 1:%d", i+1), v.Text)
		assert.Equal(t, fmt.Sprintf("en.asad 1:%d", i+1), v.Translation)
		assert.Equal(t, fmt.Sprintf("https://cdn.example/1/%d.mp3", i+1), v.Audio)
	}
}

func TestFetchChapterContentMatchesDeclaredCount(t *testing.T) {
	client := newTestClient(t, &fakeProvider{})

	for _, n := range []int{1, 2, 18, 55, 103, 114} {
		chapter, verses, err := client.FetchChapterContent(context.Background(), n)
		require.NoError(t, err, "chapter %d", n)
		assert.Len(t, verses, chapter.NumberOfAyahs, "chapter %d", n)
	}
}

func TestFetchChapterContentOutOfRange(t *testing.T) {
	f := &fakeProvider{}
	client := newTestClient(t, f)

	for _, n := range []int{0, 115, -3} {
		_, _, err := client.FetchChapterContent(context.Background(), n)
		assert.ErrorIs(t, err, common.ErrNotFound)
	}
	assert.Zero(t, f.calls.Load())
}

func TestFetchChapterContentErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		want   error
	}{
		{"translation server error", "/surah/1/en.asad", http.StatusInternalServerError, common.ErrNetwork},
		{"recitation missing", "/surah/1/ar.alafasy", http.StatusNotFound, common.ErrNotFound},
		{"metadata unavailable", "/surah/1", http.StatusBadGateway, common.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &fakeProvider{failPath: tt.path, failStatus: tt.status})

			_, verses, err := client.FetchChapterContent(context.Background(), 1)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, verses)
		})
	}
}

func TestFetchChapterContentMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"status":"OK","data":{"number":1,"ayahs":"oops"}}`))
	}))
	defer server.Close()

	_, _, err := NewClient(server.URL).FetchChapterContent(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestFetchChapterContentNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListChapters(context.Background())
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestFetchChapterContentShortTranslation(t *testing.T) {
	t.Run("lenient", func(t *testing.T) {
		client := newTestClient(t, &fakeProvider{shortTrans: 5})

		_, verses, err := client.FetchChapterContent(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, verses, 7)
		assert.NotEmpty(t, verses[4].Translation)
		assert.Empty(t, verses[5].Translation)
	})

	t.Run("strict", func(t *testing.T) {
		client := newTestClient(t, &fakeProvider{shortTrans: 5}, WithStrictAlignment(true))

		_, _, err := client.FetchChapterContent(context.Background(), 1)
		assert.ErrorIs(t, err, common.ErrParse)
	})
}

func TestFetchPartContent(t *testing.T) {
	client := newTestClient(t, &fakeProvider{})

	part, verses, err := client.FetchPartContent(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 30, part.Number)

	expected := 0
	for ch := 78; ch <= 114; ch++ {
		expected += parts.VerseCount(ch)
	}
	require.Len(t, verses, expected)

	first, last := verses[0], verses[len(verses)-1]
	assert.Equal(t, models.VerseRef{Chapter: 78, Verse: 1}, first.Ref(0))
	assert.Equal(t, "Surah-78", first.ChapterName)
	assert.Equal(t, models.VerseRef{Chapter: 114, Verse: 6}, last.Ref(0))
	assert.Equal(t, "en.asad 114:6", last.Translation)
}

func TestFetchPartContentOutOfRange(t *testing.T) {
	f := &fakeProvider{}
	client := newTestClient(t, f)

	_, _, err := client.FetchPartContent(context.Background(), 31)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Zero(t, f.calls.Load())
}

func TestSearchVerses(t *testing.T) {
	client := newTestClient(t, &fakeProvider{})

	verses, err := client.SearchVerses(context.Background(), "throne")
	require.NoError(t, err)
	require.Len(t, verses, 2)
	assert.Equal(t, 255, verses[0].Number)
	assert.Equal(t, 2, verses[0].ChapterNumber)
	assert.Equal(t, "Surah-2", verses[0].ChapterName)
}

func TestSearchVersesBlankQuery(t *testing.T) {
	f := &fakeProvider{}
	client := newTestClient(t, f)

	for _, q := range []string{"", "   ", "\t\n"} {
		verses, err := client.SearchVerses(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, verses)
		assert.NotNil(t, verses)
	}
	assert.Zero(t, f.calls.Load(), "blank queries must not reach the network")
}

func TestSearchVersesNothingFound(t *testing.T) {
	client := newTestClient(t, &fakeProvider{})

	verses, err := client.SearchVerses(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, verses)
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).ListChapters(context.Background())
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestTimeout(t *testing.T) {
	client := newTestClient(t, &fakeProvider{delay: 200 * time.Millisecond}, WithTimeout(20*time.Millisecond))

	_, err := client.ListChapters(context.Background())
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
