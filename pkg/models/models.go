package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Revelation type constants
const (
	RevelationMeccan  = "Meccan"
	RevelationMedinan = "Medinan"
)

// Language constants
const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// Font size bounds
const (
	DefaultFontSize = 16
	MinFontSize     = 12
	MaxFontSize     = 28
	FontSizeStep    = 2
)

// Corpus bounds
const (
	ChapterCount = 114
	PartCount    = 30
)

// Chapter represents a surah as returned by the content API
type Chapter struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

// IsMeccan returns true if the chapter was revealed in Mecca
func (c *Chapter) IsMeccan() bool {
	return c.RevelationType == RevelationMeccan
}

// Part represents one of the 30 juz divisions
type Part struct {
	Number       int    `json:"number" yaml:"number"`
	Name         string `json:"name" yaml:"name"`
	NameArabic   string `json:"nameArabic" yaml:"name_arabic"`
	StartChapter int    `json:"startSurah" yaml:"start_chapter"`
	StartVerse   int    `json:"startVerse" yaml:"start_verse"`
	EndChapter   int    `json:"endSurah" yaml:"end_chapter"`
	EndVerse     int    `json:"endVerse" yaml:"end_verse"`
}

// Start returns the first verse of the part
func (p *Part) Start() VerseRef {
	return VerseRef{Chapter: p.StartChapter, Verse: p.StartVerse}
}

// End returns the last verse of the part
func (p *Part) End() VerseRef {
	return VerseRef{Chapter: p.EndChapter, Verse: p.EndVerse}
}

// Verse is a single assembled ayah. ChapterNumber and ChapterName are only
// set when the verse belongs to a sequence spanning several chapters.
type Verse struct {
	Number        int    `json:"number"`
	Text          string `json:"text"`
	Translation   string `json:"translation,omitempty"`
	Audio         string `json:"audio,omitempty"`
	ChapterNumber int    `json:"surahNumber,omitempty"`
	ChapterName   string `json:"surah,omitempty"`
}

// Ref returns the verse reference, using fallbackChapter when the verse
// carries no chapter context of its own
func (v *Verse) Ref(fallbackChapter int) VerseRef {
	ch := v.ChapterNumber
	if ch == 0 {
		ch = fallbackChapter
	}
	return VerseRef{Chapter: ch, Verse: v.Number}
}

// VerseRef addresses a verse as chapter:verse
type VerseRef struct {
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
}

// String formats the reference as "chapter:verse"
func (r VerseRef) String() string {
	return fmt.Sprintf("%d:%d", r.Chapter, r.Verse)
}

// Before reports whether r comes strictly before other in reading order
func (r VerseRef) Before(other VerseRef) bool {
	if r.Chapter != other.Chapter {
		return r.Chapter < other.Chapter
	}
	return r.Verse < other.Verse
}

// ParseVerseRef parses a "chapter:verse" reference
func ParseVerseRef(s string) (VerseRef, error) {
	chStr, vStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return VerseRef{}, fmt.Errorf("invalid verse reference %q: expected chapter:verse", s)
	}
	ch, err := strconv.Atoi(chStr)
	if err != nil {
		return VerseRef{}, fmt.Errorf("invalid chapter in %q: %w", s, err)
	}
	v, err := strconv.Atoi(vStr)
	if err != nil {
		return VerseRef{}, fmt.Errorf("invalid verse in %q: %w", s, err)
	}
	if ch < 1 || ch > ChapterCount || v < 1 {
		return VerseRef{}, fmt.Errorf("verse reference %q out of range", s)
	}
	return VerseRef{Chapter: ch, Verse: v}, nil
}

// bookmarkNamespace scopes bookmark ids so they never collide with other
// name-based UUIDs
var bookmarkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mushaf-t:bookmark"))

// BookmarkID derives the bookmark id for a verse. The same verse always
// yields the same id.
func BookmarkID(chapter, verse int) string {
	return uuid.NewSHA1(bookmarkNamespace, []byte(VerseRef{Chapter: chapter, Verse: verse}.String())).String()
}

// Bookmark is a saved verse
type Bookmark struct {
	ID            string `json:"id"`
	ChapterNumber int    `json:"chapterNumber"`
	VerseNumber   int    `json:"verseNumber"`
	Date          string `json:"date"`
}

// NewBookmark creates a bookmark stamped with the given time
func NewBookmark(chapter, verse int, at time.Time) Bookmark {
	return Bookmark{
		ID:            BookmarkID(chapter, verse),
		ChapterNumber: chapter,
		VerseNumber:   verse,
		Date:          at.UTC().Format(time.RFC3339),
	}
}

// Ref returns the bookmarked verse reference
func (b *Bookmark) Ref() VerseRef {
	return VerseRef{Chapter: b.ChapterNumber, Verse: b.VerseNumber}
}

// LastRead kinds
const (
	LastReadChapter = "chapter"
	LastReadPart    = "juz"
)

// LastRead points at the most recently opened chapter or part
type LastRead struct {
	Kind      string   `json:"type"`
	Chapter   *Chapter `json:"chapter,omitempty"`
	Part      *Part    `json:"juz,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// NewChapterLastRead builds a chapter pointer
func NewChapterLastRead(ch Chapter, at time.Time) LastRead {
	return LastRead{Kind: LastReadChapter, Chapter: &ch, Timestamp: at.UTC().Format(time.RFC3339)}
}

// NewPartLastRead builds a part pointer
func NewPartLastRead(p Part, at time.Time) LastRead {
	return LastRead{Kind: LastReadPart, Part: &p, Timestamp: at.UTC().Format(time.RFC3339)}
}

// Validate checks that the pointer names exactly one chapter or part
func (l *LastRead) Validate() error {
	switch l.Kind {
	case LastReadChapter:
		if l.Chapter == nil || l.Part != nil {
			return fmt.Errorf("chapter last-read must carry only a chapter")
		}
	case LastReadPart:
		if l.Part == nil || l.Chapter != nil {
			return fmt.Errorf("juz last-read must carry only a juz")
		}
	default:
		return fmt.Errorf("unknown last-read kind %q", l.Kind)
	}
	return nil
}

// Title returns a short label for the pointer
func (l *LastRead) Title() string {
	switch {
	case l.Kind == LastReadChapter && l.Chapter != nil:
		return fmt.Sprintf("Surah %d - %s", l.Chapter.Number, l.Chapter.EnglishName)
	case l.Kind == LastReadPart && l.Part != nil:
		return fmt.Sprintf("Juz %d - %s", l.Part.Number, l.Part.Name)
	default:
		return ""
	}
}

// Preferences holds the reader's display settings
type Preferences struct {
	Language string `json:"language"`
	FontSize int    `json:"fontSize"`
	DarkMode bool   `json:"darkMode"`
}

// DefaultPreferences returns the first-run preferences
func DefaultPreferences() Preferences {
	return Preferences{
		Language: LanguageEnglish,
		FontSize: DefaultFontSize,
		DarkMode: false,
	}
}

// ClampFontSize keeps a font size within the supported range
func ClampFontSize(n int) int {
	return min(max(n, MinFontSize), MaxFontSize)
}

// IsValidLanguage reports whether lang is a supported locale
func IsValidLanguage(lang string) bool {
	return lang == LanguageEnglish || lang == LanguageArabic
}
