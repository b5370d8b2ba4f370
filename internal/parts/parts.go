// Package parts holds the fixed juz table and the per-surah verse counts.
// Both ship as an embedded YAML asset and never change at runtime.
package parts

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

//go:embed parts.yaml
var tableYAML []byte

type table struct {
	Parts       []models.Part `yaml:"parts"`
	VerseCounts []int         `yaml:"verse_counts"`
}

var data = mustLoad(tableYAML)

func mustLoad(raw []byte) table {
	t, err := decode(raw)
	if err != nil {
		panic(fmt.Sprintf("parts: embedded table is invalid: %v", err))
	}
	return t
}

func decode(raw []byte) (table, error) {
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return table{}, err
	}
	if len(t.Parts) != models.PartCount {
		return table{}, fmt.Errorf("expected %d parts, got %d", models.PartCount, len(t.Parts))
	}
	if len(t.VerseCounts) != models.ChapterCount {
		return table{}, fmt.Errorf("expected %d verse counts, got %d", models.ChapterCount, len(t.VerseCounts))
	}
	for i, p := range t.Parts {
		if p.Number != i+1 {
			return table{}, fmt.Errorf("part at index %d has number %d", i, p.Number)
		}
	}
	return t, nil
}

// All returns a copy of the 30-part table in order
func All() []models.Part {
	out := make([]models.Part, len(data.Parts))
	copy(out, data.Parts)
	return out
}

// Get returns part n (1..30)
func Get(n int) (models.Part, error) {
	if n < 1 || n > models.PartCount {
		return models.Part{}, fmt.Errorf("juz %d: %w", n, common.ErrNotFound)
	}
	return data.Parts[n-1], nil
}

// VerseCount returns the number of verses in a chapter, or 0 when the chapter
// is out of range
func VerseCount(chapter int) int {
	if chapter < 1 || chapter > models.ChapterCount {
		return 0
	}
	return data.VerseCounts[chapter-1]
}

// ValidRef reports whether ref names an existing verse
func ValidRef(ref models.VerseRef) bool {
	return ref.Verse >= 1 && ref.Verse <= VerseCount(ref.Chapter)
}

// Next returns the verse following ref, crossing into the next chapter when
// ref is the last verse of its chapter. ok is false after 114:6.
func Next(ref models.VerseRef) (models.VerseRef, bool) {
	if ref.Verse < VerseCount(ref.Chapter) {
		return models.VerseRef{Chapter: ref.Chapter, Verse: ref.Verse + 1}, true
	}
	if ref.Chapter < models.ChapterCount {
		return models.VerseRef{Chapter: ref.Chapter + 1, Verse: 1}, true
	}
	return models.VerseRef{}, false
}

// Contains reports whether ref falls inside part p
func Contains(p models.Part, ref models.VerseRef) bool {
	return !ref.Before(p.Start()) && !p.End().Before(ref)
}

// ForRef returns the part containing ref
func ForRef(ref models.VerseRef) (models.Part, error) {
	if !ValidRef(ref) {
		return models.Part{}, fmt.Errorf("verse %s: %w", ref, common.ErrNotFound)
	}
	for _, p := range data.Parts {
		if Contains(p, ref) {
			return p, nil
		}
	}
	return models.Part{}, fmt.Errorf("verse %s: %w", ref, common.ErrNotFound)
}
