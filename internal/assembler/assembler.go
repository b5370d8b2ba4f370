// Package assembler merges the per-verse sequences returned by separate
// edition requests into one ordered list of verses.
//
// The provider returns the recitation edition (Arabic text plus audio) and
// the translation edition as independent arrays. They are aligned by index.
package assembler

import (
	"fmt"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// SourceVerse is one entry of an edition response
type SourceVerse struct {
	Number        int
	Text          string
	Audio         string
	ChapterNumber int
	ChapterName   string
}

// Options controls alignment checking
type Options struct {
	// Strict rejects sequences whose lengths or verse identities disagree
	// instead of leaving translations empty.
	Strict bool
	// WithChapter copies chapter context onto every output verse. Set when
	// the sequence spans several chapters.
	WithChapter bool
}

// Merge builds output[i] from original[i] and translation[i]. The output has
// the length of original; verses without a matching translation keep an
// empty Translation.
func Merge(original, translation []SourceVerse, opts Options) ([]models.Verse, error) {
	if len(original) == 0 {
		return []models.Verse{}, nil
	}

	if opts.Strict {
		if err := checkAlignment(original, translation); err != nil {
			return nil, err
		}
	}

	verses := make([]models.Verse, len(original))
	for i, src := range original {
		v := models.Verse{
			Number: src.Number,
			Text:   src.Text,
			Audio:  src.Audio,
		}
		if i < len(translation) {
			v.Translation = translation[i].Text
		}
		if opts.WithChapter {
			v.ChapterNumber = src.ChapterNumber
			v.ChapterName = src.ChapterName
		}
		verses[i] = v
	}
	return verses, nil
}

func checkAlignment(original, translation []SourceVerse) error {
	if len(original) != len(translation) {
		return fmt.Errorf("%d verses but %d translations: %w", len(original), len(translation), common.ErrParse)
	}
	for i := range original {
		o, t := original[i], translation[i]
		if o.Number != t.Number || o.ChapterNumber != t.ChapterNumber {
			return fmt.Errorf("position %d: verse %d:%d paired with translation %d:%d: %w",
				i, o.ChapterNumber, o.Number, t.ChapterNumber, t.Number, common.ErrParse)
		}
	}
	return nil
}
