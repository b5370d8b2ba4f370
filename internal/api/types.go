package api

import (
	"encoding/json"
	"fmt"

	"github.com/justyntemme/mushaf-t/internal/assembler"
	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

// envelope wraps every provider response
type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// chapterDTO is the surah object, with or without embedded ayahs
type chapterDTO struct {
	Number                 int    `json:"number"`
	Name                   string `json:"name"`
	EnglishName            string `json:"englishName"`
	EnglishNameTranslation string `json:"englishNameTranslation"`
	NumberOfAyahs          int    `json:"numberOfAyahs"`
	RevelationType         string `json:"revelationType"`
}

func (d chapterDTO) chapter() models.Chapter {
	return models.Chapter{
		Number:                 d.Number,
		Name:                   d.Name,
		EnglishName:            d.EnglishName,
		EnglishNameTranslation: d.EnglishNameTranslation,
		NumberOfAyahs:          d.NumberOfAyahs,
		RevelationType:         d.RevelationType,
	}
}

type ayahDTO struct {
	Number        int         `json:"number"`
	Text          string      `json:"text"`
	NumberInSurah int         `json:"numberInSurah"`
	Audio         string      `json:"audio"`
	Surah         *chapterDTO `json:"surah"`
}

// editionDTO is a surah or juz rendered in one edition
type editionDTO struct {
	Number int       `json:"number"`
	Ayahs  []ayahDTO `json:"ayahs"`
}

// requireSurah rejects ayahs without surah context; juz responses carry it
func requireSurah(i int, a ayahDTO) error {
	if a.Surah == nil || a.Surah.Number == 0 {
		return fmt.Errorf("ayah %d has no surah: %w", i, common.ErrParse)
	}
	return nil
}

func (e editionDTO) sourceVerses(check func(int, ayahDTO) error) ([]assembler.SourceVerse, error) {
	if e.Ayahs == nil {
		return nil, fmt.Errorf("edition has no ayahs: %w", common.ErrParse)
	}

	out := make([]assembler.SourceVerse, len(e.Ayahs))
	for i, a := range e.Ayahs {
		if a.NumberInSurah == 0 {
			return nil, fmt.Errorf("ayah %d has no number: %w", i, common.ErrParse)
		}
		if check != nil {
			if err := check(i, a); err != nil {
				return nil, err
			}
		}
		sv := assembler.SourceVerse{
			Number: a.NumberInSurah,
			Text:   a.Text,
			Audio:  a.Audio,
		}
		if a.Surah != nil {
			sv.ChapterNumber = a.Surah.Number
			sv.ChapterName = a.Surah.EnglishName
		}
		out[i] = sv
	}
	return out, nil
}

type searchDTO struct {
	Count   int       `json:"count"`
	Matches []ayahDTO `json:"matches"`
}
