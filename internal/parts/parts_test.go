package parts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/mushaf-t/internal/common"
	"github.com/justyntemme/mushaf-t/pkg/models"
)

func TestTableBoundaries(t *testing.T) {
	all := All()
	require.Len(t, all, 30)

	assert.Equal(t, models.VerseRef{Chapter: 1, Verse: 1}, all[0].Start())
	assert.Equal(t, models.VerseRef{Chapter: 114, Verse: 6}, all[29].End())
}

func TestPartsAreContiguous(t *testing.T) {
	all := All()
	for i := 0; i < len(all)-1; i++ {
		next, ok := Next(all[i].End())
		require.True(t, ok, "part %d", all[i].Number)
		assert.Equal(t, all[i+1].Start(), next, "part %d should start right after part %d", all[i+1].Number, all[i].Number)
	}
}

func TestPartsStartBeforeTheyEnd(t *testing.T) {
	for _, p := range All() {
		assert.True(t, ValidRef(p.Start()), "part %d start", p.Number)
		assert.True(t, ValidRef(p.End()), "part %d end", p.Number)
		assert.True(t, p.Start().Before(p.End()), "part %d", p.Number)
	}
}

func TestVerseCounts(t *testing.T) {
	total := 0
	for ch := 1; ch <= models.ChapterCount; ch++ {
		total += VerseCount(ch)
	}
	assert.Equal(t, 6236, total)
	assert.Equal(t, 7, VerseCount(1))
	assert.Equal(t, 286, VerseCount(2))
	assert.Equal(t, 0, VerseCount(0))
	assert.Equal(t, 0, VerseCount(115))
}

func TestGet(t *testing.T) {
	p, err := Get(30)
	require.NoError(t, err)
	assert.Equal(t, 78, p.StartChapter)

	for _, n := range []int{0, 31, -1} {
		_, err := Get(n)
		assert.ErrorIs(t, err, common.ErrNotFound, "n=%d", n)
	}
}

func TestForRef(t *testing.T) {
	tests := []struct {
		ref  models.VerseRef
		want int
	}{
		{models.VerseRef{Chapter: 1, Verse: 1}, 1},
		{models.VerseRef{Chapter: 2, Verse: 141}, 1},
		{models.VerseRef{Chapter: 2, Verse: 142}, 2},
		{models.VerseRef{Chapter: 2, Verse: 255}, 3},
		{models.VerseRef{Chapter: 18, Verse: 10}, 15},
		{models.VerseRef{Chapter: 36, Verse: 1}, 22},
		{models.VerseRef{Chapter: 114, Verse: 6}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.ref.String(), func(t *testing.T) {
			p, err := ForRef(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Number)
		})
	}

	_, err := ForRef(models.VerseRef{Chapter: 1, Verse: 8})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNextAtEnd(t *testing.T) {
	_, ok := Next(models.VerseRef{Chapter: 114, Verse: 6})
	assert.False(t, ok)
}

func TestDecodeRejectsShortTable(t *testing.T) {
	_, err := decode([]byte("parts: []\nverse_counts: []\n"))
	assert.Error(t, err)
}
