package bookmark

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoajasa245/quran-reader/internal/quran"
	"github.com/taiwoajasa245/quran-reader/internal/storage"
)

var (
	fatihah = ChapterBookmark{Chapter: 1, LatinName: "Al-Fatihah", Meaning: "Pembukaan"}
	baqarah = ChapterBookmark{Chapter: 2, LatinName: "Al-Baqarah", Meaning: "Sapi"}
)

func raw(t *testing.T, kv *storage.Memory, key string) string {
	t.Helper()
	v, ok, err := kv.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "expected %s to be persisted", key)
	return v
}

func TestToggleVerseScenario(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)
	ctx := context.Background()

	on, err := store.ToggleVerse(ctx, baqarah, 5)
	require.NoError(t, err)
	assert.True(t, on)
	assert.JSONEq(t, `[{"surah":2,"ayat":5,"namaLatin":"Al-Baqarah","arti":"Sapi"}]`, raw(t, kv, VersesKey))

	on, err = store.ToggleVerse(ctx, baqarah, 5)
	require.NoError(t, err)
	assert.False(t, on)
	assert.JSONEq(t, `[]`, raw(t, kv, VersesKey))
}

func TestToggleTwiceRestoresOriginal(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, ChaptersKey, `[{"surah":1,"namaLatin":"Al-Fatihah","arti":"Pembukaan"}]`))
	store := NewStore(kv)

	before := raw(t, kv, ChaptersKey)

	on, err := store.ToggleChapter(ctx, baqarah)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = store.ToggleChapter(ctx, baqarah)
	require.NoError(t, err)
	assert.False(t, on)

	assert.JSONEq(t, before, raw(t, kv, ChaptersKey))
	items, err := store.ListChapters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ChapterBookmark{fatihah}, items)
}

func TestListDeduplicatesAndRewrites(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, VersesKey, `[
		{"surah":2,"ayat":5,"namaLatin":"first"},
		{"surah":1,"ayat":1},
		{"surah":"2","ayat":"5","namaLatin":"string copy"},
		{"surah":2,"ayat":5,"namaLatin":"second"},
		{"surah":1,"ayat":2}
	]`))
	store := NewStore(kv)

	items, err := store.ListVerses(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, Key{2, 5}, items[0].Key())
	assert.Equal(t, "first", items[0].LatinName, "first occurrence wins")
	assert.Equal(t, Key{1, 1}, items[1].Key())
	assert.Equal(t, Key{1, 2}, items[2].Key())

	assert.JSONEq(t, `[
		{"surah":2,"ayat":5,"namaLatin":"first"},
		{"surah":1,"ayat":1},
		{"surah":1,"ayat":2}
	]`, raw(t, kv, VersesKey))
}

func TestListVersesFiltersByChapter(t *testing.T) {
	store := NewStore(storage.NewMemory())
	ctx := context.Background()

	for _, v := range []struct {
		ch    ChapterBookmark
		verse int
	}{{baqarah, 5}, {fatihah, 1}, {baqarah, 7}} {
		_, err := store.ToggleVerse(ctx, v.ch, v.verse)
		require.NoError(t, err)
	}

	items, err := store.ListVerses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Verse)
	assert.Equal(t, 7, items[1].Verse)
}

func TestRemoveAt(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)
	ctx := context.Background()

	for _, v := range []int{1, 2, 3, 4} {
		_, err := store.ToggleVerse(ctx, fatihah, v)
		require.NoError(t, err)
	}

	require.NoError(t, store.RemoveVerseAt(ctx, 1))

	items, err := store.ListVerses(ctx, 0)
	require.NoError(t, err)
	verses := make([]int, 0, len(items))
	for _, b := range items {
		verses = append(verses, b.Verse)
	}
	assert.Equal(t, []int{1, 3, 4}, verses)

	assert.ErrorIs(t, store.RemoveVerseAt(ctx, 3), ErrIndexOutOfRange)
	assert.ErrorIs(t, store.RemoveVerseAt(ctx, -1), ErrIndexOutOfRange)
	assert.ErrorIs(t, store.RemoveChapterAt(ctx, 0), ErrIndexOutOfRange)
}

func TestRemoveChapterAt(t *testing.T) {
	store := NewStore(storage.NewMemory())
	ctx := context.Background()

	_, err := store.ToggleChapter(ctx, fatihah)
	require.NoError(t, err)
	_, err = store.ToggleChapter(ctx, baqarah)
	require.NoError(t, err)

	require.NoError(t, store.RemoveChapterAt(ctx, 0))
	items, err := store.ListChapters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ChapterBookmark{baqarah}, items)
}

func TestMalformedDataReadsAsEmpty(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, ChaptersKey, `{not json`))
	store := NewStore(kv)

	items, err := store.ListChapters(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.JSONEq(t, `[]`, raw(t, kv, ChaptersKey), "storage is healed on load")

	on, err := store.ToggleChapter(ctx, fatihah)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestCollectionsKeepTheirOwnKind(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, ChaptersKey, `[{"surah":1},{"surah":2,"ayat":3}]`))
	require.NoError(t, kv.Set(ctx, VersesKey, `[{"surah":1},{"surah":2,"ayat":3}]`))
	store := NewStore(kv)

	chapters, err := store.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, 1, chapters[0].Chapter)

	verses, err := store.ListVerses(ctx, 0)
	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, Key{2, 3}, verses[0].Key())
}

func TestListWithoutDataDoesNotWrite(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)

	items, err := store.ListChapters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)

	_, ok, err := kv.Get(context.Background(), ChaptersKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMembership(t *testing.T) {
	store := NewStore(storage.NewMemory())
	ctx := context.Background()

	_, err := store.ToggleChapter(ctx, baqarah)
	require.NoError(t, err)
	_, err = store.ToggleVerse(ctx, baqarah, 255)
	require.NoError(t, err)

	ok, err := store.IsChapterBookmarked(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.IsChapterBookmarked(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.IsVerseBookmarked(ctx, 2, 255)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.IsVerseBookmarked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamespacesAreIsolated(t *testing.T) {
	kv := storage.NewMemory()
	ctx := context.Background()
	alice := NewStore(kv, WithNamespace("user:1:"))
	bob := NewStore(kv, WithNamespace("user:2:"))

	_, err := alice.ToggleVerse(ctx, fatihah, 1)
	require.NoError(t, err)

	items, err := bob.ListVerses(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.JSONEq(t, `[{"surah":1,"ayat":1,"namaLatin":"Al-Fatihah","arti":"Pembukaan"}]`, raw(t, kv, "user:1:"+VersesKey))
}

func TestToggleVerseRejectsInvalidVerse(t *testing.T) {
	store := NewStore(storage.NewMemory())
	_, err := store.ToggleVerse(context.Background(), fatihah, 0)
	assert.Error(t, err)
}

type brokenKV struct{}

func (brokenKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (brokenKV) Set(ctx context.Context, key, value string) error {
	return errors.New("disk on fire")
}

func TestStorageErrorsPropagate(t *testing.T) {
	store := NewStore(brokenKV{})
	ctx := context.Background()

	_, err := store.ListChapters(ctx)
	assert.Error(t, err)
	_, err = store.ToggleVerse(ctx, fatihah, 1)
	assert.Error(t, err)
}

func TestToggleRejectsInvalidChapter(t *testing.T) {
	kv := storage.NewMemory()
	store := NewStore(kv)
	ctx := context.Background()

	for _, n := range []int{0, -3, quran.ChapterCount + 1} {
		on, err := store.ToggleChapter(ctx, ChapterBookmark{Chapter: n, LatinName: "x"})
		assert.ErrorIs(t, err, quran.ErrInvalidChapter)
		assert.False(t, on)

		on, err = store.ToggleVerse(ctx, ChapterBookmark{Chapter: n}, 5)
		assert.ErrorIs(t, err, quran.ErrInvalidChapter)
		assert.False(t, on)
	}

	_, err := store.ToggleVerse(ctx, fatihah, 0)
	assert.ErrorIs(t, err, quran.ErrInvalidVerse)

	for _, key := range []string{ChaptersKey, VersesKey} {
		_, ok, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "rejected toggles write nothing")
	}
}

func TestUnreadableRecordsAreDroppedIndividually(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	kv := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, VersesKey,
		`[{"surah":{},"ayat":1},{"surah":2,"ayat":5,"namaLatin":"Al-Baqarah","arti":"Sapi"},{"surah":3}]`))
	store := NewStore(kv)

	verses, err := store.ListVerses(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []VerseBookmark{baqarah.At(5)}, verses)
	assert.JSONEq(t, `[{"surah":2,"ayat":5,"namaLatin":"Al-Baqarah","arti":"Sapi"}]`, raw(t, kv, VersesKey))

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"dropped":2`)
}
