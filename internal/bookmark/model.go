package bookmark

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrIndexOutOfRange = errors.New("bookmark index out of range")

// Key identifies a bookmark. Verse is zero for chapter-level bookmarks.
type Key struct {
	Chapter int
	Verse   int
}

// Bookmark is either a ChapterBookmark or a VerseBookmark.
type Bookmark interface {
	Key() Key
	record() record
}

type ChapterBookmark struct {
	Chapter   int    `json:"chapter"`
	LatinName string `json:"latin_name"`
	Meaning   string `json:"meaning"`
}

func (b ChapterBookmark) Key() Key { return Key{Chapter: b.Chapter} }

// At returns the verse bookmark for verse within this chapter.
func (b ChapterBookmark) At(verse int) VerseBookmark {
	return VerseBookmark{Chapter: b.Chapter, Verse: verse, LatinName: b.LatinName, Meaning: b.Meaning}
}

func (b ChapterBookmark) record() record {
	return record{Surah: flexInt(b.Chapter), NamaLatin: b.LatinName, Arti: b.Meaning}
}

type VerseBookmark struct {
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
	LatinName string `json:"latin_name"`
	Meaning   string `json:"meaning"`
}

func (b VerseBookmark) Key() Key { return Key{Chapter: b.Chapter, Verse: b.Verse} }

func (b VerseBookmark) record() record {
	return record{Surah: flexInt(b.Chapter), Ayat: flexInt(b.Verse), NamaLatin: b.LatinName, Arti: b.Meaning}
}

// record is the persisted shape shared by both kinds. A missing ayat marks a
// chapter-level bookmark.
type record struct {
	Surah     flexInt `json:"surah"`
	Ayat      flexInt `json:"ayat,omitempty"`
	NamaLatin string  `json:"namaLatin,omitempty"`
	Arti      string  `json:"arti,omitempty"`
}

func chapterFromRecord(r record) (ChapterBookmark, bool) {
	if r.Surah <= 0 || r.Ayat != 0 {
		return ChapterBookmark{}, false
	}
	return ChapterBookmark{Chapter: int(r.Surah), LatinName: r.NamaLatin, Meaning: r.Arti}, true
}

func verseFromRecord(r record) (VerseBookmark, bool) {
	if r.Surah <= 0 || r.Ayat <= 0 {
		return VerseBookmark{}, false
	}
	return VerseBookmark{Chapter: int(r.Surah), Verse: int(r.Ayat), LatinName: r.NamaLatin, Meaning: r.Arti}, true
}

// flexInt decodes from a JSON number or a numeric string. Older clients
// stored chapter and verse numbers as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}
