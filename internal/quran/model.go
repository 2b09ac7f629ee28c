package quran

import "errors"

const (
	// ChapterCount is the number of chapters (surah) in the corpus.
	ChapterCount = 114

	// DefaultReciter is the reciter code used when none is configured.
	DefaultReciter = "01"
)

var (
	ErrNotFound       = errors.New("content not found")
	ErrInvalidChapter = errors.New("chapter number must be between 1 and 114")
	ErrInvalidVerse   = errors.New("verse number out of range")
	ErrUpstream       = errors.New("content api unavailable")
)

// Reciters lists the reciter codes published by the content API.
var Reciters = map[string]string{
	"01": "Abdullah Al-Juhany",
	"02": "Abdul Muhsin Al-Qasim",
	"03": "Abdurrahman as-Sudais",
	"04": "Ibrahim Al-Dossari",
	"05": "Misyari Rasyid Al-Afasi",
}

// ValidReciter reports whether code is a known two-digit reciter code.
func ValidReciter(code string) bool {
	_, ok := Reciters[code]
	return ok
}

// AudioSet maps reciter codes to audio URLs.
type AudioSet map[string]string

// URL returns the URL for reciter, falling back to DefaultReciter.
func (a AudioSet) URL(reciter string) string {
	if u, ok := a[reciter]; ok && u != "" {
		return u
	}
	return a[DefaultReciter]
}

type Chapter struct {
	Number          int      `json:"number"`
	Name            string   `json:"name"`
	LatinName       string   `json:"latin_name"`
	Meaning         string   `json:"meaning"`
	VerseCount      int      `json:"verse_count"`
	RevelationPlace string   `json:"revelation_place"`
	Description     string   `json:"description,omitempty"`
	Audio           AudioSet `json:"audio,omitempty"`
}

type ChapterSummary struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	LatinName  string `json:"latin_name"`
	VerseCount int    `json:"verse_count"`
}

type ChapterDetail struct {
	Chapter
	Verses   []Verse         `json:"verses"`
	Next     *ChapterSummary `json:"next,omitempty"`
	Previous *ChapterSummary `json:"previous,omitempty"`
}

type Verse struct {
	ChapterNumber int      `json:"chapter_number"`
	Number        int      `json:"number"`
	Arabic        string   `json:"arabic"`
	Latin         string   `json:"latin"`
	Translation   string   `json:"translation"`
	Audio         AudioSet `json:"audio,omitempty"`
}

// AudioURL returns the recitation URL for the given reciter code.
func (v Verse) AudioURL(reciter string) string {
	return v.Audio.URL(reciter)
}

// VerseDetail is a single verse with its chapter context and navigation bounds.
type VerseDetail struct {
	ChapterNumber int    `json:"chapter_number"`
	ChapterName   string `json:"chapter_name"`
	LatinName     string `json:"latin_name"`
	VerseCount    int    `json:"verse_count"`
	Verse         Verse  `json:"verse"`
	Previous      *int   `json:"previous"`
	Next          *int   `json:"next"`
}
