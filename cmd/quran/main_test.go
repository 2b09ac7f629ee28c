package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taiwoajasa245/quran-reader/internal/bookmark"
)

const chapterListJSON = `{
  "code": 200,
  "message": "Data retrieved successfully",
  "data": [
    {"nomor": 1, "nama": "الفاتحة", "namaLatin": "Al-Fatihah", "jumlahAyat": 2, "tempatTurun": "Mekah", "arti": "Pembukaan"},
    {"nomor": 2, "nama": "البقرة", "namaLatin": "Al-Baqarah", "jumlahAyat": 286, "tempatTurun": "Madinah", "arti": "Sapi"}
  ]
}`

const chapterDetailJSON = `{
  "code": 200,
  "message": "Data retrieved successfully",
  "data": {
    "nomor": 1, "nama": "الفاتحة", "namaLatin": "Al-Fatihah", "jumlahAyat": 2, "tempatTurun": "Mekah", "arti": "Pembukaan",
    "ayat": [
      {"nomorAyat": 1, "teksArab": "a1", "teksLatin": "l1", "teksIndonesia": "t1", "audio": {"01": "https://cdn.test/001001.mp3"}},
      {"nomorAyat": 2, "teksArab": "a2", "teksLatin": "l2", "teksIndonesia": "t2", "audio": {"01": "https://cdn.test/001002.mp3"}}
    ],
    "suratSelanjutnya": {"nomor": 2, "nama": "البقرة", "namaLatin": "Al-Baqarah", "jumlahAyat": 286},
    "suratSebelumnya": false
  }
}`

func newContentServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/surat":
			_, _ = w.Write([]byte(chapterListJSON))
		case "/surat/1":
			_, _ = w.Write([]byte(chapterDetailJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the root command against a fake content API and a fresh
// storage file per test.
func run(t *testing.T, apiBase, storage string, args ...string) (string, error) {
	t.Helper()
	bookmarkSurah = 0
	playSingle = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--api-url", apiBase, "--storage", storage, "--player", "true"}, args...))
	err := execute()
	return out.String(), err
}

func TestChaptersCommand(t *testing.T) {
	srv := newContentServer(t)
	storage := filepath.Join(t.TempDir(), "storage.db")

	out, err := run(t, srv.URL, storage, "chapters")
	require.NoError(t, err)
	assert.Contains(t, out, "Al-Fatihah")
	assert.Contains(t, out, "Al-Baqarah")
	assert.NotContains(t, out, "★")
}

func TestVerseCommandShowsNeighbours(t *testing.T) {
	srv := newContentServer(t)
	storage := filepath.Join(t.TempDir(), "storage.db")

	out, err := run(t, srv.URL, storage, "verse", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Al-Fatihah 1:2 of 2")
	assert.Contains(t, out, "previous: quran verse 1 1")
	assert.NotContains(t, out, "next:")

	_, err = run(t, srv.URL, storage, "verse", "1", "9")
	assert.Error(t, err)

	_, err = run(t, srv.URL, storage, "verse", "one", "1")
	assert.Error(t, err)
}

func TestBookmarkCommands(t *testing.T) {
	srv := newContentServer(t)
	storage := filepath.Join(t.TempDir(), "storage.db")

	out, err := run(t, srv.URL, storage, "bookmarks", "toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarked Surah 1 - Al-Fatihah")

	out, err = run(t, srv.URL, storage, "bookmarks", "toggle", "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Bookmarked Surah 1 - Al-Fatihah Ayat 2")

	out, err = run(t, srv.URL, storage, "chapters")
	require.NoError(t, err)
	assert.Contains(t, out, "★  1. Al-Fatihah")

	out, err = run(t, srv.URL, storage, "bookmarks")
	require.NoError(t, err)
	assert.Contains(t, out, "1) Surah 1 - Al-Fatihah (Pembukaan)")
	assert.Contains(t, out, "1) Surah 1 - Al-Fatihah Ayat 2")

	_, err = run(t, srv.URL, storage, "bookmarks", "rm", "verse", "2")
	assert.ErrorIs(t, err, bookmark.ErrIndexOutOfRange)

	_, err = run(t, srv.URL, storage, "bookmarks", "rm", "verse", "1")
	require.NoError(t, err)

	out, err = run(t, srv.URL, storage, "bookmarks", "toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed bookmark Surah 1 - Al-Fatihah")

	out, err = run(t, srv.URL, storage, "bookmarks")
	require.NoError(t, err)
	assert.Equal(t, "Chapters:\n  (none)\nVerses:\n  (none)\n", out)
}

func TestBookmarkToggleRejectsUnknownVerse(t *testing.T) {
	srv := newContentServer(t)
	storage := filepath.Join(t.TempDir(), "storage.db")

	_, err := run(t, srv.URL, storage, "bookmarks", "toggle", "1", "3")
	assert.Error(t, err)

	_, err = run(t, srv.URL, storage, "bookmarks", "toggle", "115")
	assert.Error(t, err)
}

func TestPlayCommandRunsToTheEnd(t *testing.T) {
	srv := newContentServer(t)
	storage := filepath.Join(t.TempDir(), "storage.db")

	// "true" exits at once, so every verse completes immediately.
	out, err := run(t, srv.URL, storage, "play", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "♪ Al-Fatihah 1:1")
	assert.Contains(t, out, "♪ Al-Fatihah 1:2")
}

func TestConfigIsReadAtRunTime(t *testing.T) {
	srv := newContentServer(t)
	t.Setenv("QURAN_API_URL", srv.URL)
	t.Setenv("LOCAL_STORAGE_PATH", filepath.Join(t.TempDir(), "storage.db"))
	apiURL, storagePath = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"chapters"})

	require.NoError(t, execute())
	assert.Contains(t, out.String(), "Al-Fatihah")
	assert.Equal(t, srv.URL, apiURL)
}

func TestStorageClosedWhenCommandFails(t *testing.T) {
	srv := newContentServer(t)
	storage := filepath.Join(t.TempDir(), "storage.db")

	_, err := run(t, srv.URL, storage, "bookmarks", "toggle", "1", "3")
	require.Error(t, err)
	assert.Nil(t, local, "storage is released on the error path")
	assert.Nil(t, logSink)
}

func TestLoadConfigWritesNothingBeforeLoggingIsSetUp(t *testing.T) {
	var terminal bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&terminal)
	t.Cleanup(func() { log.Logger = prev })
	t.Setenv("QURAN_API_TIMEOUT", "soon")

	loadConfig()

	assert.Empty(t, terminal.String())
	assert.Equal(t, 10*time.Second, cfg.QuranAPITimeout)
}
