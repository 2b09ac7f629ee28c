// Package reader serves chapter content and per-user bookmarks over HTTP.
package reader

import (
	"context"
	"fmt"
	"sync"

	"github.com/taiwoajasa245/quran-reader/internal/bookmark"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

type ReaderService struct {
	source quran.Source
	stores *userStores
}

func NewReaderService(source quran.Source, kv bookmark.KeyValue) ReaderService {
	return ReaderService{
		source: source,
		stores: &userStores{kv: kv, byUser: make(map[int]*bookmark.Store)},
	}
}

// userStores hands out one bookmark store per user so that its mutex
// serialises every read-modify-write on that user's collections.
type userStores struct {
	kv     bookmark.KeyValue
	mu     sync.Mutex
	byUser map[int]*bookmark.Store
}

func (u *userStores) get(userID int) *bookmark.Store {
	u.mu.Lock()
	defer u.mu.Unlock()

	store, ok := u.byUser[userID]
	if !ok {
		store = bookmark.NewStore(u.kv, bookmark.WithNamespace(fmt.Sprintf("user:%d:", userID)))
		u.byUser[userID] = store
	}
	return store
}

func (s *ReaderService) ListChapters(ctx context.Context) ([]quran.Chapter, error) {
	return s.source.ListChapters(ctx)
}

func (s *ReaderService) GetChapter(ctx context.Context, number int) (*quran.ChapterDetail, error) {
	return s.source.GetChapter(ctx, number)
}

func (s *ReaderService) GetVerse(ctx context.Context, chapter, verse int) (*quran.VerseDetail, error) {
	if err := quran.ValidateChapter(chapter); err != nil {
		return nil, err
	}
	return quran.GetVerse(ctx, s.source, chapter, verse)
}

// bookmarks returns the store scoped to userID's namespace.
func (s *ReaderService) bookmarks(userID int) *bookmark.Store {
	return s.stores.get(userID)
}

func (s *ReaderService) ListChapterBookmarks(ctx context.Context, userID int) ([]bookmark.ChapterBookmark, error) {
	return s.bookmarks(userID).ListChapters(ctx)
}

func (s *ReaderService) ListVerseBookmarks(ctx context.Context, userID, chapter int) ([]bookmark.VerseBookmark, error) {
	return s.bookmarks(userID).ListVerses(ctx, chapter)
}

// ToggleChapterBookmark flips the bookmark for chapter, copying its display
// metadata from the content source.
func (s *ReaderService) ToggleChapterBookmark(ctx context.Context, userID, chapter int) (bool, error) {
	if err := quran.ValidateChapter(chapter); err != nil {
		return false, err
	}

	chapters, err := s.source.ListChapters(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range chapters {
		if c.Number == chapter {
			return s.bookmarks(userID).ToggleChapter(ctx, chapterBookmark(c))
		}
	}
	return false, fmt.Errorf("%w: chapter %d", quran.ErrNotFound, chapter)
}

// ToggleVerseBookmark flips the bookmark for a verse after checking that the
// verse exists in its chapter.
func (s *ReaderService) ToggleVerseBookmark(ctx context.Context, userID, chapter, verse int) (bool, error) {
	detail, err := s.source.GetChapter(ctx, chapter)
	if err != nil {
		return false, err
	}
	if _, err := quran.FindVerse(detail, verse); err != nil {
		return false, err
	}
	return s.bookmarks(userID).ToggleVerse(ctx, chapterBookmark(detail.Chapter), verse)
}

func (s *ReaderService) RemoveChapterBookmark(ctx context.Context, userID, index int) error {
	return s.bookmarks(userID).RemoveChapterAt(ctx, index)
}

func (s *ReaderService) RemoveVerseBookmark(ctx context.Context, userID, index int) error {
	return s.bookmarks(userID).RemoveVerseAt(ctx, index)
}

func chapterBookmark(c quran.Chapter) bookmark.ChapterBookmark {
	return bookmark.ChapterBookmark{Chapter: c.Number, LatinName: c.LatinName, Meaning: c.Meaning}
}
