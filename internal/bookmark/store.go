package bookmark

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

// Storage keys of the two persisted collections.
const (
	ChaptersKey = "bookmarkedSurahs"
	VersesKey   = "bookmarkedAyats"
)

// KeyValue is the persistence capability the store writes through.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store manages chapter and verse bookmark collections. Every mutation
// rewrites the whole collection; every list normalises and rewrites it.
type Store struct {
	kv        KeyValue
	namespace string
	mu        sync.Mutex
}

type Option func(*Store)

// WithNamespace prefixes both collection keys, e.g. "user:42:".
func WithNamespace(namespace string) Option {
	return func(s *Store) { s.namespace = namespace }
}

func NewStore(kv KeyValue, opts ...Option) *Store {
	s := &Store{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListChapters returns the chapter bookmarks in insertion order.
func (s *Store) ListChapters(ctx context.Context) ([]ChapterBookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, present, err := load(ctx, s, ChaptersKey, chapterFromRecord)
	if err != nil {
		return nil, err
	}
	if present {
		if err := save(ctx, s, ChaptersKey, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// ListVerses returns verse bookmarks, restricted to chapter when it is non-zero.
func (s *Store) ListVerses(ctx context.Context, chapter int) ([]VerseBookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, present, err := load(ctx, s, VersesKey, verseFromRecord)
	if err != nil {
		return nil, err
	}
	if present {
		if err := save(ctx, s, VersesKey, items); err != nil {
			return nil, err
		}
	}

	if chapter == 0 {
		return items, nil
	}
	filtered := make([]VerseBookmark, 0, len(items))
	for _, b := range items {
		if b.Chapter == chapter {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// ToggleChapter adds b when absent and removes it when present. It returns
// whether the chapter is bookmarked afterwards.
func (s *Store) ToggleChapter(ctx context.Context, b ChapterBookmark) (bool, error) {
	if err := quran.ValidateChapter(b.Chapter); err != nil {
		return false, fmt.Errorf("%w: %d", err, b.Chapter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := load(ctx, s, ChaptersKey, chapterFromRecord)
	if err != nil {
		return false, err
	}
	updated, added := toggle(items, b)
	if err := save(ctx, s, ChaptersKey, updated); err != nil {
		return false, err
	}
	return added, nil
}

// ToggleVerse is ToggleChapter at verse granularity.
func (s *Store) ToggleVerse(ctx context.Context, chapter ChapterBookmark, verse int) (bool, error) {
	if err := quran.ValidateChapter(chapter.Chapter); err != nil {
		return false, fmt.Errorf("%w: %d", err, chapter.Chapter)
	}
	if verse <= 0 {
		return false, fmt.Errorf("%w: %d", quran.ErrInvalidVerse, verse)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := load(ctx, s, VersesKey, verseFromRecord)
	if err != nil {
		return false, err
	}
	updated, added := toggle(items, chapter.At(verse))
	if err := save(ctx, s, VersesKey, updated); err != nil {
		return false, err
	}
	return added, nil
}

func (s *Store) IsChapterBookmarked(ctx context.Context, chapter int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := load(ctx, s, ChaptersKey, chapterFromRecord)
	if err != nil {
		return false, err
	}
	return indexOf(items, Key{Chapter: chapter}) >= 0, nil
}

func (s *Store) IsVerseBookmarked(ctx context.Context, chapter, verse int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := load(ctx, s, VersesKey, verseFromRecord)
	if err != nil {
		return false, err
	}
	return indexOf(items, Key{Chapter: chapter, Verse: verse}) >= 0, nil
}

// RemoveChapterAt deletes the i-th entry of ListChapters.
func (s *Store) RemoveChapterAt(ctx context.Context, i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := load(ctx, s, ChaptersKey, chapterFromRecord)
	if err != nil {
		return err
	}
	updated, err := removeAt(items, i)
	if err != nil {
		return err
	}
	return save(ctx, s, ChaptersKey, updated)
}

// RemoveVerseAt deletes the i-th entry of ListVerses(ctx, 0).
func (s *Store) RemoveVerseAt(ctx context.Context, i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _, err := load(ctx, s, VersesKey, verseFromRecord)
	if err != nil {
		return err
	}
	updated, err := removeAt(items, i)
	if err != nil {
		return err
	}
	return save(ctx, s, VersesKey, updated)
}

// load reads and normalises a collection: undecodable records and records of
// the wrong kind are dropped and duplicates removed, first occurrence wins.
// Data that is not a JSON array reads as an empty collection. present reports
// whether the key existed.
func load[T Bookmark](ctx context.Context, s *Store, name string, convert func(record) (T, bool)) ([]T, bool, error) {
	key := s.namespace + name
	raw, present, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", name, err)
	}

	items := make([]T, 0)
	if !present {
		return items, false, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding malformed bookmarks")
		return items, true, nil
	}

	dropped := 0
	seen := make(map[Key]struct{}, len(entries))
	for _, entry := range entries {
		var r record
		if err := json.Unmarshal(entry, &r); err != nil {
			dropped++
			continue
		}
		b, ok := convert(r)
		if !ok {
			dropped++
			continue
		}
		k := b.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		items = append(items, b)
	}
	if dropped > 0 {
		log.Warn().Str("key", key).Int("dropped", dropped).Msg("discarding unreadable bookmark records")
	}
	return items, true, nil
}

func save[T Bookmark](ctx context.Context, s *Store, name string, items []T) error {
	records := make([]record, 0, len(items))
	for _, b := range items {
		records = append(records, b.record())
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.kv.Set(ctx, s.namespace+name, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func indexOf[T Bookmark](items []T, k Key) int {
	for i, b := range items {
		if b.Key() == k {
			return i
		}
	}
	return -1
}

func toggle[T Bookmark](items []T, b T) ([]T, bool) {
	if i := indexOf(items, b.Key()); i >= 0 {
		return append(items[:i:i], items[i+1:]...), false
	}
	return append(items, b), true
}

func removeAt[T Bookmark](items []T, i int) ([]T, error) {
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(items))
	}
	return append(items[:i:i], items[i+1:]...), nil
}
