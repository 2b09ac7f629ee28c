package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	chaptersKey      = "quran:chapters"
	chapterKeyFormat = "quran:chapter:%d"
)

// CachedSource is a read-through Redis cache in front of another Source.
// Redis failures are logged and the request falls through to the upstream.
type CachedSource struct {
	next Source
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedSource(next Source, rdb *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedSource) ListChapters(ctx context.Context) ([]Chapter, error) {
	var chapters []Chapter
	if c.load(ctx, chaptersKey, &chapters) {
		return chapters, nil
	}

	chapters, err := c.next.ListChapters(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, chaptersKey, chapters)
	return chapters, nil
}

func (c *CachedSource) GetChapter(ctx context.Context, number int) (*ChapterDetail, error) {
	if err := ValidateChapter(number); err != nil {
		return nil, err
	}

	key := fmt.Sprintf(chapterKeyFormat, number)
	var detail ChapterDetail
	if c.load(ctx, key, &detail) {
		return &detail, nil
	}

	fetched, err := c.next.GetChapter(ctx, number)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fetched)
	return fetched, nil
}

// RefreshChapters re-fetches the chapter list from upstream and overwrites the cache.
func (c *CachedSource) RefreshChapters(ctx context.Context) ([]Chapter, error) {
	chapters, err := c.next.ListChapters(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, chaptersKey, chapters)
	return chapters, nil
}

// RefreshChapter re-fetches one chapter from upstream and overwrites the cache.
func (c *CachedSource) RefreshChapter(ctx context.Context, number int) error {
	detail, err := c.next.GetChapter(ctx, number)
	if err != nil {
		return err
	}
	c.store(ctx, fmt.Sprintf(chapterKeyFormat, number), detail)
	return nil
}

func (c *CachedSource) load(ctx context.Context, key string, out any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return true
}

func (c *CachedSource) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
