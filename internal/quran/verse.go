package quran

import (
	"context"
	"fmt"
)

// FindVerse returns the verse numbered n within detail.
func FindVerse(detail *ChapterDetail, n int) (*Verse, error) {
	for i := range detail.Verses {
		if detail.Verses[i].Number == n {
			return &detail.Verses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: chapter %d has no verse %d", ErrInvalidVerse, detail.Number, n)
}

// Neighbours returns the previous and next verse numbers around n, bounded
// by 1 and count. A nil result means there is no link in that direction.
func Neighbours(n, count int) (prev, next *int) {
	if n > 1 {
		p := n - 1
		prev = &p
	}
	if n < count {
		x := n + 1
		next = &x
	}
	return prev, next
}

// GetVerse loads the enclosing chapter from src and builds the verse detail view.
func GetVerse(ctx context.Context, src Source, chapter, verse int) (*VerseDetail, error) {
	detail, err := src.GetChapter(ctx, chapter)
	if err != nil {
		return nil, err
	}

	v, err := FindVerse(detail, verse)
	if err != nil {
		return nil, err
	}

	prev, next := Neighbours(v.Number, detail.VerseCount)
	return &VerseDetail{
		ChapterNumber: detail.Number,
		ChapterName:   detail.Name,
		LatinName:     detail.LatinName,
		VerseCount:    detail.VerseCount,
		Verse:         *v,
		Previous:      prev,
		Next:          next,
	}, nil
}
