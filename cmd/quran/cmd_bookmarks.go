package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taiwoajasa245/quran-reader/internal/bookmark"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

var bookmarkSurah int

// bookmarksCmd lists the saved chapters and verses
var bookmarksCmd = &cobra.Command{
	Use:     "bookmarks",
	Aliases: []string{"bm"},
	Short:   "List bookmarked chapters and verses",
	Long: `Lists bookmarked chapters and verses in the order they were saved.
The numbers in front of each entry are the positions used by "bookmarks rm".`,
	Args: cobra.NoArgs,
	RunE: listBookmarks,
}

var bookmarksToggleCmd = &cobra.Command{
	Use:   "toggle [chapter] [verse]",
	Short: "Bookmark a chapter or verse, or remove it when already saved",
	Example: `  quran bookmarks toggle 18
  quran bookmarks toggle 2 255`,
	Args: cobra.RangeArgs(1, 2),
	RunE: toggleBookmark,
}

var bookmarksRmCmd = &cobra.Command{
	Use:       "rm [chapter|verse] [position]",
	Short:     "Remove a bookmark by its listed position",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"chapter", "verse"},
	RunE:      removeBookmark,
}

func init() {
	bookmarksCmd.Flags().IntVar(&bookmarkSurah, "surah", 0, "only list verse bookmarks of this chapter")
	bookmarksCmd.AddCommand(bookmarksToggleCmd, bookmarksRmCmd)
}

func listBookmarks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openBookmarks()
	if err != nil {
		return err
	}

	chapters, err := store.ListChapters(ctx)
	if err != nil {
		return err
	}
	// Positions always refer to the full list so they stay valid for rm.
	verses, err := store.ListVerses(ctx, 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if bookmarkSurah == 0 {
		fmt.Fprintln(out, "Chapters:")
		if len(chapters) == 0 {
			fmt.Fprintln(out, "  (none)")
		}
		for i, c := range chapters {
			fmt.Fprintf(out, "  %d) Surah %d - %s (%s)\n", i+1, c.Chapter, c.LatinName, c.Meaning)
		}
	}

	fmt.Fprintln(out, "Verses:")
	shown := 0
	for i, v := range verses {
		if bookmarkSurah != 0 && v.Chapter != bookmarkSurah {
			continue
		}
		fmt.Fprintf(out, "  %d) Surah %d - %s Ayat %d\n", i+1, v.Chapter, v.LatinName, v.Verse)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	return nil
}

func toggleBookmark(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	chapter, err := parseNumber("chapter", args[0])
	if err != nil {
		return err
	}
	if err := quran.ValidateChapter(chapter); err != nil {
		return err
	}

	store, err := openBookmarks()
	if err != nil {
		return err
	}
	source := newSource()

	if len(args) == 1 {
		ref, err := chapterRef(cmd, source, chapter)
		if err != nil {
			return err
		}
		saved, err := store.ToggleChapter(ctx, ref)
		if err != nil {
			return err
		}
		reportToggle(cmd, saved, fmt.Sprintf("Surah %d - %s", ref.Chapter, ref.LatinName))
		return nil
	}

	verse, err := parseNumber("verse", args[1])
	if err != nil {
		return err
	}
	detail, err := source.GetChapter(ctx, chapter)
	if err != nil {
		return err
	}
	if _, err := quran.FindVerse(detail, verse); err != nil {
		return err
	}

	ref := bookmark.ChapterBookmark{Chapter: detail.Number, LatinName: detail.LatinName, Meaning: detail.Meaning}
	saved, err := store.ToggleVerse(ctx, ref, verse)
	if err != nil {
		return err
	}
	reportToggle(cmd, saved, fmt.Sprintf("Surah %d - %s Ayat %d", ref.Chapter, ref.LatinName, verse))
	return nil
}

func chapterRef(cmd *cobra.Command, source quran.Source, number int) (bookmark.ChapterBookmark, error) {
	chapters, err := source.ListChapters(cmd.Context())
	if err != nil {
		return bookmark.ChapterBookmark{}, err
	}
	for _, c := range chapters {
		if c.Number == number {
			return bookmark.ChapterBookmark{Chapter: c.Number, LatinName: c.LatinName, Meaning: c.Meaning}, nil
		}
	}
	return bookmark.ChapterBookmark{}, fmt.Errorf("%w: chapter %d", quran.ErrNotFound, number)
}

func reportToggle(cmd *cobra.Command, saved bool, label string) {
	if saved {
		fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s\n", label)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed bookmark %s\n", label)
	}
}

func removeBookmark(cmd *cobra.Command, args []string) error {
	position, err := parseNumber("position", args[1])
	if err != nil {
		return err
	}

	store, err := openBookmarks()
	if err != nil {
		return err
	}

	switch args[0] {
	case "chapter":
		err = store.RemoveChapterAt(cmd.Context(), position-1)
	case "verse":
		err = store.RemoveVerseAt(cmd.Context(), position-1)
	default:
		return fmt.Errorf("unknown bookmark kind %q, want chapter or verse", args[0])
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s bookmark %d\n", args[0], position)
	return nil
}
