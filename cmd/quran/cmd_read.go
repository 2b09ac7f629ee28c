package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

// chaptersCmd lists every chapter
var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List all 114 chapters",
	Long: `Lists every chapter with its latin name, meaning and verse count.
Bookmarked chapters are marked with a star.`,
	Args: cobra.NoArgs,
	RunE: listChapters,
}

// chapterCmd prints a chapter
var chapterCmd = &cobra.Command{
	Use:   "chapter [number]",
	Short: "Print every verse of a chapter",
	Args:  cobra.ExactArgs(1),
	RunE:  showChapter,
}

// verseCmd prints a single verse
var verseCmd = &cobra.Command{
	Use:   "verse [chapter] [verse]",
	Short: "Print a single verse with its neighbours",
	Example: `  quran verse 2 255
  quran verse 1 7`,
	Args: cobra.ExactArgs(2),
	RunE: showVerse,
}

var recitersCmd = &cobra.Command{
	Use:   "reciters",
	Short: "List the reciter codes accepted by --reciter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		codes := make([]string, 0, len(quran.Reciters))
		for code := range quran.Reciters {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", code, quran.Reciters[code])
		}
		return nil
	},
}

func listChapters(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	chapters, err := newSource().ListChapters(ctx)
	if err != nil {
		return err
	}

	store, err := openBookmarks()
	if err != nil {
		return err
	}
	marks, err := store.ListChapters(ctx)
	if err != nil {
		return err
	}
	marked := make(map[int]bool, len(marks))
	for _, m := range marks {
		marked[m.Chapter] = true
	}

	out := cmd.OutOrStdout()
	for _, c := range chapters {
		star := " "
		if marked[c.Number] {
			star = "★"
		}
		fmt.Fprintf(out, "%s%3d. %-22s %-28s %3d ayat  %s\n",
			star, c.Number, c.LatinName, c.Meaning, c.VerseCount, c.Name)
	}
	return nil
}

func showChapter(cmd *cobra.Command, args []string) error {
	number, err := parseNumber("chapter", args[0])
	if err != nil {
		return err
	}

	detail, err := newSource().GetChapter(cmd.Context(), number)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d. %s (%s)\n", detail.Number, detail.LatinName, detail.Name)
	fmt.Fprintf(out, "%s · %d ayat · %s\n\n", detail.Meaning, detail.VerseCount, detail.RevelationPlace)
	for _, v := range detail.Verses {
		printVerse(out, v)
	}
	return nil
}

func showVerse(cmd *cobra.Command, args []string) error {
	chapter, err := parseNumber("chapter", args[0])
	if err != nil {
		return err
	}
	verse, err := parseNumber("verse", args[1])
	if err != nil {
		return err
	}

	v, err := quran.GetVerse(cmd.Context(), newSource(), chapter, verse)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d:%d of %d\n\n", v.LatinName, v.ChapterNumber, v.Verse.Number, v.VerseCount)
	printVerse(out, v.Verse)
	if v.Previous != nil {
		fmt.Fprintf(out, "previous: quran verse %d %d\n", v.ChapterNumber, *v.Previous)
	}
	if v.Next != nil {
		fmt.Fprintf(out, "next: quran verse %d %d\n", v.ChapterNumber, *v.Next)
	}
	return nil
}

func printVerse(out io.Writer, v quran.Verse) {
	fmt.Fprintf(out, "%d. %s\n   %s\n   %s\n\n", v.Number, v.Arabic, v.Latin, v.Translation)
}

func parseNumber(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s number %q", what, arg)
	}
	return n, nil
}
