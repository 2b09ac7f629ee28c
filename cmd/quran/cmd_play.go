package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/taiwoajasa245/quran-reader/internal/player"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
	"github.com/taiwoajasa245/quran-reader/internal/tui"
)

var playSingle bool

// playCmd recites a chapter from the given verse onwards
var playCmd = &cobra.Command{
	Use:   "play [chapter] [verse]",
	Short: "Recite a chapter, advancing verse by verse",
	Long: `Plays the recitation of each verse in turn, starting at the given verse
(default 1), until the chapter ends or the command is interrupted.
Audio is played by the external command set with --player.`,
	Example: `  quran play 36
  quran play 2 255 --single -r 05`,
	Args: cobra.RangeArgs(1, 2),
	RunE: playChapter,
}

// tuiCmd opens the interactive reader
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive reader (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	playCmd.Flags().BoolVar(&playSingle, "single", false, "play only the given verse")
}

func playChapter(cmd *cobra.Command, args []string) error {
	chapter, err := parseNumber("chapter", args[0])
	if err != nil {
		return err
	}
	verse := 1
	if len(args) == 2 {
		if verse, err = parseNumber("verse", args[1]); err != nil {
			return err
		}
	}

	backend, err := player.NewExecBackend(playerCommand)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detail, err := newSource().GetChapter(ctx, chapter)
	if err != nil {
		return err
	}
	v, err := quran.FindVerse(detail, verse)
	if err != nil {
		return err
	}

	code := selectedReciter()
	tracks := player.ChapterTracks(detail, code)
	if playSingle {
		tracks = []player.Track{{Verse: v.Number, URL: v.AudioURL(code)}}
	}

	out := cmd.OutOrStdout()
	idle := make(chan struct{})
	var once sync.Once
	seq := player.NewSequencer(backend, player.WithOnChange(func(st player.State) {
		if st.Idle() {
			once.Do(func() { close(idle) })
			return
		}
		fmt.Fprintf(out, "♪ %s %d:%d (%s)\n", detail.LatinName, detail.Number, st.Verse, quran.Reciters[code])
	}))
	defer seq.Close()

	seq.Load(tracks)
	if seq.Play(verse).Idle() {
		return fmt.Errorf("could not start playback of %d:%d, see the log for details", chapter, verse)
	}

	select {
	case <-idle:
	case <-ctx.Done():
		seq.Stop()
		fmt.Fprintln(out, "stopped")
	}
	return nil
}

// unavailableBackend lets the reader run without an audio player; every
// play attempt fails and the sequencer stays idle.
type unavailableBackend struct{ err error }

func (b unavailableBackend) Start(string) (player.Handle, error) { return nil, b.err }

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := openBookmarks()
	if err != nil {
		return err
	}

	var backend player.Backend
	if exec, err := player.NewExecBackend(playerCommand); err != nil {
		log.Warn().Err(err).Msg("audio playback disabled")
		backend = unavailableBackend{err: err}
	} else {
		backend = exec
	}

	model := tui.New(tui.Deps{
		Source:    newSource(),
		Bookmarks: store,
		Backend:   backend,
		Reciter:   selectedReciter(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run reader: %w", err)
	}
	return nil
}
