// Package tui is the terminal reader: a chapter list with a verse bookmark
// panel, a chapter screen with sequential verse playback, and a verse screen
// with bounded previous/next navigation.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/taiwoajasa245/quran-reader/internal/bookmark"
	"github.com/taiwoajasa245/quran-reader/internal/player"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

const fetchTimeout = 30 * time.Second

type screen int

const (
	chapterList screen = iota
	chapterDetail
	verseDetail
)

// Deps are the collaborators the reader composes.
type Deps struct {
	Source    quran.Source
	Bookmarks *bookmark.Store
	Backend   player.Backend
	Reciter   string
}

type Model struct {
	source    quran.Source
	bookmarks *bookmark.Store
	player    *player.Sequencer
	events    chan struct{}
	reciter   string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  styles

	screen  screen
	loading bool
	err     error
	status  string
	width   int
	height  int

	chapters     []quran.Chapter
	listCursor   int
	chapterMarks map[int]bool
	verseMarks   []bookmark.VerseBookmark
	panelFocused bool
	panelCursor  int

	wantChapter   int
	detail        *quran.ChapterDetail
	verseCursor   int
	chapterMarked bool
	markedVerses  map[int]bool
	playing       player.State

	wantVerse   [2]int
	verse       *quran.VerseDetail
	fromChapter bool
}

// New builds the reader. Playback state changes from the sequencer's watcher
// goroutines are delivered to Update as messages.
func New(deps Deps) Model {
	events := make(chan struct{}, 1)
	seq := player.NewSequencer(deps.Backend, player.WithOnChange(func(player.State) {
		select {
		case events <- struct{}{}:
		default:
		}
	}))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	reciter := deps.Reciter
	if !quran.ValidReciter(reciter) {
		reciter = quran.DefaultReciter
	}

	return Model{
		source:       deps.Source,
		bookmarks:    deps.Bookmarks,
		player:       seq,
		events:       events,
		reciter:      reciter,
		keys:         defaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		styles:       newStyles(),
		screen:       chapterList,
		loading:      true,
		chapterMarks: map[int]bool{},
		markedVerses: map[int]bool{},
		width:        80,
		height:       24,
	}
}

type chaptersLoadedMsg struct {
	chapters []quran.Chapter
	err      error
}

type chapterLoadedMsg struct {
	number int
	detail *quran.ChapterDetail
	err    error
}

type verseLoadedMsg struct {
	chapter, verse int
	detail         *quran.VerseDetail
	err            error
}

// playerMsg signals that the sequencer changed state.
type playerMsg struct{}

func (m Model) fetchChapters() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		chapters, err := src.ListChapters(ctx)
		return chaptersLoadedMsg{chapters: chapters, err: err}
	}
}

func (m Model) fetchChapter(number int) tea.Cmd {
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		detail, err := src.GetChapter(ctx, number)
		return chapterLoadedMsg{number: number, detail: detail, err: err}
	}
}

func (m Model) fetchVerse(chapter, verse int) tea.Cmd {
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		detail, err := quran.GetVerse(ctx, src, chapter, verse)
		return verseLoadedMsg{chapter: chapter, verse: verse, detail: detail, err: err}
	}
}

func waitForPlayer(events <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-events
		return playerMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchChapters(), waitForPlayer(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case playerMsg:
		m.playing = m.player.State()
		return m, waitForPlayer(m.events)

	case chaptersLoadedMsg:
		if m.screen != chapterList {
			if msg.err == nil {
				m.chapters = msg.chapters
			}
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.chapters = msg.chapters
			m.listCursor = clamp(m.listCursor, len(m.chapters))
		}
		m.refreshListMarks()
		return m, nil

	case chapterLoadedMsg:
		if m.screen != chapterDetail || msg.number != m.wantChapter {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.detail = msg.detail
			m.verseCursor = 0
			m.player.Load(player.ChapterTracks(msg.detail, m.reciter))
			m.refreshChapterMarks()
		}
		return m, nil

	case verseLoadedMsg:
		if m.screen != verseDetail || [2]int{msg.chapter, msg.verse} != m.wantVerse {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.verse = msg.detail
			m.player.Load([]player.Track{{Verse: msg.verse, URL: msg.detail.Verse.AudioURL(m.reciter)}})
			m.refreshVerseMark()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	if key.Matches(msg, m.keys.Quit) {
		m.player.Close()
		return m, tea.Quit
	}
	if m.err != nil && key.Matches(msg, m.keys.Retry) {
		return m.retry()
	}
	if m.loading {
		if key.Matches(msg, m.keys.Back) && m.screen != chapterList {
			return m.back()
		}
		return m, nil
	}

	switch m.screen {
	case chapterDetail:
		return m.chapterKey(msg)
	case verseDetail:
		return m.verseKey(msg)
	default:
		return m.listKey(msg)
	}
}

func (m Model) listKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		m.panelFocused = !m.panelFocused && len(m.verseMarks) > 0
	case key.Matches(msg, m.keys.Up):
		if m.panelFocused {
			m.panelCursor = clamp(m.panelCursor-1, len(m.verseMarks))
		} else {
			m.listCursor = clamp(m.listCursor-1, len(m.chapters))
		}
	case key.Matches(msg, m.keys.Down):
		if m.panelFocused {
			m.panelCursor = clamp(m.panelCursor+1, len(m.verseMarks))
		} else {
			m.listCursor = clamp(m.listCursor+1, len(m.chapters))
		}
	case key.Matches(msg, m.keys.Delete):
		if m.panelFocused && len(m.verseMarks) > 0 {
			if err := m.bookmarks.RemoveVerseAt(context.Background(), m.panelCursor); err != nil {
				m.status = "could not delete bookmark: " + err.Error()
			}
			m.refreshListMarks()
		}
	case key.Matches(msg, m.keys.Open):
		if m.panelFocused && len(m.verseMarks) > 0 {
			b := m.verseMarks[m.panelCursor]
			return m.openVerse(b.Chapter, b.Verse, false)
		}
		if len(m.chapters) > 0 {
			return m.openChapter(m.chapters[m.listCursor].Number)
		}
	}
	return m, nil
}

func (m Model) chapterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		return m.back()
	}
	if m.err != nil || m.detail == nil {
		return m, nil
	}

	verses := m.detail.Verses
	switch {
	case key.Matches(msg, m.keys.Up):
		m.verseCursor = clamp(m.verseCursor-1, len(verses))
	case key.Matches(msg, m.keys.Down):
		m.verseCursor = clamp(m.verseCursor+1, len(verses))
	case key.Matches(msg, m.keys.Play):
		if len(verses) > 0 {
			m.playing = m.player.Play(verses[m.verseCursor].Number)
		}
	case key.Matches(msg, m.keys.Stop):
		m.playing = m.player.Stop()
	case key.Matches(msg, m.keys.MarkSura):
		on, err := m.bookmarks.ToggleChapter(context.Background(), chapterRef(m.detail.Chapter))
		if err != nil {
			m.status = "could not save bookmark: " + err.Error()
			break
		}
		m.chapterMarked = on
	case key.Matches(msg, m.keys.MarkAyah):
		if len(verses) == 0 {
			break
		}
		n := verses[m.verseCursor].Number
		on, err := m.bookmarks.ToggleVerse(context.Background(), chapterRef(m.detail.Chapter), n)
		if err != nil {
			m.status = "could not save bookmark: " + err.Error()
			break
		}
		m.markedVerses[n] = on
	case key.Matches(msg, m.keys.Open):
		if len(verses) > 0 {
			return m.openVerse(m.detail.Number, verses[m.verseCursor].Number, true)
		}
	case key.Matches(msg, m.keys.NextSura):
		if m.detail.Next != nil {
			return m.openChapter(m.detail.Next.Number)
		}
	case key.Matches(msg, m.keys.PrevSura):
		if m.detail.Previous != nil {
			return m.openChapter(m.detail.Previous.Number)
		}
	}
	return m, nil
}

func (m Model) verseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		return m.back()
	}
	if m.err != nil || m.verse == nil {
		return m, nil
	}

	v := m.verse
	switch {
	case key.Matches(msg, m.keys.Left):
		if v.Previous != nil {
			return m.openVerse(v.ChapterNumber, *v.Previous, m.fromChapter)
		}
	case key.Matches(msg, m.keys.Right):
		if v.Next != nil {
			return m.openVerse(v.ChapterNumber, *v.Next, m.fromChapter)
		}
	case key.Matches(msg, m.keys.Play):
		m.playing = m.player.Play(v.Verse.Number)
	case key.Matches(msg, m.keys.MarkAyah):
		ref := bookmark.ChapterBookmark{Chapter: v.ChapterNumber, LatinName: v.LatinName, Meaning: m.meaningOf(v.ChapterNumber)}
		on, err := m.bookmarks.ToggleVerse(context.Background(), ref, v.Verse.Number)
		if err != nil {
			m.status = "could not save bookmark: " + err.Error()
			break
		}
		m.markedVerses[v.Verse.Number] = on
	}
	return m, nil
}

func (m Model) openChapter(number int) (tea.Model, tea.Cmd) {
	m.playing = m.player.Stop()
	m.screen = chapterDetail
	m.wantChapter = number
	m.detail = nil
	m.verseCursor = 0
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.fetchChapter(number))
}

func (m Model) openVerse(chapter, verse int, fromChapter bool) (tea.Model, tea.Cmd) {
	m.playing = m.player.Stop()
	m.screen = verseDetail
	m.wantVerse = [2]int{chapter, verse}
	m.verse = nil
	m.fromChapter = fromChapter
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.fetchVerse(chapter, verse))
}

// back leaves the current screen. Leaving a screen always stops playback.
func (m Model) back() (tea.Model, tea.Cmd) {
	m.playing = m.player.Stop()
	m.loading = false
	m.err = nil

	if m.screen == verseDetail && m.fromChapter && m.detail != nil && m.detail.Number == m.wantVerse[0] {
		m.screen = chapterDetail
		m.player.Load(player.ChapterTracks(m.detail, m.reciter))
		m.refreshChapterMarks()
		for i, v := range m.detail.Verses {
			if v.Number == m.wantVerse[1] {
				m.verseCursor = i
			}
		}
		return m, nil
	}

	m.screen = chapterList
	m.player.Load(nil)
	if len(m.chapters) == 0 {
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchChapters())
	}
	m.refreshListMarks()
	return m, nil
}

// retry re-issues the failed fetch of the current screen.
func (m Model) retry() (tea.Model, tea.Cmd) {
	m.err = nil
	m.loading = true
	switch m.screen {
	case chapterDetail:
		return m, tea.Batch(m.spinner.Tick, m.fetchChapter(m.wantChapter))
	case verseDetail:
		return m, tea.Batch(m.spinner.Tick, m.fetchVerse(m.wantVerse[0], m.wantVerse[1]))
	default:
		return m, tea.Batch(m.spinner.Tick, m.fetchChapters())
	}
}

func (m *Model) refreshListMarks() {
	ctx := context.Background()

	marks, err := m.bookmarks.ListVerses(ctx, 0)
	if err != nil {
		log.Warn().Err(err).Msg("loading verse bookmarks")
		marks = nil
	}
	m.verseMarks = marks
	m.panelCursor = clamp(m.panelCursor, len(marks))
	if len(marks) == 0 {
		m.panelFocused = false
	}

	chapters, err := m.bookmarks.ListChapters(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("loading chapter bookmarks")
	}
	m.chapterMarks = make(map[int]bool, len(chapters))
	for _, c := range chapters {
		m.chapterMarks[c.Chapter] = true
	}
}

func (m *Model) refreshChapterMarks() {
	ctx := context.Background()
	number := m.detail.Number

	on, err := m.bookmarks.IsChapterBookmarked(ctx, number)
	if err != nil {
		log.Warn().Err(err).Int("chapter", number).Msg("loading chapter bookmark")
	}
	m.chapterMarked = on

	m.markedVerses = map[int]bool{}
	marks, err := m.bookmarks.ListVerses(ctx, number)
	if err != nil {
		log.Warn().Err(err).Int("chapter", number).Msg("loading verse bookmarks")
		return
	}
	for _, b := range marks {
		m.markedVerses[b.Verse] = true
	}
}

func (m *Model) refreshVerseMark() {
	on, err := m.bookmarks.IsVerseBookmarked(context.Background(), m.verse.ChapterNumber, m.verse.Verse.Number)
	if err != nil {
		log.Warn().Err(err).Msg("loading verse bookmark")
	}
	m.markedVerses = map[int]bool{m.verse.Verse.Number: on}
}

// meaningOf looks up a chapter's translated name from the loaded list.
func (m Model) meaningOf(number int) string {
	if m.detail != nil && m.detail.Number == number {
		return m.detail.Meaning
	}
	for _, c := range m.chapters {
		if c.Number == number {
			return c.Meaning
		}
	}
	return ""
}

func chapterRef(c quran.Chapter) bookmark.ChapterBookmark {
	return bookmark.ChapterBookmark{Chapter: c.Number, LatinName: c.LatinName, Meaning: c.Meaning}
}

// clamp bounds i to [0, n).
func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
