package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taiwoajasa245/quran-reader/internal/quran"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("Al-Qur'an"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.viewError())
	case m.loading:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.loadingLabel()))
	default:
		switch m.screen {
		case chapterDetail:
			b.WriteString(m.viewChapter())
		case verseDetail:
			b.WriteString(m.viewVerse())
		default:
			b.WriteString(m.viewList())
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.forScreen(m.screen)))
	return b.String()
}

func (m Model) loadingLabel() string {
	switch m.screen {
	case chapterDetail:
		return fmt.Sprintf("Loading chapter %d…", m.wantChapter)
	case verseDetail:
		return fmt.Sprintf("Loading verse %d:%d…", m.wantVerse[0], m.wantVerse[1])
	default:
		return "Loading chapters…"
	}
}

func (m Model) viewError() string {
	msg := fmt.Sprintf("Failed to load data.\n%v\n\npress r to retry", m.err)
	return m.styles.Error.Render(msg) + "\n"
}

// rows is the number of list lines that fit beside the chrome.
func (m Model) rows(reserved int) int {
	return max(3, m.height-reserved)
}

// window returns the [start, end) slice of n items that keeps cursor visible.
func window(cursor, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	start = max(0, min(start, n-size))
	return start, start + size
}

func (m Model) viewList() string {
	var b strings.Builder

	if len(m.verseMarks) > 0 {
		var p strings.Builder
		p.WriteString(m.styles.Title.Render("Bookmarked verses"))
		p.WriteString("\n")
		start, end := window(m.panelCursor, len(m.verseMarks), 5)
		for i := start; i < end; i++ {
			mark := m.verseMarks[i]
			name := mark.LatinName
			if name == "" {
				name = m.latinNameOf(mark.Chapter)
			}
			line := fmt.Sprintf("Surah %d - %s Ayat %d", mark.Chapter, name, mark.Verse)
			if m.panelFocused && i == m.panelCursor {
				p.WriteString(m.styles.Cursor.Render("> " + line))
			} else {
				p.WriteString("  " + line)
			}
			p.WriteString("\n")
		}
		b.WriteString(m.styles.Panel.Render(strings.TrimRight(p.String(), "\n")))
		b.WriteString("\n")
	}

	reserved := 6
	if len(m.verseMarks) > 0 {
		reserved += 8
	}
	start, end := window(m.listCursor, len(m.chapters), m.rows(reserved))
	for i := start; i < end; i++ {
		c := m.chapters[i]
		star := " "
		if m.chapterMarks[c.Number] {
			star = m.styles.Mark.Render("★")
		}
		line := fmt.Sprintf("%3d. %-20s %s", c.Number, c.LatinName, m.styles.Muted.Render(fmt.Sprintf("%s · %d ayat", c.Meaning, c.VerseCount)))
		if !m.panelFocused && i == m.listCursor {
			b.WriteString(m.styles.Cursor.Render(">") + star + line)
		} else {
			b.WriteString(" " + star + line)
		}
		b.WriteString("  " + c.Name)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewChapter() string {
	d := m.detail
	if d == nil {
		return ""
	}
	var b strings.Builder

	mark := ""
	if m.chapterMarked {
		mark = " " + m.styles.Mark.Render("★ bookmarked")
	}
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%d. %s (%s)", d.Number, d.LatinName, d.Name)))
	b.WriteString(mark)
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("%s · %d ayat · %s", d.Meaning, d.VerseCount, d.RevelationPlace)))
	b.WriteString("\n\n")

	// each verse renders as three lines
	size := m.rows(9) / 3
	start, end := window(m.verseCursor, len(d.Verses), max(1, size))
	for i := start; i < end; i++ {
		b.WriteString(m.verseLines(d.Verses[i], i == m.verseCursor))
	}

	nav := []string{}
	if d.Previous != nil {
		nav = append(nav, "[ "+d.Previous.LatinName)
	}
	if d.Next != nil {
		nav = append(nav, d.Next.LatinName+" ]")
	}
	if len(nav) > 0 {
		b.WriteString(m.styles.Muted.Render(strings.Join(nav, "   ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) verseLines(v quran.Verse, selected bool) string {
	prefix := "  "
	if selected {
		prefix = m.styles.Cursor.Render("> ")
	}

	badges := ""
	if m.playing.Verse == v.Number {
		badges += " " + m.styles.Playing.Render("♪ playing")
	}
	if m.markedVerses[v.Number] {
		badges += " " + m.styles.Mark.Render("★")
	}

	head := fmt.Sprintf("%s%d. %s%s", prefix, v.Number, m.styles.Arabic.Render(v.Arabic), badges)
	body := lipgloss.NewStyle().PaddingLeft(5).Width(max(20, m.width-2)).Render(
		m.styles.Muted.Render(v.Latin) + "\n" + v.Translation)
	return head + "\n" + body + "\n"
}

func (m Model) viewVerse() string {
	v := m.verse
	if v == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s %d:%d", v.LatinName, v.ChapterNumber, v.Verse.Number)))
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  of %d", v.VerseCount)))
	if m.markedVerses[v.Verse.Number] {
		b.WriteString(" " + m.styles.Mark.Render("★ bookmarked"))
	}
	if m.playing.Verse == v.Verse.Number {
		b.WriteString(" " + m.styles.Playing.Render("♪ playing"))
	}
	b.WriteString("\n\n")

	text := lipgloss.NewStyle().Width(max(20, m.width-4))
	b.WriteString(text.Render(m.styles.Arabic.Render(v.Verse.Arabic)))
	b.WriteString("\n\n")
	b.WriteString(text.Render(m.styles.Muted.Render(v.Verse.Latin)))
	b.WriteString("\n\n")
	b.WriteString(text.Render(v.Verse.Translation))
	b.WriteString("\n\n")

	nav := []string{}
	if v.Previous != nil {
		nav = append(nav, fmt.Sprintf("← ayat %d", *v.Previous))
	}
	if v.Next != nil {
		nav = append(nav, fmt.Sprintf("ayat %d →", *v.Next))
	}
	b.WriteString(m.styles.Muted.Render(strings.Join(nav, "   ")))
	b.WriteString("\n")
	return b.String()
}

func (m Model) latinNameOf(number int) string {
	for _, c := range m.chapters {
		if c.Number == number {
			return c.LatinName
		}
	}
	return "Unknown Surah"
}
