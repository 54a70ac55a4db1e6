package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/symphony/internal/activity"
)

const (
	kindColumn = 14
	songsWidth = 30
	minLogWide = 40

	defaultLogWidth = 80
	// maxLogRows bounds the rows kept on screen; the store keeps the full log.
	maxLogRows = 500
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	armedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Italic(true)
	clockStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	panelStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	songStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))

	tagStyles = map[string]lipgloss.Style{
		activity.TagPiano:      lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		activity.TagGuitar:     lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		activity.TagPercussion: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		activity.TagOther:      lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")),
		activity.TagEffects:    lipgloss.NewStyle().Foreground(lipgloss.Color("#36CFC9")),
		activity.TagMouseMove:  lipgloss.NewStyle().Foreground(lipgloss.Color("#B37FEB")),
	}
	plainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	status := fitLines(m.renderStatus(), m.width, 1)
	footer := m.renderFooter()
	bodyHeight := m.bodyHeight(header, footer)
	body := m.renderBody(bodyHeight)
	return strings.Join([]string{header, status, body, footer}, "\n")
}

func (m *Model) bodyHeight(header, footer string) int {
	h := m.height - lipgloss.Height(header) - 1 - lipgloss.Height(footer)
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.bodyHeight(m.renderHeader(), m.renderFooter())
	m.logView.Width = m.logWidth()
	m.logView.Height = h
	m.refreshLog()
}

func (m *Model) logWidth() int {
	if m.width-songsWidth < minLogWide {
		return m.width
	}
	return m.width - songsWidth
}

func (m *Model) renderHeader() string {
	state := idleStyle.Render("○ idle")
	if m.rec.Armed() {
		state = armedStyle.Render("● recording")
	}
	title := titleStyle.Render("Procrastination Symphony") + "  " + state
	st := m.rec.Stats()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Keys", fmt.Sprintf("%d", st.Keystrokes)),
		metricCard("Clicks", fmt.Sprintf("%d", st.MouseClicks)),
		metricCard("Moves", fmt.Sprintf("%d", st.MouseMovements)),
		metricCard("Tabs", fmt.Sprintf("%d", st.TabSwitches)),
		metricCard("Tempo", fmt.Sprintf("%.0f", st.Tempo)),
		metricCard("Instruments", fmt.Sprintf("%d", m.rec.Instruments())),
	)
	if lipgloss.Width(cards) > m.width {
		cards = fmt.Sprintf("Keys %d  Clicks %d  Moves %d  Tabs %d  Tempo %.0f  Instruments %d",
			st.Keystrokes, st.MouseClicks, st.MouseMovements, st.TabSwitches, st.Tempo, m.rec.Instruments())
	}
	return padLines(title+"\n"+cards, m.width)
}

func metricCard(label, value string) string {
	content := cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func (m *Model) renderStatus() string {
	return statusStyle.Render("♪ " + m.sess.Status.Text())
}

func (m *Model) renderFooter() string {
	return padLines(m.help.View(m.keys), m.width)
}

func (m *Model) renderBody(height int) string {
	logPane := fitLines(m.logView.View(), m.logView.Width, height)
	if m.logWidth() == m.width {
		return logPane
	}
	songs := panelStyle.Width(songsWidth - 2).Height(height - 2).Render(m.renderSongs(height - 2))
	return lipgloss.JoinHorizontal(lipgloss.Top, logPane, fitLines(songs, songsWidth, height))
}

func (m *Model) renderSongs(height int) string {
	lines := []string{cardTitleStyle.Render("Songs")}
	playing := m.song.Name()
	inner := songsWidth - 4
	for i, s := range m.book.Songs {
		if len(lines) >= height {
			break
		}
		label := "   "
		if i < 12 {
			label = fmt.Sprintf("F%-2d", i+1)
		}
		line := truncateLine(label+" "+s.Name, inner)
		if s.Name == playing {
			lines = append(lines, playingStyle.Render(line))
			continue
		}
		lines = append(lines, songStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

// refreshLog updates the log pane, staying pinned to the newest row unless
// the user scrolled away. Rows are re-rendered only when the width changes.
func (m *Model) refreshLog() {
	width := m.logView.Width
	if width <= 0 {
		width = defaultLogWidth
	}
	if width != m.renderW {
		m.renderW = width
		for i, e := range m.rows {
			m.rendered[i] = formatRow(e, width)
		}
	}
	var lines []string
	if m.banner != "" {
		lines = append(lines, bannerStyle.Render(m.banner))
	}
	for _, row := range m.rendered {
		lines = append(lines, row...)
	}
	m.logView.SetContent(strings.Join(lines, "\n"))
	if m.followed {
		m.logView.GotoBottom()
	}
}

// formatRow renders one entry as "hh:mm:ss  Kind  Details", wrapping the
// details under their own column.
func formatRow(e activity.Entry, width int) []string {
	style, ok := tagStyles[e.Tag]
	if !ok {
		style = plainStyle
	}
	prefix := e.Clock() + "  " + runewidth.FillRight(runewidth.Truncate(string(e.Kind), kindColumn, ""), kindColumn) + "  "
	indent := runewidth.StringWidth(prefix)
	wrapped := wrapText(e.Details, width-indent)
	out := make([]string, 0, len(wrapped))
	for i, part := range wrapped {
		if i == 0 {
			out = append(out, clockStyle.Render(prefix)+style.Render(part))
			continue
		}
		out = append(out, strings.Repeat(" ", indent)+style.Render(part))
	}
	return out
}
