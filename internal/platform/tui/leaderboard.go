package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/floppy/internal/leaderboard"
)

// Leaderboard layout constants
const (
	boardMinWidth = 44 // Below this the date column is dropped
	boardMargin   = 4
)

var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			MarginBottom(1)

	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	boardMutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)

	boardErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))
)

// leaderboardPanel shows the top scores in a scrollable table.
type leaderboardPanel struct {
	table   table.Model
	entries []leaderboard.Entry
	player  string // Highlighted with a marker
	dated   bool   // Wide enough for the date column
	width   int
	height  int
	loading bool
	err     error
}

func newLeaderboardPanel(width, height int) leaderboardPanel {
	p := leaderboardPanel{width: width, height: height}
	p.table = p.createTable()
	return p
}

// createTable creates a table with columns fitted to the panel width.
func (p *leaderboardPanel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 7},
	}
	p.dated = p.width >= boardMinWidth+boardMargin
	if p.dated {
		columns = append(columns, table.Column{Title: "Date", Width: 13})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(p.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// SetSize refits the table to a new terminal size.
func (p *leaderboardPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.table = p.createTable()
	p.updateTableRows()
}

// SetLoading marks the panel as waiting for a refresh.
func (p *leaderboardPanel) SetLoading() {
	p.loading = true
	p.err = nil
}

// Refresh replaces the list with the given scores.
func (p *leaderboardPanel) Refresh(entries []leaderboard.Entry, player string, err error) {
	p.loading = false
	p.err = err
	p.player = player
	if err == nil {
		p.entries = entries
	}
	p.updateTableRows()
}

func (p *leaderboardPanel) updateTableRows() {
	rows := make([]table.Row, len(p.entries))
	for i, e := range p.entries {
		name := e.Nickname
		if name == "" {
			name = leaderboard.DefaultNickname
		}
		if e.Player == p.player {
			name = "> " + name
		}
		row := table.Row{fmt.Sprintf("#%d", i+1), name, fmt.Sprintf("%d", e.Score)}
		if p.dated {
			row = append(row, e.Timestamp.Format("Jan 02 15:04"))
		}
		rows[i] = row
	}
	p.table.SetRows(rows)
	p.table.GotoTop()
}

// Update scrolls the table.
func (p leaderboardPanel) Update(msg tea.KeyMsg) (leaderboardPanel, tea.Cmd) {
	keys := p.table.KeyMap
	if key.Matches(msg, keys.LineUp, keys.LineDown, keys.PageUp, keys.PageDown, keys.GotoTop, keys.GotoBottom) {
		var cmd tea.Cmd
		p.table, cmd = p.table.Update(msg)
		return p, cmd
	}
	return p, nil
}

// View renders the panel centered in the terminal.
func (p leaderboardPanel) View() string {
	var b strings.Builder

	b.WriteString(centerText(boardTitleStyle.Render("LEADERBOARD"), p.width))
	b.WriteString("\n\n")

	var content string
	switch {
	case p.loading && len(p.entries) == 0:
		content = boardMutedStyle.Render("Loading scores...")
	case len(p.entries) == 0:
		content = boardMutedStyle.Render("No scores yet.\nConnect and submit a score to appear here!")
	default:
		content = p.table.View()
	}
	b.WriteString(centerText(boardFrameStyle.Render(content), p.width))

	if p.err != nil {
		b.WriteString("\n")
		b.WriteString(centerText(boardErrorStyle.Render(p.err.Error()), p.width))
	}
	return b.String()
}

// centerText centers each line of text within width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
