package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/citescope/citescope/pkg/graph"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// GraphListModel - Interactive graph selection
// =============================================================================

// GraphListModel is the bubbletea model for picking one graph out of a
// multi-graph input file.
type GraphListModel struct {
	Graphs   []*graph.Graph
	Cursor   int
	Selected int // index of the chosen graph, -1 until confirmed
	Height   int
	Offset   int
}

// NewGraphListModel creates a new graph list model.
func NewGraphListModel(graphs []*graph.Graph) GraphListModel {
	return GraphListModel{
		Graphs:   graphs,
		Selected: -1,
		Height:   15,
	}
}

func (m GraphListModel) Init() tea.Cmd {
	return nil
}

func (m GraphListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Graphs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GraphListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Graphs) {
		end = len(m.Graphs)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		g := m.Graphs[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		query := g.Query
		if query == "" {
			query = "—"
		}

		rows = append(rows, []string{
			cursor,
			g.ToolName,
			query,
			fmt.Sprintf("%d", g.NodeCount()),
			fmt.Sprintf("%d", g.EdgeCount()),
			formatRelativeTime(g.CreatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Tool", "Query", "Nodes", "Edges", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Graphs) {
				return lipgloss.NewStyle()
			}
			empty := m.Graphs[actualIdx].NodeCount() == 0

			base := lipgloss.NewStyle()
			if col == 5 {
				base = base.Foreground(colorDim)
			}

			switch {
			case actualIdx == m.Cursor && empty:
				return base.Foreground(colorDim).Bold(true)
			case actualIdx == m.Cursor:
				return base.Foreground(colorGreen).Bold(true)
			case empty:
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graphs))))

	return b.String()
}

// pickGraph runs the interactive picker and returns the chosen index,
// or -1 when the user quits without selecting.
func pickGraph(graphs []*graph.Graph) (int, error) {
	final, err := tea.NewProgram(NewGraphListModel(graphs)).Run()
	if err != nil {
		return -1, fmt.Errorf("graph picker: %w", err)
	}
	m, ok := final.(GraphListModel)
	if !ok {
		return -1, nil
	}
	return m.Selected, nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
