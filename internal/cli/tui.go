package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/xrpex/xrpex/pkg/monitor"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MonitorListModel - Interactive monitor selection
// =============================================================================

// MonitorListModel is the bubbletea model for interactive monitor selection.
// Virtual monitors are listed but cannot be selected.
type MonitorListModel struct {
	Monitors []monitor.Monitor
	Cursor   int
	Selected *monitor.Monitor
	Height   int
	Offset   int
}

// NewMonitorListModel creates a new monitor list model with the cursor on
// the primary monitor.
func NewMonitorListModel(monitors []monitor.Monitor) MonitorListModel {
	m := MonitorListModel{
		Monitors: monitors,
		Height:   10,
	}
	for i, mon := range monitors {
		if mon.Primary && !mon.Virtual {
			m.Cursor = i
			break
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m MonitorListModel) Init() tea.Cmd {
	return nil
}

func (m MonitorListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Monitors)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Monitors) == 0 {
				return m, tea.Quit
			}
			mon := m.Monitors[m.Cursor]
			if mon.Virtual {
				return m, nil
			}
			m.Selected = &mon
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m MonitorListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Monitor"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Monitors))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, monitorRow(m.Monitors[i])...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Monitor", "Resolution", "Origin", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Monitors) {
				return lipgloss.NewStyle()
			}
			mon := m.Monitors[idx]
			base := lipgloss.NewStyle()
			switch {
			case mon.Virtual:
				base = base.Foreground(colorDim)
			case idx == m.Cursor:
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Monitors))))

	return b.String()
}

// monitorRow returns the name, resolution, origin and flags of mon.
func monitorRow(mon monitor.Monitor) []string {
	var flags []string
	if mon.Primary {
		flags = append(flags, "primary")
	}
	if mon.Virtual {
		flags = append(flags, "virtual")
	}
	if mon.Hidden {
		flags = append(flags, "split")
	}
	return []string{
		mon.Name,
		mon.Resolution.String(),
		fmt.Sprintf("+%d+%d", mon.Origin[0], mon.Origin[1]),
		strings.Join(flags, ", "),
	}
}

// pickMonitor runs the interactive picker. It returns ErrNoMonitor when the
// user quits without choosing.
func pickMonitor(monitors []monitor.Monitor) (monitor.Monitor, error) {
	final, err := tea.NewProgram(NewMonitorListModel(monitors)).Run()
	if err != nil {
		return monitor.Monitor{}, err
	}
	if m, ok := final.(MonitorListModel); ok && m.Selected != nil {
		return *m.Selected, nil
	}
	return monitor.Monitor{}, fmt.Errorf("%w: none selected", monitor.ErrNoMonitor)
}
