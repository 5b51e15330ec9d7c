// Package watchui implements the live-updating neighbor table shown by
// `show-neighbors --watch` (spec section 6's CLI surface).
package watchui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nullgraph/lldpd/pkg/neighbor"
)

// pollInterval is how often the table refreshes from the neighbor store.
const pollInterval = 5 * time.Second

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// model is the bubbletea model for the neighbor table.
type model struct {
	store     *neighbor.Store
	neighbors []neighbor.Record
	err       error
}

func (m model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.store), tickCmd())
}

func refreshCmd(store *neighbor.Store) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{records: store.ListLive(time.Now().UTC())}
	}
}

type refreshedMsg struct {
	records []neighbor.Record
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(refreshCmd(m.store), tickCmd())
	case refreshedMsg:
		m.neighbors = msg.records
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-20s %-20s %-6s %s", "IFACE", "CHASSIS ID", "PORT ID", "TTL", "SYSTEM NAME")))
	b.WriteString("\n")

	if len(m.neighbors) == 0 {
		b.WriteString(cellStyle.Render("No live neighbors."))
		b.WriteString("\n")
	}
	for _, r := range m.neighbors {
		row := fmt.Sprintf("%-10s %-20s %-20s %-6d %s", r.Interface, r.ChassisID, r.PortID, r.ReceivedTTL, r.SystemName)
		b.WriteString(cellStyle.Render(row))
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("refreshing every %s — press q to quit", pollInterval)))
	return b.String()
}

// Run blocks displaying the live neighbor table until the user quits.
func Run(store *neighbor.Store) error {
	p := tea.NewProgram(model{store: store})
	_, err := p.Run()
	return err
}
