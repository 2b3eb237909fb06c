package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"traininghub/internal/marts"
	"traininghub/internal/service"
	"traininghub/internal/store"
)

// GearModel is the gear lifecycle screen model
type GearModel struct {
	queryService *service.QueryService
	viewport     viewport.Model
	gear         []store.GearOverview
	loading      bool
	ready        bool
	err          error
}

// NewGearModel creates a new gear model
func NewGearModel(qs *service.QueryService) GearModel {
	return GearModel{queryService: qs, loading: true}
}

// Init initializes the gear screen
func (m GearModel) Init() tea.Cmd {
	return m.loadData
}

func (m GearModel) loadData() tea.Msg {
	gear, err := m.queryService.GearOverview(context.Background())
	return gearMsg{gear: gear, err: err}
}

type gearMsg struct {
	gear []store.GearOverview
	err  error
}

// Update handles messages
func (m GearModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gearMsg:
		m.loading = false
		m.gear = msg.gear
		m.err = msg.err
		if m.ready {
			m.viewport.SetContent(m.renderTable())
		}
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-8)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 8
		}
		m.viewport.SetContent(m.renderTable())
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadData
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the gear screen
func (m GearModel) View() string {
	if m.loading {
		return "\n  Loading gear..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if len(m.gear) == 0 {
		return "\n  No gear tracked. Run an extraction first."
	}

	if !m.ready {
		return m.renderTable()
	}
	return m.viewport.View()
}

func (m GearModel) renderTable() string {
	header := tableHeaderStyle.Render(fmt.Sprintf("%-24s %-10s %-8s %10s %6s %8s %10s",
		"Name", "Type", "Status", "Distance", "Uses", "Used", "Remaining"))

	rows := []string{header}
	for _, g := range m.gear {
		used := "-"
		remaining := "-"
		wear := "unlimited"
		if g.PctOfMaxUsed != nil {
			used = fmt.Sprintf("%.0f%%", *g.PctOfMaxUsed)
			wear = marts.WearStatus(g.PctOfMaxUsed)
		}
		if g.RemainingKM != nil {
			remaining = fmt.Sprintf("%.0f km", *g.RemainingKM)
		}

		line := fmt.Sprintf("%-24s %-10s %-8s %9.1fkm %6d %8s %10s",
			truncate(g.GearName, 24), truncate(g.GearType, 10), g.Status,
			g.TotalDistanceKM, g.TotalActivities, used, remaining)
		rows = append(rows, tableRowStyle.Inherit(wearStyle(wear)).Render(line))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Gear Lifecycle"),
		table,
		statusStyle.Render("Worn gear shows above 100% used and negative remaining distance"),
	))
}

// truncate counts runes so a multi-byte gear name is never cut mid-character
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
