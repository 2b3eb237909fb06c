package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

var helpKeyStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Width(12)

// View renders the help screen
func (m HelpModel) View() string {
	bindings := []struct {
		key  string
		desc string
	}{
		{"1", "Dashboard: KPIs, activity calendar, monthly hours"},
		{"2", "Gear: lifecycle and wear status"},
		{"3 / s", "Sync: run a Garmin extraction"},
		{"r", "Refresh the current screen"},
		{"?", "This help"},
		{"esc", "Back"},
		{"q", "Quit"},
	}

	lines := []string{cardTitleStyle.Render("Keys"), ""}
	for _, b := range bindings {
		lines = append(lines, "  "+helpKeyStyle.Render(b.key)+navInactiveStyle.Render(b.desc))
	}
	lines = append(lines, "",
		statusStyle.Render("  Reporting reads are cached for a few minutes;"),
		statusStyle.Render("  numbers may lag a just-finished extraction."))

	return strings.Join(lines, "\n")
}
