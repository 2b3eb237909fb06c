package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"traininghub/internal/service"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	overview     *service.Overview
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService) DashboardModel {
	return DashboardModel{queryService: qs, loading: true}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	overview, err := m.queryService.Overview(context.Background())
	return overviewMsg{overview: overview, err: err}
}

type overviewMsg struct {
	overview *service.Overview
	err      error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case overviewMsg:
		m.loading = false
		m.overview = msg.overview
		m.err = msg.err
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if m.overview == nil || m.overview.TotalActivities == 0 {
		return "\n  No data yet. Press 's' to run an extraction."
	}

	sections := []string{
		m.renderKPICards(),
		m.renderHeatmap(),
	}
	if len(m.overview.MonthlyHours) > 1 {
		sections = append(sections, m.renderMonthlyChart())
	}
	sections = append(sections, statusStyle.Render("Press 'r' to refresh, '2' for gear, 's' to sync"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderKPICards() string {
	o := m.overview

	totals := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("This Year"),
		RenderMetric("Activities", fmt.Sprintf("%d", o.TotalActivities)),
		RenderMetric("Distance", fmt.Sprintf("%.1f km", o.TotalDistanceKM)),
		RenderMetric("Training time", o.TotalTrainTime),
		RenderMetric("Calories", fmt.Sprintf("%.0f", o.TotalCalories)),
	)

	pace := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Consistency"),
		RenderMetric("Avg hours/week", fmt.Sprintf("%.1f", o.AvgWeeklyHours)),
		RenderMetric("Active days", fmt.Sprintf("%d", m.activeDays())),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Width(36).Render(totals),
		"  ",
		cardStyle.Width(32).Render(pace),
	)
}

func (m DashboardModel) activeDays() int {
	n := 0
	for _, cell := range m.overview.Heatmap {
		if cell.Level > 0 {
			n++
		}
	}
	return n
}

// renderHeatmap lays the year out as one row per weekday, one column per
// ISO week, in the shape of a contribution calendar.
func (m DashboardModel) renderHeatmap() string {
	cells := m.overview.Heatmap
	if len(cells) == 0 {
		return ""
	}

	weeks := make([]int, 0)
	seen := map[int]bool{}
	byPos := map[[2]int]int{}
	for _, c := range cells {
		if !seen[c.Week] {
			seen[c.Week] = true
			weeks = append(weeks, c.Week)
		}
		byPos[[2]int{c.Week, c.Weekday}] = c.Level
	}
	sort.Ints(weeks)

	labels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	var rows []string
	for weekday := 0; weekday < 7; weekday++ {
		var b strings.Builder
		b.WriteString(metricLabelStyle.Width(4).Render(labels[weekday]))
		for _, week := range weeks {
			level, ok := byPos[[2]int{week, weekday}]
			if !ok {
				b.WriteString(" ")
				continue
			}
			if level >= len(heatColors) {
				level = len(heatColors) - 1
			}
			b.WriteString(lipgloss.NewStyle().Foreground(heatColors[level]).Render("■"))
		}
		rows = append(rows, b.String())
	}

	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Activity Calendar"), grid))
}

func (m DashboardModel) renderMonthlyChart() string {
	hours := make([]float64, len(m.overview.MonthlyHours))
	for i, mt := range m.overview.MonthlyHours {
		hours[i] = mt.Hours
	}

	graph := asciigraph.Plot(hours,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	span := fmt.Sprintf("%s .. %s",
		m.overview.MonthlyHours[0].YearMonth,
		m.overview.MonthlyHours[len(m.overview.MonthlyHours)-1].YearMonth)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Training Hours by Month"),
		graph,
		statusStyle.Render(span),
	))
}
