package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"traininghub/internal/service"
)

// RunPipelineFunc runs one extraction and returns its summary
type RunPipelineFunc func(ctx context.Context) (*service.RunResult, error)

// SyncModel is the extraction screen model
type SyncModel struct {
	run     RunPipelineFunc
	running bool
	done    bool
	result  *service.RunResult
	err     error
}

// NewSyncModel creates a new sync model. run may be nil when the app was
// started without credentials.
func NewSyncModel(run RunPipelineFunc) SyncModel {
	return SyncModel{run: run}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// ExtractionDoneMsg is sent when the pipeline run finishes
type ExtractionDoneMsg struct {
	Result *service.RunResult
	Err    error
}

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ExtractionDoneMsg:
		m.running = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		if m.err == nil {
			return m, func() tea.Msg { return ExtractionCompleteMsg{} }
		}
		return m, nil

	case tea.KeyMsg:
		if !m.running && m.run != nil {
			switch msg.String() {
			case "enter", "s":
				m.running = true
				m.done = false
				m.err = nil
				m.result = nil
				return m, m.startRun
			}
		}
	}
	return m, nil
}

func (m SyncModel) startRun() tea.Msg {
	result, err := m.run(context.Background())
	return ExtractionDoneMsg{Result: result, Err: err}
}

// View renders the sync screen
func (m SyncModel) View() string {
	title := cardTitleStyle.Render("Garmin Extraction")

	if m.run == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			"\n  No Garmin session available.",
			statusStyle.Render("  Set GARMIN_EMAIL and GARMIN_PASSWORD, or run 'traininghub sync'."))
	}

	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)),
			statusStyle.Render("\n  Press 's' or Enter to retry"))
	}

	if m.done {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			successStyle.Render("\n  Extraction complete"),
			m.renderSummary(),
			statusStyle.Render("\n  Press '1' for the dashboard"))
	}

	if m.running {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			"\n  Extracting from Garmin Connect...",
			"",
			"  1. Fetch activities",
			"  2. Enrich with weather and gear",
			"  3. Load bronze tables",
			"  4. Rebuild marts",
			statusStyle.Render("\n  Delays between requests make this take a while"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title,
		"\n  A full refresh replaces all local data with a fresh extract.",
		statusStyle.Render("\n  Press 's' or Enter to start"))
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}
	r := m.result

	lines := []string{
		"",
		fmt.Sprintf("  Scope           %s", r.Scope),
		fmt.Sprintf("  Activities      %d", r.ActivitiesFetched),
		fmt.Sprintf("  Weather records %d", r.WeatherRecords),
		fmt.Sprintf("  Gear records    %d", r.GearRecords),
		fmt.Sprintf("  Gear items      %d", r.GearItems),
		fmt.Sprintf("  Distance        %.1f km", r.TotalDistanceKM),
		fmt.Sprintf("  Training time   %.1f h", r.TotalHours),
		fmt.Sprintf("  Elapsed         %s", r.Elapsed.Round(time.Second)),
	}
	if r.ActivitiesFetched > 0 {
		lines = append(lines, fmt.Sprintf("  Date range      %s .. %s", r.FirstDate, r.LastDate))
	}
	if r.EnrichmentMisses > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("  %d activities had no enrichment data", r.EnrichmentMisses)))
	}
	return strings.Join(lines, "\n")
}
