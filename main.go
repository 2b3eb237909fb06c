package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"traininghub/internal/config"
	"traininghub/internal/garmin"
	"traininghub/internal/ingest"
	"traininghub/internal/logging"
	"traininghub/internal/service"
	"traininghub/internal/store"
	"traininghub/internal/tui"
)

func main() {
	root := &cobra.Command{
		Use:   "traininghub",
		Short: "Extract Garmin Connect activities into a local training database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
		SilenceUsage: true,
	}

	var (
		year      int
		days      int
		startDate string
	)
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a full extraction: activities, weather, gear, marts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(year, days, startDate)
		},
	}
	syncCmd.Flags().IntVar(&year, "year", 0, "extract one calendar year (default: configured or current year)")
	syncCmd.Flags().IntVar(&days, "days", 0, "extract the last N days instead of a year")
	syncCmd.Flags().StringVar(&startDate, "start", "", "extract from this date (YYYY-MM-DD) through today")

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
	}

	root.AddCommand(syncCmd, dashboardCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config, initializes logging and opens the database
func setup() (*config.Config, *store.DB, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating an example config...")
		if err := config.CreateExample(); err != nil {
			return nil, nil, fmt.Errorf("creating example config: %w", err)
		}
		cfg, err = config.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("loading freshly created config: %w", err)
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		dir, _ := config.GetConfigDir()
		return nil, nil, fmt.Errorf("invalid config (edit %s/config.json): %w", dir, err)
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, JSONOutput: cfg.Log.JSON})

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, db, nil
}

func runSync(year, days int, startDate string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	scope, err := resolveScope(cfg, year, days, startDate)
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := authenticate(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("authenticating with Garmin: %w", err)
	}

	pipeline := service.NewPipeline(session, db, cfg.Extraction)
	result, err := pipeline.Run(ctx, scope, nil)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	printSummary(result)
	return nil
}

func runDashboard() error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	queryService := service.NewQueryService(db, cfg.CacheTTL())

	// Only a non-interactive session works from inside the TUI; without
	// one the sync screen points at the CLI.
	var runPipeline tui.RunPipelineFunc
	if session, err := authenticate(context.Background(), cfg, false); err == nil {
		runPipeline = func(ctx context.Context) (*service.RunResult, error) {
			scope := ingest.YearScope(cfg.ExtractionYear())
			return service.NewPipeline(session, db, cfg.Extraction).Run(ctx, scope, nil)
		}
	}

	app := tui.NewApp(queryService, runPipeline)
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

// authenticate builds a Garmin session: stored tokens first, then env
// credentials, then (when interactive) a terminal prompt
func authenticate(ctx context.Context, cfg *config.Config, interactive bool) (*garmin.Session, error) {
	authenticator := garmin.NewAuthenticator(cfg.TokenPath())

	var creds garmin.CredentialSource = garmin.EnvCredentials{}
	if interactive {
		creds = promptCredentials{}
	}
	session, err := authenticator.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	session.SetPacerInterval(cfg.Extraction.RequestDelay())
	return session, nil
}

// resolveScope picks the extraction window: --start wins over --days wins
// over --year wins over the configured default year
func resolveScope(cfg *config.Config, year, days int, startDate string) (ingest.Scope, error) {
	now := time.Now()
	switch {
	case startDate != "":
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return ingest.Scope{}, fmt.Errorf("invalid --start date %q, expected YYYY-MM-DD", startDate)
		}
		return ingest.RangeScope(start, now), nil
	case days > 0:
		return ingest.LastDays(days, now), nil
	case year != 0:
		return ingest.YearScope(year), nil
	default:
		return ingest.YearScope(cfg.ExtractionYear()), nil
	}
}

func printSummary(r *service.RunResult) {
	fmt.Println()
	fmt.Println("Extraction summary")
	fmt.Printf("  Scope            %s\n", r.Scope)
	fmt.Printf("  Activities       %d\n", r.ActivitiesFetched)
	fmt.Printf("  Weather records  %d\n", r.WeatherRecords)
	fmt.Printf("  Gear records     %d\n", r.GearRecords)
	fmt.Printf("  Gear items       %d (%d with stats)\n", r.GearItems, r.GearStats)
	if r.ActivitiesFetched > 0 {
		fmt.Printf("  Date range       %s .. %s\n", r.FirstDate, r.LastDate)
	}
	fmt.Printf("  Distance         %.1f km\n", r.TotalDistanceKM)
	fmt.Printf("  Training time    %.1f h\n", r.TotalHours)
	if r.EnrichmentMisses > 0 {
		fmt.Printf("  Missing data     %d activities had no weather or gear\n", r.EnrichmentMisses)
	}
	fmt.Printf("  Elapsed          %s\n", r.Elapsed.Round(time.Second))
}

// promptCredentials reads credentials from the terminal, trying the
// environment first
type promptCredentials struct{}

func (promptCredentials) Credentials() (string, string, error) {
	if email, password, err := (garmin.EnvCredentials{}).Credentials(); err == nil {
		return email, password, nil
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Garmin email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("reading email: %w", err)
	}
	fmt.Print("Garmin password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(email), strings.TrimSpace(password), nil
}

func (promptCredentials) MFACode() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("One-time code: ")
	code, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading one-time code: %w", err)
	}
	return strings.TrimSpace(code), nil
}
