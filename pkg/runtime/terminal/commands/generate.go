package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/de-tools/weekly-pulse/pkg/runtime/terminal/export"
	"github.com/de-tools/weekly-pulse/pkg/services/analysis"
	"github.com/de-tools/weekly-pulse/pkg/services/config"
	"github.com/de-tools/weekly-pulse/pkg/services/quality"
	reportsvc "github.com/de-tools/weekly-pulse/pkg/services/report"
	"github.com/de-tools/weekly-pulse/pkg/store/duckdb"
	duckdbrows "github.com/de-tools/weekly-pulse/pkg/store/duckdb/rows"
	duckdbruns "github.com/de-tools/weekly-pulse/pkg/store/duckdb/runs"
	"github.com/de-tools/weekly-pulse/pkg/store/warehouse"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	configPath   string
	profilesPath string
	profile      string
	week         string
	offset       int
	sections     string
	fromSnapshot bool
	noQuality    bool
	asJSON       bool
}

// NewGenerateCmd builds the command running the full weekly pipeline.
func NewGenerateCmd(reporter *export.Reporter) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the weekly business report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, reporter, flags)
		},
	}

	usr, _ := user.Current()
	defaultProfiles := ""
	if usr != nil {
		defaultProfiles = fmt.Sprintf("%s/.pulse/profiles", usr.HomeDir)
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to the settings file")
	cmd.Flags().StringVarP(&flags.profilesPath, "profiles", "p", defaultProfiles,
		"Path to the warehouse profiles file (default is $HOME/.pulse/profiles)")
	cmd.Flags().StringVar(&flags.profile, "profile", "", "Warehouse profile name (default comes from the settings file)")
	cmd.Flags().StringVarP(&flags.week, "week", "w", "", "Report week as a YYYYMMDD label (default is the current week)")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "Week offset relative to the target week, e.g. -1 for last week")
	cmd.Flags().StringVarP(&flags.sections, "sections", "s", "", "Comma-separated list of sections to include")
	cmd.Flags().BoolVar(&flags.fromSnapshot, "from-snapshot", false, "Replay rows from the local snapshot store instead of the warehouse")
	cmd.Flags().BoolVar(&flags.noQuality, "no-quality", false, "Skip data quality checks")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func runGenerate(cmd *cobra.Command, reporter *export.Reporter, flags generateFlags) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	schema, err := settings.Schema()
	if err != nil {
		return err
	}
	thresholds, err := settings.AnomalyThresholds()
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(analysis.Config{Schema: schema})

	var detector *quality.Detector
	if thresholds != nil {
		detector = quality.NewDetectorWithThresholds(thresholds)
	}
	qualityBuilder := quality.NewReportBuilder(nil, detector)

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.Snapshot.DbPath})
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer db.Close()

	rowStore, err := duckdbrows.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}
	runStore, err := duckdbruns.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create run log: %w", err)
	}

	deps := reportsvc.Dependencies{
		Runs:     runStore,
		Analyzer: analyzer,
		Quality:  qualityBuilder,
	}

	if flags.fromSnapshot {
		deps.Source = reportsvc.NewSnapshotSource(rowStore)
	} else {
		source, err := warehouseSource(ctx, settings, flags)
		if err != nil {
			return err
		}
		defer source.Close()
		deps.Source = source
		deps.Snapshots = rowStore
	}

	generator, err := reportsvc.NewGenerator(deps)
	if err != nil {
		return err
	}

	opts, err := optionsFromFlags(flags)
	if err != nil {
		return err
	}

	weekly, err := generator.Generate(ctx, opts)
	if err != nil {
		return err
	}

	if flags.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(weekly)
	}
	return reporter.Handle(weekly)
}

func warehouseSource(ctx context.Context, settings *config.Settings, flags generateFlags) (warehouse.Store, error) {
	registry, err := config.NewRegistry(flags.profilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", flags.profilesPath, err)
	}

	name := flags.profile
	if name == "" {
		name = settings.Profile
	}
	if name == "" {
		return nil, fmt.Errorf("no warehouse profile selected; use --profile or set one in the settings file")
	}

	profile, err := registry.GetProfile(ctx, name)
	if err != nil {
		return nil, err
	}

	db, err := warehouse.Connect(profile)
	if err != nil {
		return nil, err
	}
	return warehouse.NewStore(db)
}

func optionsFromFlags(flags generateFlags) (reportsvc.Options, error) {
	opts := reportsvc.Options{
		WeekOffset:  flags.offset,
		SkipQuality: flags.noQuality,
	}

	if flags.week != "" {
		label, ok := domain.ParseWeekLabel(flags.week)
		if !ok {
			return opts, fmt.Errorf("week %q is not a valid YYYYMMDD label", flags.week)
		}
		opts.TargetWeek = label
	}

	if flags.sections != "" {
		for _, name := range strings.Split(flags.sections, ",") {
			section := domain.SectionID(strings.TrimSpace(name))
			if !section.Valid() {
				return opts, domain.ErrUnknownSection(section)
			}
			opts.Sections = append(opts.Sections, section)
		}
	}

	return opts, nil
}
