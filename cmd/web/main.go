package main

import (
	"fmt"
	"net"
	"os"
	"os/user"

	"github.com/de-tools/weekly-pulse/pkg/server"
	"github.com/de-tools/weekly-pulse/pkg/services/analysis"
	"github.com/de-tools/weekly-pulse/pkg/services/config"
	"github.com/de-tools/weekly-pulse/pkg/services/quality"
	"github.com/de-tools/weekly-pulse/pkg/services/report"
	"github.com/de-tools/weekly-pulse/pkg/store/duckdb"
	duckdbrows "github.com/de-tools/weekly-pulse/pkg/store/duckdb/rows"
	duckdbruns "github.com/de-tools/weekly-pulse/pkg/store/duckdb/runs"
	"github.com/de-tools/weekly-pulse/pkg/store/warehouse"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profilesPath string
	profileName  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Weekly Pulse",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultProfiles := ""
	if usr != nil {
		defaultProfiles = fmt.Sprintf("%s/.pulse/profiles", usr.HomeDir)
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the settings file")
	rootCmd.Flags().StringVarP(&profilesPath, "profiles", "p", defaultProfiles,
		"Path to the warehouse profiles file (default is $HOME/.pulse/profiles)")
	rootCmd.Flags().StringVar(&profileName, "profile", "", "Warehouse profile name (default comes from the settings file)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load(cfgPath)
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

	registry, err := config.NewRegistry(profilesPath)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	name := profileName
	if name == "" {
		name = settings.Profile
	}
	profile, err := registry.GetProfile(ctx, name)
	if err != nil {
		return err
	}

	warehouseDB, err := warehouse.Connect(profile)
	if err != nil {
		return err
	}
	source, err := warehouse.NewStore(warehouseDB)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: settings.Snapshot.DbPath})
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	rowStore, err := duckdbrows.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}
	runStore, err := duckdbruns.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create run log: %w", err)
	}

	var detector *quality.Detector
	if thresholds != nil {
		detector = quality.NewDetectorWithThresholds(thresholds)
	}

	generator, err := report.NewGenerator(report.Dependencies{
		Source:    source,
		Snapshots: rowStore,
		Runs:      runStore,
		Analyzer:  analysis.NewAnalyzer(analysis.Config{Schema: schema}),
		Quality:   quality.NewReportBuilder(nil, detector),
	})
	if err != nil {
		return err
	}

	logger.Info().Msgf("Warehouse profile `%s` (%s) loaded from `%s`.", profile.Name, profile.Type, profilesPath)

	host := settings.Server.Host
	port := settings.Server.Port
	if h := os.Getenv("SERVER_HOST"); h != "" {
		host = h
	}
	if p := os.Getenv("SERVER_PORT"); p != "" {
		port = p
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Generator: generator,
			Schema:    schema,
		},
	})

	return api.Start()
}
