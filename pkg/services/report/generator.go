package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/weekly-pulse/pkg/adapters"
	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/de-tools/weekly-pulse/pkg/models/store"
	"github.com/de-tools/weekly-pulse/pkg/services/analysis"
	"github.com/de-tools/weekly-pulse/pkg/services/quality"
	"github.com/rs/zerolog"
)

// RowSource supplies one section's rolling weekly history. The warehouse
// store is the production implementation; the snapshot source replays a
// previously fetched week.
type RowSource interface {
	FetchSection(ctx context.Context, section domain.SectionID, params domain.WeekParams) ([]domain.Row, error)
}

// Snapshots persists fetched rows for audit and replay. Optional: a nil
// snapshot store disables persistence without touching the pipeline.
type Snapshots interface {
	Add(ctx context.Context, records []store.SectionRow) error
	DeleteSection(ctx context.Context, section string, startLabel, endLabel int) error
}

// RunLog records generation attempts. Optional, like Snapshots.
type RunLog interface {
	Add(ctx context.Context, run store.ReportRun) error
}

type Dependencies struct {
	Source    RowSource
	Snapshots Snapshots
	Runs      RunLog
	Analyzer  *analysis.Analyzer
	Quality   *quality.ReportBuilder
}

// Options selects what one run covers. The zero value means "this week, all
// sections, with quality checks".
type Options struct {
	TargetWeek  domain.WeekLabel
	WeekOffset  int
	Sections    []domain.SectionID
	SkipQuality bool
}

// Generator runs the weekly pipeline: resolve the week, fetch every section,
// snapshot the raw rows, analyze, and attach the data-health report.
type Generator struct {
	source    RowSource
	snapshots Snapshots
	runs      RunLog
	analyzer  *analysis.Analyzer
	quality   *quality.ReportBuilder
	now       func() time.Time
}

func NewGenerator(deps Dependencies) (*Generator, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("row source is nil")
	}
	analyzer := deps.Analyzer
	if analyzer == nil {
		analyzer = analysis.NewAnalyzer(analysis.Config{})
	}
	qualityBuilder := deps.Quality
	if qualityBuilder == nil {
		qualityBuilder = quality.NewReportBuilder(nil, nil)
	}
	return &Generator{
		source:    deps.Source,
		snapshots: deps.Snapshots,
		runs:      deps.Runs,
		analyzer:  analyzer,
		quality:   qualityBuilder,
		now:       time.Now,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, opts Options) (weekly *domain.WeeklyReport, err error) {
	logger := zerolog.Ctx(ctx)

	params := analysis.WeekParamsForLabel(opts.TargetWeek, opts.WeekOffset, g.now())
	defer func() { g.recordRun(ctx, params, err) }()
	sections := opts.Sections
	if len(sections) == 0 {
		sections = domain.AllSections()
	}

	logger.Info().
		Str("report_date", params.ReportDate).
		Str("week_sunday", params.WeekSunday.String()).
		Int("sections", len(sections)).
		Msg("report run started")

	rowsBySection := make(map[domain.SectionID][]domain.Row, len(sections))
	for _, section := range sections {
		if !section.Valid() {
			return nil, domain.ErrUnknownSection(section)
		}
		rows, err := g.source.FetchSection(ctx, section, params)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", section, err)
		}
		rowsBySection[section] = rows

		if err := g.snapshot(ctx, section, rows, params); err != nil {
			// Snapshot failure degrades the run, it does not abort it.
			logger.Warn().Err(err).Str("section", string(section)).Msg("snapshot write failed")
		}
	}

	result, err := g.analyzer.AnalyzeAll(ctx, rowsBySection, params.WeekSunday)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	weekly = &domain.WeeklyReport{
		GeneratedAt: g.now(),
		Week:        params,
		Analysis:    *result,
	}

	if !opts.SkipQuality {
		weekly.Quality = g.quality.Build(ctx, g.qualityInput(rowsBySection, params.WeekSunday))
	}

	logger.Info().
		Int("sections_analyzed", len(result.Sections)).
		Msg("report run finished")

	return weekly, nil
}

// recordRun appends the attempt to the run log. Like snapshots, a run-log
// failure never fails the report itself.
func (g *Generator) recordRun(ctx context.Context, params domain.WeekParams, runErr error) {
	if g.runs == nil {
		return
	}
	status := "completed"
	if runErr != nil {
		status = "failed"
	}
	run := store.ReportRun{
		ReportDate:  params.ReportDate,
		WeekSunday:  int(params.WeekSunday),
		GeneratedAt: g.now(),
		Status:      status,
	}
	if err := g.runs.Add(ctx, run); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("run log write failed")
	}
}

// snapshot replaces the section's rows for the fetched label range. Rows with
// malformed labels persist under label 0 and are replaced on every run.
func (g *Generator) snapshot(ctx context.Context, section domain.SectionID, rows []domain.Row, params domain.WeekParams) error {
	if g.snapshots == nil || len(rows) == 0 {
		return nil
	}

	start, end := int(params.HistoryStart), int(params.PartitionEnd)
	if err := g.snapshots.DeleteSection(ctx, string(section), start, end); err != nil {
		return err
	}
	if err := g.snapshots.DeleteSection(ctx, string(section), 0, 0); err != nil {
		return err
	}

	periodField := g.analyzer.Schema().PeriodField(section)
	fetchedAt := g.now()
	records := make([]store.SectionRow, 0, len(rows))
	for _, row := range rows {
		records = append(records, adapters.MapDomainRowToStore(section, periodField, row, fetchedAt))
	}
	return g.snapshots.Add(ctx, records)
}

// qualityInput splits each section's rows by the resolved windows and hands
// the first row of each window to the anomaly detector as the comparison pair.
func (g *Generator) qualityInput(rowsBySection map[domain.SectionID][]domain.Row, explicit domain.WeekLabel) map[domain.SectionID]quality.SectionInput {
	input := make(map[domain.SectionID]quality.SectionInput, len(rowsBySection))
	for section, rows := range rowsBySection {
		in := quality.SectionInput{Rows: rows}

		windows, err := g.analyzer.ResolveSectionWindows(section, rows, explicit)
		if err == nil {
			current, previous := analysis.SplitRows(rows, g.analyzer.Schema().PeriodField(section), windows)
			if len(current) > 0 {
				in.Current = current[0]
			}
			if len(previous) > 0 {
				in.Previous = previous[0]
			}
		}
		input[section] = in
	}
	return input
}
