package analysis

import (
	"context"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Aggregator reduces one section's windowed rows into derived metrics.
// Implementations are pure: no I/O, no mutation of inputs.
type Aggregator interface {
	Aggregate(current, previous []domain.Row) domain.SectionMetrics
}

// Config tunes the analyzer. Zero values fall back to the default schema and
// note settings.
type Config struct {
	Schema       Schema
	TrafficNotes TrafficNoteSettings
}

// Analyzer is the engine's front door: it resolves week windows, dispatches
// each section to its reduction strategy and assembles the composed result.
type Analyzer struct {
	schema      Schema
	aggregators map[domain.SectionID]Aggregator
}

func NewAnalyzer(cfg Config) *Analyzer {
	schema := cfg.Schema
	if schema == nil {
		schema = DefaultSchema()
	}
	notes := cfg.TrafficNotes
	if notes == (TrafficNoteSettings{}) {
		notes = DefaultTrafficNoteSettings()
	}

	return &Analyzer{
		schema: schema,
		aggregators: map[domain.SectionID]Aggregator{
			domain.SectionTraffic:    newTrafficAggregator(schema.Mapping(domain.SectionTraffic), notes),
			domain.SectionActivation: newActivationAggregator(schema.Mapping(domain.SectionActivation)),
			domain.SectionEngagement: newEngagementAggregator(schema.Mapping(domain.SectionEngagement)),
			domain.SectionRetention:  newRetentionAggregator(schema.Mapping(domain.SectionRetention)),
			domain.SectionRevenue:    newRevenueAggregator(schema.Mapping(domain.SectionRevenue)),
		},
	}
}

// Schema exposes the analyzer's effective column configuration.
func (a *Analyzer) Schema() Schema { return a.schema }

// AnalyzeSection reduces one section's rows into metrics. currentRows and
// previousRows may already be split by the caller or may both be slices of a
// rolling multi-week history; they are merged and re-split against the
// resolved windows either way, so membership is always decided by the period
// label, never by which argument a row arrived in.
//
// Passing an unknown section is a programmer error and fails loudly; every
// data-quality condition degrades to defined defaults instead.
func (a *Analyzer) AnalyzeSection(
	ctx context.Context,
	section domain.SectionID,
	currentRows, previousRows []domain.Row,
	explicitWeek domain.WeekLabel,
) (domain.SectionMetrics, error) {
	agg, ok := a.aggregators[section]
	if !ok {
		return nil, domain.ErrUnknownSection(section)
	}

	rows := make([]domain.Row, 0, len(currentRows)+len(previousRows))
	rows = append(rows, currentRows...)
	rows = append(rows, previousRows...)

	// Activation reads the whole weekly series, not a two-window split.
	if section == domain.SectionActivation {
		return agg.Aggregate(rows, nil), nil
	}

	windows := ResolveWindows(rows, section, a.schema, explicitWeek)
	current, previous := SplitRows(rows, a.schema.PeriodField(section), windows)

	zerolog.Ctx(ctx).Debug().
		Str("section", string(section)).
		Int("rows", len(rows)).
		Int("current", len(current)).
		Int("previous", len(previous)).
		Str("window_start", windows.Current.Start.String()).
		Str("window_end", windows.Current.End.String()).
		Msg("section windows resolved")

	return agg.Aggregate(current, previous), nil
}

// AnalyzeAll runs every supplied section and composes the result. Sections
// absent from the input are skipped, not errored; an unknown section key
// still fails loudly.
func (a *Analyzer) AnalyzeAll(
	ctx context.Context,
	rowsBySection map[domain.SectionID][]domain.Row,
	explicitWeek domain.WeekLabel,
) (*domain.AnalysisResult, error) {
	result := &domain.AnalysisResult{
		Sections: make(map[domain.SectionID]domain.SectionMetrics, len(rowsBySection)),
	}

	for _, section := range domain.AllSections() {
		rows, ok := rowsBySection[section]
		if !ok {
			continue
		}
		metrics, err := a.AnalyzeSection(ctx, section, rows, nil, explicitWeek)
		if err != nil {
			return nil, err
		}
		result.Sections[section] = metrics
	}

	for section := range rowsBySection {
		if !section.Valid() {
			return nil, domain.ErrUnknownSection(section)
		}
	}

	return result, nil
}

// ResolveSectionWindows exposes window resolution for callers that need the
// split itself (quality checks, renderers showing the report range).
func (a *Analyzer) ResolveSectionWindows(
	section domain.SectionID,
	rows []domain.Row,
	explicitWeek domain.WeekLabel,
) (Windows, error) {
	if !section.Valid() {
		return Windows{}, domain.ErrUnknownSection(section)
	}
	return ResolveWindows(rows, section, a.schema, explicitWeek), nil
}
