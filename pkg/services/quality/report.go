package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/rs/zerolog"
)

// SectionInput is one section's raw material for quality checks: every
// fetched row plus a representative row per window for swing detection.
type SectionInput struct {
	Rows     []domain.Row
	Current  domain.Row
	Previous domain.Row
}

// ReportBuilder composes completeness and anomaly results into a data-health
// report alongside the metrics report.
type ReportBuilder struct {
	validator *Validator
	detector  *Detector
	now       func() time.Time
}

func NewReportBuilder(validator *Validator, detector *Detector) *ReportBuilder {
	if validator == nil {
		validator = NewValidator()
	}
	if detector == nil {
		detector = NewDetector()
	}
	return &ReportBuilder{validator: validator, detector: detector, now: time.Now}
}

// Build checks every supplied section and rolls the results up. Completeness
// failures mark a section "error", anomalies mark it "warning"; the overall
// status is the worst section status.
func (b *ReportBuilder) Build(ctx context.Context, input map[domain.SectionID]SectionInput) *domain.QualityReport {
	report := &domain.QualityReport{
		GeneratedAt:   b.now(),
		OverallStatus: domain.QualityOK,
		Sections:      make(map[domain.SectionID]domain.SectionQuality, len(input)),
		Summary:       domain.QualitySummary{TotalSections: len(input)},
	}

	for _, section := range domain.AllSections() {
		in, ok := input[section]
		if !ok {
			continue
		}
		sq := b.sectionQuality(section, in)
		report.Sections[section] = sq

		switch sq.Status {
		case domain.QualityOK:
			report.Summary.ValidSections++
		case domain.QualityWarning:
			report.Summary.WarningSections++
		case domain.QualityError:
			report.Summary.ErrorSections++
		}
		report.Summary.TotalAnomalies += len(sq.Anomalies)
	}

	if report.Summary.ErrorSections > 0 {
		report.OverallStatus = domain.QualityError
	} else if report.Summary.WarningSections > 0 {
		report.OverallStatus = domain.QualityWarning
	}

	report.Recommendations = recommendations(report)

	zerolog.Ctx(ctx).Info().
		Str("status", string(report.OverallStatus)).
		Int("anomalies", report.Summary.TotalAnomalies).
		Msg("quality report built")

	return report
}

func (b *ReportBuilder) sectionQuality(section domain.SectionID, in SectionInput) domain.SectionQuality {
	sq := domain.SectionQuality{
		Section:  section,
		Status:   domain.QualityOK,
		RowCount: len(in.Rows),
	}

	sq.Completeness = b.validator.Validate(section, in.Rows)
	if !sq.Completeness.Valid {
		sq.Status = domain.QualityError
	}

	if in.Current != nil && in.Previous != nil {
		sq.Anomalies = b.detector.Detect(section, in.Current, in.Previous, "")
		if len(sq.Anomalies) > 0 && sq.Status == domain.QualityOK {
			sq.Status = domain.QualityWarning
		}
	}

	if section == domain.SectionRevenue && len(in.Rows) == 0 {
		sq.Notes = append(sq.Notes, "revenue data is empty; this may be a normal cycle or a source problem")
	}
	if section == domain.SectionActivation && len(in.Rows) < 3 {
		sq.Notes = append(sq.Notes, "activation series is shorter than three weeks; funnel deltas will be incomplete")
	}

	return sq
}

func recommendations(report *domain.QualityReport) []string {
	var recs []string

	if report.Summary.TotalAnomalies > 3 {
		recs = append(recs, fmt.Sprintf(
			"%d anomalies detected across sections; check the data source and computation before publishing",
			report.Summary.TotalAnomalies))
	}
	if report.Summary.ErrorSections > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d sections failed completeness checks; verify ingestion for those sources",
			report.Summary.ErrorSections))
	}

	for _, section := range domain.AllSections() {
		sq, ok := report.Sections[section]
		if !ok {
			continue
		}
		switch sq.Status {
		case domain.QualityError:
			recs = append(recs, fmt.Sprintf("%s completeness check failed: %d issue(s)", section, len(sq.Completeness.Issues)))
		case domain.QualityWarning:
			recs = append(recs, fmt.Sprintf("%s has %d anomaly(ies); verify the swing is real", section, len(sq.Anomalies)))
		}
	}

	if report.OverallStatus == domain.QualityOK {
		recs = append(recs, "all sections passed; the report can be generated as-is")
	}
	return recs
}
