package domain

import "time"

// QualityStatus rolls up a section's data health.
type QualityStatus string

const (
	QualityOK      QualityStatus = "ok"
	QualityWarning QualityStatus = "warning"
	QualityError   QualityStatus = "error"
)

// CompletenessResult is the outcome of validating one section's raw rows.
// Validity is simply "no issues collected"; the caller decides whether to
// proceed with partial data.
type CompletenessResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

// SectionQuality describes one section inside a quality report.
type SectionQuality struct {
	Section      SectionID          `json:"section"`
	Status       QualityStatus      `json:"status"`
	RowCount     int                `json:"row_count"`
	Completeness CompletenessResult `json:"completeness"`
	Anomalies    []Anomaly          `json:"anomalies,omitempty"`
	Notes        []string           `json:"notes,omitempty"`
}

// QualitySummary is the roll-up across all sections.
type QualitySummary struct {
	TotalSections   int `json:"total_sections"`
	ValidSections   int `json:"valid_sections"`
	WarningSections int `json:"warning_sections"`
	ErrorSections   int `json:"error_sections"`
	TotalAnomalies  int `json:"total_anomalies"`
}

// QualityReport is the data-health companion to an AnalysisResult.
type QualityReport struct {
	GeneratedAt     time.Time                    `json:"generated_at"`
	OverallStatus   QualityStatus                `json:"overall_status"`
	Sections        map[SectionID]SectionQuality `json:"sections"`
	Summary         QualitySummary               `json:"summary"`
	Recommendations []string                     `json:"recommendations,omitempty"`
}
