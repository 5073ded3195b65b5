package quality

import (
	"fmt"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// FieldThreshold is one field's percentage-change anomaly bar.
type FieldThreshold struct {
	Field string
	Pct   float64
}

// defaultThresholds are the per-section, per-field swing bars, ordered: when
// no field is named explicitly the first configured field present in both
// rows is inspected.
var defaultThresholds = map[domain.SectionID][]FieldThreshold{
	domain.SectionTraffic: {
		{"new_visitors", 50},
		{"new_visitor_registrations", 50},
		{"conversion_rate", 20},
	},
	domain.SectionEngagement: {
		{"wau", 30},
		{"new_user_wau", 40},
		{"old_user_wau", 20},
	},
	domain.SectionRetention: {
		{"new_user_retention_rate", 15},
		{"old_user_retention_rate", 10},
	},
	domain.SectionRevenue: {
		{"total_revenue", 30},
		{"renewal_revenue", 40},
		{"new_signing_revenue", 50},
	},
}

// Detector flags statistically anomalous week-over-week swings. It is
// read-only analysis: inputs are never mutated and nothing here halts the
// pipeline; anomalies are annotations for the renderer and notes generator.
type Detector struct {
	thresholds map[domain.SectionID][]FieldThreshold
}

func NewDetector() *Detector {
	return &Detector{thresholds: defaultThresholds}
}

// NewDetectorWithThresholds replaces the threshold table, keeping the
// defaults for any section left out.
func NewDetectorWithThresholds(overrides map[domain.SectionID][]FieldThreshold) *Detector {
	thresholds := make(map[domain.SectionID][]FieldThreshold, len(defaultThresholds))
	for section, fields := range defaultThresholds {
		thresholds[section] = fields
	}
	for section, fields := range overrides {
		thresholds[section] = fields
	}
	return &Detector{thresholds: thresholds}
}

// Detect compares one field across the two rows against the section's
// threshold table. An empty field selects the first configured field present
// in both rows. A field with no configured threshold yields no anomalies, and
// a zero previous value is a missing baseline: the swing is indeterminate and
// suppressed rather than reported as infinite.
func (d *Detector) Detect(section domain.SectionID, currentRow, previousRow domain.Row, field string) []domain.Anomaly {
	if len(currentRow) == 0 || len(previousRow) == 0 {
		return nil
	}

	thresholds, ok := d.thresholds[section]
	if !ok {
		return nil
	}

	var threshold float64
	found := false
	if field == "" {
		for _, t := range thresholds {
			if currentRow.Has(t.Field) && previousRow.Has(t.Field) {
				field, threshold, found = t.Field, t.Pct, true
				break
			}
		}
	} else {
		for _, t := range thresholds {
			if t.Field == field {
				threshold, found = t.Pct, true
				break
			}
		}
	}
	if !found {
		return nil
	}

	current := currentRow.Float(field)
	previous := previousRow.Float(field)
	if previous == 0 {
		return nil
	}

	changeRate := abs(current-previous) / previous * 100
	if changeRate <= threshold {
		return nil
	}

	direction := "increased"
	if current < previous {
		direction = "decreased"
	}

	return []domain.Anomaly{{
		Section:       section,
		Field:         field,
		PreviousValue: previous,
		CurrentValue:  current,
		ChangeRate:    changeRate,
		Threshold:     threshold,
		Severity:      Severity(changeRate, threshold),
		Message: fmt.Sprintf("%s.%s %s %.1f%%, beyond the %.0f%% threshold",
			section, field, direction, changeRate, threshold),
	}}
}

// Severity grades a change rate against its threshold:
// ratio ≤1 low, ≤1.5 medium, ≤2 high, above that critical.
func Severity(changeRate, threshold float64) domain.AnomalySeverity {
	ratio := changeRate / threshold
	switch {
	case ratio > 2.0:
		return domain.SeverityCritical
	case ratio > 1.5:
		return domain.SeverityHigh
	case ratio > 1.0:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
