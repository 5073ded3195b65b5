package quality

import (
	"fmt"
	"strings"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// requiredFields lists the semantic fields each section's rows must carry for
// its aggregation to be trusted.
var requiredFields = map[domain.SectionID][]string{
	domain.SectionTraffic:    {"new_visitors", "new_visitor_registrations"},
	domain.SectionActivation: {"signup_to_tool_rate", "tool_to_design_rate", "design_to_model_rate", "model_to_render_rate"},
	domain.SectionEngagement: {"wau", "user_type"},
	domain.SectionRetention:  {"second_week_retention", "prior_week_user_type"},
	domain.SectionRevenue:    {"total_amount", "new_signing_amount", "renewal_amount"},
}

// deltaFieldMarkers name the field-name fragments that denote legitimate
// negative quantities: deltas, growth and change figures.
var deltaFieldMarkers = []string{"change", "growth", "delta"}

// Validator checks that a section's raw rows are present and numerically sane
// before aggregation is trusted. It collects issues and never errors: the
// caller decides whether to proceed with partial data.
type Validator struct {
	required map[domain.SectionID][]string
}

func NewValidator() *Validator {
	return &Validator{required: requiredFields}
}

// NewValidatorWithFields overrides the required-field lists, for deployments
// whose warehouse aliases differ from the default vocabulary.
func NewValidatorWithFields(required map[domain.SectionID][]string) *Validator {
	if required == nil {
		required = requiredFields
	}
	return &Validator{required: required}
}

// Validate reports every completeness problem in the rows. An empty input is
// the single fatal-ish case, yielding one "<section> data is empty" issue.
func (v *Validator) Validate(section domain.SectionID, rows []domain.Row) domain.CompletenessResult {
	if len(rows) == 0 {
		return domain.CompletenessResult{
			Valid:  false,
			Issues: []string{fmt.Sprintf("%s data is empty", section)},
		}
	}

	var issues []string
	required := v.required[section]

	for _, row := range rows {
		var missing []string
		for _, field := range required {
			if !row.Has(field) {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			issues = append(issues, fmt.Sprintf("%s row is missing fields: %s", section, strings.Join(missing, ", ")))
		}

		for key, value := range row {
			n, ok := numericValue(value)
			if !ok {
				continue
			}
			if n < 0 && !isDeltaField(key) {
				issues = append(issues, fmt.Sprintf("%s has a negative value: %s=%v", section, key, value))
			}
		}
	}

	return domain.CompletenessResult{Valid: len(issues) == 0, Issues: issues}
}

func isDeltaField(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range deltaFieldMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
