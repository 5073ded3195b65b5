package analysis

import "github.com/de-tools/weekly-pulse/pkg/models/domain"

// Semantic field names the aggregation strategies operate on. The warehouse
// columns behind them are supplied by a ColumnMapping so deployments with
// localized SELECT aliases only touch configuration.
const (
	FieldNewVisitors   = "new_visitors"
	FieldRegistrations = "new_visitor_registrations"

	FieldNewRegisteredUsers = "new_registered_users"
	FieldSignupToToolRate   = "signup_to_tool_rate"
	FieldToolToDesignRate   = "tool_to_design_rate"
	FieldDesignToModelRate  = "design_to_model_rate"
	FieldModelToRenderRate  = "model_to_render_rate"
	FieldRenderTotalRate    = "render_total_rate"

	FieldEnteredToolUsers = "entered_tool_users"
	FieldValidDesignUsers = "valid_design_users"
	FieldValidModelUsers  = "valid_model_users"
	FieldRenderUsers      = "render_users"

	FieldWAU = "wau"

	FieldRetentionRate = "second_week_retention"

	FieldTotalAmount      = "total_amount"
	FieldNewSigningAmount = "new_signing_amount"
	FieldRenewalAmount    = "renewal_amount"
)

// ColumnMapping binds one section's semantic fields to warehouse columns.
type ColumnMapping struct {
	// Period is the date-like column identifying the row's week.
	Period string `mapstructure:"period"`
	// Dimension is the grouping column (acquisition channel, user type), where
	// the section has one.
	Dimension string `mapstructure:"dimension"`
	// Fields maps semantic field name -> warehouse column.
	Fields map[string]string `mapstructure:"fields"`

	// NewUserValue / ReturningUserValue are the dimension values that identify
	// the two user-type cohorts in engagement and retention rows.
	NewUserValue       string `mapstructure:"new_user_value"`
	ReturningUserValue string `mapstructure:"returning_user_value"`
}

// Column resolves a semantic field to its warehouse column, defaulting to the
// semantic name itself when no override is configured.
func (m ColumnMapping) Column(field string) string {
	if c, ok := m.Fields[field]; ok && c != "" {
		return c
	}
	return field
}

// Schema is the full per-section column configuration.
type Schema map[domain.SectionID]ColumnMapping

// Mapping returns the section's mapping, falling back to the default schema
// so a partially-configured deployment still resolves every section.
func (s Schema) Mapping(section domain.SectionID) ColumnMapping {
	if m, ok := s[section]; ok {
		return m
	}
	return DefaultSchema()[section]
}

// PeriodField returns the date-like column for the section.
// Traffic, revenue and activation rows carry the week's Sunday in a "date"
// column; engagement rows carry a "week" column; retention rows reference the
// cohort's registration week in a "prior_week" column.
func (s Schema) PeriodField(section domain.SectionID) string {
	return s.Mapping(section).Period
}

// DefaultSchema is the pre-agreed warehouse vocabulary.
func DefaultSchema() Schema {
	return Schema{
		domain.SectionTraffic: {
			Period:    "date",
			Dimension: "channel",
		},
		domain.SectionActivation: {
			Period: "date",
		},
		domain.SectionEngagement: {
			Period:             "week",
			Dimension:          "user_type",
			NewUserValue:       "new",
			ReturningUserValue: "returning",
		},
		domain.SectionRetention: {
			Period:             "prior_week",
			Dimension:          "prior_week_user_type",
			NewUserValue:       "new",
			ReturningUserValue: "returning",
		},
		domain.SectionRevenue: {
			Period: "date",
		},
	}
}
