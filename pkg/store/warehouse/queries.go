package warehouse

import "github.com/de-tools/weekly-pulse/pkg/models/domain"

// Default per-section queries against the pre-agreed mart tables. Each one
// returns a rolling multi-week history; the engine resolves the report and
// comparison weeks from the rows themselves.
const (
	trafficQuery = `
		SELECT
			date,
			channel,
			new_visitors,
			new_visitor_registrations
		FROM mart.traffic_weekly
		WHERE date >= {partition_start} AND date <= {partition_end}
		ORDER BY date DESC
	`

	activationQuery = `
		SELECT
			date,
			new_registered_users,
			entered_tool_users,
			valid_design_users,
			valid_model_users,
			render_users,
			signup_to_tool_rate,
			tool_to_design_rate,
			design_to_model_rate,
			model_to_render_rate,
			render_total_rate
		FROM mart.activation_funnel_weekly
		WHERE date >= {history_start} AND date <= {partition_end}
		ORDER BY date
	`

	engagementQuery = `
		SELECT
			week,
			user_type,
			wau
		FROM mart.engagement_weekly
		WHERE week >= {partition_start} AND week <= {partition_end}
		ORDER BY week DESC
	`

	// Retention windows shift one extra week back, so the fetch has to reach
	// further than the standard partition range.
	retentionQuery = `
		SELECT
			prior_week,
			prior_week_user_type,
			second_week_retention
		FROM mart.retention_weekly
		WHERE prior_week >= {history_start} AND prior_week <= {partition_end}
		ORDER BY prior_week DESC
	`

	revenueQuery = `
		SELECT
			date,
			total_amount,
			new_signing_amount,
			renewal_amount
		FROM mart.revenue_weekly
		WHERE date >= {partition_start} AND date <= {partition_end}
		ORDER BY date DESC
	`
)

func DefaultQueries() map[domain.SectionID]string {
	return map[domain.SectionID]string{
		domain.SectionTraffic:    trafficQuery,
		domain.SectionActivation: activationQuery,
		domain.SectionEngagement: engagementQuery,
		domain.SectionRetention:  retentionQuery,
		domain.SectionRevenue:    revenueQuery,
	}
}
