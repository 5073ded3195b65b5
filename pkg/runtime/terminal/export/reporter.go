package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// Reporter renders a weekly report to the console in a formatted text form.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type reportView struct {
	Report     *domain.WeeklyReport
	Traffic    *domain.TrafficMetrics
	Activation *domain.ActivationMetrics
	Engagement *domain.EngagementMetrics
	Retention  *domain.RetentionMetrics
	Revenue    *domain.RevenueMetrics
}

func (c *Reporter) Handle(report *domain.WeeklyReport) error {
	funcMap := template.FuncMap{
		"wow": func(w domain.WoWResult) string {
			return fmt.Sprintf("%.0f (prev %.0f, %s %+.1f%%)",
				w.Current, w.Previous, trendArrow(w.Trend), w.ChangeRate)
		},
		"wowPct": func(w domain.WoWResult) string {
			return fmt.Sprintf("%.1f%% (prev %.1f%%, %s %+.1f%%)",
				w.Current, w.Previous, trendArrow(w.Trend), w.ChangeRate)
		},
		"wowMoney": func(w domain.WoWResult) string {
			return fmt.Sprintf("%.2f (prev %.2f, %s %+.1f%%)",
				w.Current, w.Previous, trendArrow(w.Trend), w.ChangeRate)
		},
	}

	tmpl := `
Weekly Report {{.Report.Week.ReportDate}}
Week: {{.Report.Week.WeekMonday}} to {{.Report.Week.WeekSunday}}
Generated: {{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}}
{{if .Traffic}}
=== Traffic ===
New Visitors:   {{wow .Traffic.VisitorsWoW}}
Registrations:  {{wow .Traffic.RegistrationsWoW}}
Conversion:     {{wowPct .Traffic.ConversionRateWoW}}
{{range .Traffic.ChannelNotes}}
- {{.Message}}
{{- end}}
{{end}}{{if .Activation}}
=== Activation ==={{if .Activation.IncompleteData}}
Insufficient weekly history for the funnel comparison.
{{else}}
New Registrations: {{printf "%.0f" .Activation.NewRegistrations}}
Weeks: {{.Activation.TwoWeeksBackLabel}} / {{.Activation.OneWeekBackLabel}} / {{.Activation.CurrentWeekLabel}}
{{range .Activation.Stages}}
{{printf "%-22s" .Name}} {{printf "%6.2f%%" .TwoWeeksBack}} {{printf "%6.2f%%" .OneWeekBack}} {{printf "%6.2f%%" .Current}}  {{.ChangeLabel}}
{{- end}}
{{printf "%-22s" .Activation.Overall.Name}} {{printf "%6.2f%%" .Activation.Overall.TwoWeeksBack}} {{printf "%6.2f%%" .Activation.Overall.OneWeekBack}} {{printf "%6.2f%%" .Activation.Overall.Current}}  {{.Activation.Overall.ChangeLabel}}
{{end}}{{end}}{{if .Engagement}}
=== Engagement ===
Total WAU:     {{wow .Engagement.TotalWoW}}
New WAU:       {{wow .Engagement.NewUserWoW}}
Returning WAU: {{wow .Engagement.ReturningWoW}}
Driven by: {{.Engagement.DominantContributor}} users
{{end}}{{if .Retention}}
=== Retention ===
New Cohort:       {{wowPct .Retention.NewCohortWoW}}
Returning Cohort: {{wowPct .Retention.ReturningCohortWoW}}
Level: {{.Retention.Level}}
{{end}}{{if .Revenue}}
=== Revenue ===
Total:       {{wowMoney .Revenue.TotalWoW}}
New Signing: {{wowMoney .Revenue.NewSigningWoW}}
Renewal:     {{wowMoney .Revenue.RenewalWoW}}
{{end}}{{if .Report.Quality}}
=== Data Quality ===
Status: {{.Report.Quality.OverallStatus}} ({{.Report.Quality.Summary.ValidSections}}/{{.Report.Quality.Summary.TotalSections}} sections valid, {{.Report.Quality.Summary.TotalAnomalies}} anomalies)
{{range .Report.Quality.Recommendations}}
- {{.}}
{{- end}}
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, viewOf(report))
}

func trendArrow(t domain.Trend) string {
	switch t {
	case domain.TrendUp:
		return "↑"
	case domain.TrendDown:
		return "↓"
	default:
		return "→"
	}
}

func viewOf(report *domain.WeeklyReport) reportView {
	view := reportView{Report: report}
	for _, metrics := range report.Analysis.Sections {
		switch m := metrics.(type) {
		case *domain.TrafficMetrics:
			view.Traffic = m
		case *domain.ActivationMetrics:
			view.Activation = m
		case *domain.EngagementMetrics:
			view.Engagement = m
		case *domain.RetentionMetrics:
			view.Retention = m
		case *domain.RevenueMetrics:
			view.Revenue = m
		}
	}
	return view
}
