package domain

// AnomalySeverity grades how far a week-over-week change exceeds its
// configured threshold.
type AnomalySeverity string

const (
	SeverityLow      AnomalySeverity = "low"
	SeverityMedium   AnomalySeverity = "medium"
	SeverityHigh     AnomalySeverity = "high"
	SeverityCritical AnomalySeverity = "critical"
)

// Anomaly is an informational annotation about a suspicious swing. It never
// halts the pipeline; renderers and notes generators decide what to do with it.
type Anomaly struct {
	Section       SectionID       `json:"section"`
	Field         string          `json:"field"`
	PreviousValue float64         `json:"previous_value"`
	CurrentValue  float64         `json:"current_value"`
	ChangeRate    float64         `json:"change_rate"` // percent, absolute value
	Threshold     float64         `json:"threshold"`   // percent
	Severity      AnomalySeverity `json:"severity"`
	Message       string          `json:"message"`
}
