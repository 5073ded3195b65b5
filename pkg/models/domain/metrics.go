package domain

import "math"

// Trend is the direction of a week-over-week change.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// WoWResult describes one metric's week-over-week movement. ChangeAbs carries
// full precision; display-oriented callers round via RoundedAbs. When there is
// no baseline (previous missing or zero) ChangeRate is 0 and the trend is flat
// by definition rather than dividing by zero.
type WoWResult struct {
	Current    float64 `json:"current"`
	Previous   float64 `json:"previous"`
	ChangeAbs  float64 `json:"change_abs"`
	ChangeRate float64 `json:"change_rate"` // percent, one decimal
	Trend      Trend   `json:"trend"`
}

// RoundedAbs is the absolute change rounded to the nearest integer, for
// callers that present counts rather than rates.
func (w WoWResult) RoundedAbs() float64 {
	return math.Round(w.ChangeAbs)
}

// SectionMetrics is the derived output of one section's aggregation strategy.
type SectionMetrics interface {
	Section() SectionID
}

// ChannelNote is a per-channel traffic observation worth calling out: the
// channel either moved a lot week over week or carries substantial volume.
type ChannelNote struct {
	Channel          string  `json:"channel"`
	Direction        string  `json:"direction"` // "increase" or "decrease"
	Large            bool    `json:"large"`     // |change rate| above the large-swing bar
	ChangeRate       float64 `json:"change_rate"`
	PreviousVisitors float64 `json:"previous_visitors"`
	CurrentVisitors  float64 `json:"current_visitors"`
	ConversionRate   float64 `json:"conversion_rate"`
	Message          string  `json:"message"`
}

type TrafficMetrics struct {
	NewVisitorsCurrent     float64 `json:"new_visitors_current"`
	NewVisitorsPrevious    float64 `json:"new_visitors_previous"`
	RegistrationsCurrent   float64 `json:"registrations_current"`
	RegistrationsPrevious  float64 `json:"registrations_previous"`
	ConversionRateCurrent  float64 `json:"conversion_rate_current"`
	ConversionRatePrevious float64 `json:"conversion_rate_previous"`

	VisitorsWoW       WoWResult `json:"visitors_wow"`
	RegistrationsWoW  WoWResult `json:"registrations_wow"`
	ConversionRateWoW WoWResult `json:"conversion_rate_wow"`

	ChannelNotes []ChannelNote `json:"channel_notes,omitempty"`
}

func (*TrafficMetrics) Section() SectionID { return SectionTraffic }

// FunnelStage is one step of the activation funnel compared across the three
// most recent weekly rows. Change is an absolute percentage-point delta
// between the one-week-back and two-weeks-back rates, not a ratio.
type FunnelStage struct {
	Name         string  `json:"name"`
	TwoWeeksBack float64 `json:"two_weeks_back_rate"`
	OneWeekBack  float64 `json:"one_week_back_rate"`
	Current      float64 `json:"current_rate"`
	Change       float64 `json:"change"`
	ChangeLabel  string  `json:"change_label"` // e.g. "↑ +1.25%"
}

type ActivationMetrics struct {
	NewRegistrations float64       `json:"new_registrations"`
	Stages           []FunnelStage `json:"stages"`
	Overall          FunnelStage   `json:"overall"`

	TwoWeeksBackLabel WeekLabel `json:"two_weeks_back_label"`
	OneWeekBackLabel  WeekLabel `json:"one_week_back_label"`
	CurrentWeekLabel  WeekLabel `json:"current_week_label"`

	// IncompleteData is set when fewer than three consecutive weekly rows were
	// available; all numeric fields are zeroed in that case.
	IncompleteData bool `json:"incomplete_data"`
}

func (*ActivationMetrics) Section() SectionID { return SectionActivation }

// Contributor names the user-type side driving a WAU movement.
const (
	ContributorNew       = "new"
	ContributorReturning = "returning"
	ContributorBalanced  = "balanced"
)

type EngagementMetrics struct {
	NewUserWAU                float64 `json:"new_user_wau"`
	NewUserWAUPrevious        float64 `json:"new_user_wau_previous"`
	ReturningUserWAU          float64 `json:"returning_user_wau"`
	ReturningUserWAUPrevious  float64 `json:"returning_user_wau_previous"`
	TotalWAUCurrent           float64 `json:"total_wau_current"`
	TotalWAUPrevious          float64 `json:"total_wau_previous"`

	TotalWoW     WoWResult `json:"total_wow"`
	NewUserWoW   WoWResult `json:"new_user_wow"`
	ReturningWoW WoWResult `json:"returning_wow"`

	DominantContributor string `json:"dominant_contributor"`
}

func (*EngagementMetrics) Section() SectionID { return SectionEngagement }

// RetentionLevel is the qualitative tier of the new-cohort retention rate.
type RetentionLevel string

const (
	RetentionHigh RetentionLevel = "high"
	RetentionMid  RetentionLevel = "mid"
	RetentionLow  RetentionLevel = "low"
)

type RetentionMetrics struct {
	NewCohortRate           float64 `json:"new_cohort_rate"`
	NewCohortPrevious       float64 `json:"new_cohort_previous"`
	ReturningCohortRate     float64 `json:"returning_cohort_rate"`
	ReturningCohortPrevious float64 `json:"returning_cohort_previous"`

	NewCohortWoW       WoWResult `json:"new_cohort_wow"`
	ReturningCohortWoW WoWResult `json:"returning_cohort_wow"`

	Level RetentionLevel `json:"level"`
}

func (*RetentionMetrics) Section() SectionID { return SectionRetention }

type RevenueMetrics struct {
	TotalCurrent       float64 `json:"total_current"`
	TotalPrevious      float64 `json:"total_previous"`
	NewSigningCurrent  float64 `json:"new_signing_current"`
	NewSigningPrevious float64 `json:"new_signing_previous"`
	RenewalCurrent     float64 `json:"renewal_current"`
	RenewalPrevious    float64 `json:"renewal_previous"`

	TotalWoW      WoWResult `json:"total_wow"`
	NewSigningWoW WoWResult `json:"new_signing_wow"`
	RenewalWoW    WoWResult `json:"renewal_wow"`
}

func (*RevenueMetrics) Section() SectionID { return SectionRevenue }

// AnalysisResult is the engine's composed output for one report run. Anomaly
// and completeness findings travel in the companion QualityReport.
type AnalysisResult struct {
	Sections map[SectionID]SectionMetrics `json:"sections"`
}
