package analysis

import (
	"fmt"
	"sort"

	"github.com/de-tools/weekly-pulse/pkg/models/domain"
)

// TrafficNoteSettings controls which channels earn a narrative note.
// Floors are absolute visitor counts, not percentages.
type TrafficNoteSettings struct {
	MinVisitors  float64 `mapstructure:"min_visitors"`   // note any channel above this volume
	MinSwing     float64 `mapstructure:"min_swing"`      // ... or whose WoW swing exceeds this
	LargeRatePct float64 `mapstructure:"large_rate_pct"` // |rate| above this is a "large" move
	MaxNotes     int     `mapstructure:"max_notes"`
}

func DefaultTrafficNoteSettings() TrafficNoteSettings {
	return TrafficNoteSettings{
		MinVisitors:  10000,
		MinSwing:     5000,
		LargeRatePct: 50,
		MaxNotes:     5,
	}
}

// trafficAggregator sums acquisition-channel rows into weekly visitor and
// registration totals. Each row is one channel in one week.
type trafficAggregator struct {
	mapping ColumnMapping
	notes   TrafficNoteSettings
}

func newTrafficAggregator(mapping ColumnMapping, notes TrafficNoteSettings) *trafficAggregator {
	return &trafficAggregator{mapping: mapping, notes: notes}
}

func (a *trafficAggregator) Aggregate(current, previous []domain.Row) domain.SectionMetrics {
	visitorsCol := a.mapping.Column(FieldNewVisitors)
	regsCol := a.mapping.Column(FieldRegistrations)

	var visitors, regs, visitorsPrev, regsPrev float64
	for _, row := range current {
		visitors += row.Float(visitorsCol)
		regs += row.Float(regsCol)
	}
	for _, row := range previous {
		visitorsPrev += row.Float(visitorsCol)
		regsPrev += row.Float(regsCol)
	}

	convCurrent := conversionRate(regs, visitors)
	convPrevious := conversionRate(regsPrev, visitorsPrev)

	return &domain.TrafficMetrics{
		NewVisitorsCurrent:     visitors,
		NewVisitorsPrevious:    visitorsPrev,
		RegistrationsCurrent:   regs,
		RegistrationsPrevious:  regsPrev,
		ConversionRateCurrent:  Round2(convCurrent),
		ConversionRatePrevious: Round2(convPrevious),
		VisitorsWoW:            WeekOverWeek(visitors, visitorsPrev),
		RegistrationsWoW:       WeekOverWeek(regs, regsPrev),
		ConversionRateWoW:      WeekOverWeek(convCurrent, convPrevious),
		ChannelNotes:           a.channelNotes(current, previous),
	}
}

func conversionRate(registrations, visitors float64) float64 {
	if visitors == 0 {
		return 0
	}
	return registrations / visitors * 100
}

type channelTotals struct {
	visitors float64
	regs     float64
}

// channelNotes flags channels carrying substantial volume or swinging hard
// week over week.
func (a *trafficAggregator) channelNotes(current, previous []domain.Row) []domain.ChannelNote {
	if a.mapping.Dimension == "" {
		return nil
	}
	visitorsCol := a.mapping.Column(FieldNewVisitors)
	regsCol := a.mapping.Column(FieldRegistrations)

	cur := make(map[string]channelTotals)
	prev := make(map[string]channelTotals)
	for _, row := range current {
		ch := row.String(a.mapping.Dimension)
		t := cur[ch]
		t.visitors += row.Float(visitorsCol)
		t.regs += row.Float(regsCol)
		cur[ch] = t
	}
	for _, row := range previous {
		ch := row.String(a.mapping.Dimension)
		t := prev[ch]
		t.visitors += row.Float(visitorsCol)
		prev[ch] = t
	}

	channels := make([]string, 0, len(cur))
	for ch := range cur {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	var notes []domain.ChannelNote
	for _, ch := range channels {
		t := cur[ch]
		prevVisitors := prev[ch].visitors
		swing := t.visitors - prevVisitors
		if t.visitors <= a.notes.MinVisitors && abs(swing) <= a.notes.MinSwing {
			continue
		}

		wow := WeekOverWeek(t.visitors, prevVisitors)
		direction := "increase"
		if swing < 0 {
			direction = "decrease"
		}
		large := abs(wow.ChangeRate) > a.notes.LargeRatePct
		conv := Round2(conversionRate(t.regs, t.visitors))

		qualifier := ""
		if large {
			qualifier = "large "
		}
		notes = append(notes, domain.ChannelNote{
			Channel:          ch,
			Direction:        direction,
			Large:            large,
			ChangeRate:       wow.ChangeRate,
			PreviousVisitors: prevVisitors,
			CurrentVisitors:  t.visitors,
			ConversionRate:   conv,
			Message: fmt.Sprintf("%s: %s%s of %.1f%% in new visitors (%.0f -> %.0f), conversion %.1f%%",
				ch, qualifier, direction, abs(wow.ChangeRate), prevVisitors, t.visitors, conv),
		})

		if a.notes.MaxNotes > 0 && len(notes) >= a.notes.MaxNotes {
			break
		}
	}
	return notes
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
