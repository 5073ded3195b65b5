package domain

import "fmt"

// SectionID identifies one of the five report sections. Every section has its
// own period column and reduction strategy.
type SectionID string

const (
	SectionTraffic    SectionID = "traffic"
	SectionActivation SectionID = "activation"
	SectionEngagement SectionID = "engagement"
	SectionRetention  SectionID = "retention"
	SectionRevenue    SectionID = "revenue"
)

// AllSections returns the sections in report order.
func AllSections() []SectionID {
	return []SectionID{
		SectionTraffic,
		SectionActivation,
		SectionEngagement,
		SectionRetention,
		SectionRevenue,
	}
}

func (s SectionID) Valid() bool {
	switch s {
	case SectionTraffic, SectionActivation, SectionEngagement, SectionRetention, SectionRevenue:
		return true
	}
	return false
}

func (s SectionID) String() string { return string(s) }

// ErrUnknownSection is the only condition the engine fails loudly on: passing a
// section identifier that is not part of the report is a programmer error, not
// a data-quality problem.
func ErrUnknownSection(s SectionID) error {
	return fmt.Errorf("unknown section: %q", s)
}
