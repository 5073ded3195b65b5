package domain

import (
	"strconv"
	"time"
)

// Row is one (period, dimension) observation as returned by the warehouse:
// a flat column -> value map. Values are whatever the SQL driver produced
// (float64, int64, string, []byte or nil); the accessors below normalize them.
type Row map[string]any

// Has reports whether the column is present with a non-nil value.
func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Float returns the column as a float64. Missing, nil and non-numeric values
// come back as 0 so absent metrics default to zero instead of failing.
func (r Row) Float(key string) float64 {
	v, ok := toFloat(r[key])
	if !ok {
		return 0
	}
	return v
}

// String returns the column as a string, or "" when absent.
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return ""
	}
}

// Label parses the column as a YYYYMMDD week label.
func (r Row) Label(key string) (WeekLabel, bool) {
	return ParseWeekLabel(r[key])
}

func toFloat(v any) (float64, bool) {
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
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// WeekLabel is an 8-digit YYYYMMDD date integer anchoring a report week
// (by convention the week's Sunday, the last day of the Monday..Sunday week).
type WeekLabel int

const weekLabelLayout = "20060102"

// ParseWeekLabel accepts the integer and string forms the warehouse returns.
// A label that does not parse as an 8-digit calendar date is rejected; rows
// carrying such labels are excluded from window membership rather than
// failing the run.
func ParseWeekLabel(v any) (WeekLabel, bool) {
	var s string
	switch n := v.(type) {
	case int:
		s = strconv.Itoa(n)
	case int32:
		s = strconv.FormatInt(int64(n), 10)
	case int64:
		s = strconv.FormatInt(n, 10)
	case float64:
		s = strconv.FormatInt(int64(n), 10)
	case string:
		s = n
	case []byte:
		s = string(n)
	case WeekLabel:
		s = n.String()
	default:
		return 0, false
	}
	if len(s) != 8 {
		return 0, false
	}
	t, err := time.Parse(weekLabelLayout, s)
	if err != nil {
		return 0, false
	}
	return labelOf(t), true
}

func labelOf(t time.Time) WeekLabel {
	n, _ := strconv.Atoi(t.Format(weekLabelLayout))
	return WeekLabel(n)
}

func (l WeekLabel) String() string {
	return strconv.Itoa(int(l))
}

// Time converts the label back to a calendar date (UTC midnight).
func (l WeekLabel) Time() (time.Time, bool) {
	t, err := time.Parse(weekLabelLayout, l.String())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddDays shifts the label by the given number of calendar days.
// An unparseable label shifts to zero.
func (l WeekLabel) AddDays(days int) WeekLabel {
	t, ok := l.Time()
	if !ok {
		return 0
	}
	return labelOf(t.AddDate(0, 0, days))
}

// WeekWindow is a closed Monday..Sunday label interval. A row belongs to the
// window when its period label lies within [Start, End] inclusive.
type WeekWindow struct {
	Start WeekLabel `json:"start"`
	End   WeekLabel `json:"end"`
}

func (w WeekWindow) Empty() bool {
	return w.Start == 0 && w.End == 0
}

func (w WeekWindow) Contains(l WeekLabel) bool {
	return !w.Empty() && l >= w.Start && l <= w.End
}

// ShiftDays moves both window bounds by the given number of days.
func (w WeekWindow) ShiftDays(days int) WeekWindow {
	if w.Empty() {
		return w
	}
	return WeekWindow{Start: w.Start.AddDays(days), End: w.End.AddDays(days)}
}

// WeekWindowOf builds the Monday..Sunday window containing the given label.
func WeekWindowOf(l WeekLabel) WeekWindow {
	t, ok := l.Time()
	if !ok {
		return WeekWindow{}
	}
	// Go's Weekday has Sunday == 0; Monday offset is (wd+6) mod 7.
	offset := (int(t.Weekday()) + 6) % 7
	start := t.AddDate(0, 0, -offset)
	return WeekWindow{Start: labelOf(start), End: labelOf(start.AddDate(0, 0, 6))}
}
