package attendance

import "time"

// RangeKind selects the reporting window granularity.
type RangeKind string

const (
	RangeDay   RangeKind = "day"
	RangeWeek  RangeKind = "week"
	RangeMonth RangeKind = "month"
	RangeYear  RangeKind = "year"
)

// ParseRangeKind maps a query value to a RangeKind, defaulting to week.
func ParseRangeKind(s string) RangeKind {
	switch RangeKind(s) {
	case RangeDay, RangeWeek, RangeMonth, RangeYear:
		return RangeKind(s)
	}
	return RangeWeek
}

// DateRange is an inclusive calendar window ending at the reference date.
type DateRange struct {
	Kind  RangeKind
	Start time.Time
	End   time.Time
}

// RangeFor computes the window for a kind relative to ref:
// day is just ref; week starts the most recent Monday on/before ref; month
// starts the 1st; year starts Jan 1.
func RangeFor(kind RangeKind, ref time.Time) DateRange {
	ref = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	start := ref
	switch kind {
	case RangeDay:
	case RangeMonth:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	case RangeYear:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		kind = RangeWeek
		fallthrough
	case RangeWeek:
		daysSinceMonday := (int(ref.Weekday()) + 6) % 7
		start = ref.AddDate(0, 0, -daysSinceMonday)
	}
	return DateRange{Kind: kind, Start: start, End: ref}
}

// Label renders the window the way the dashboard shows it.
func (r DateRange) Label() string {
	switch r.Kind {
	case RangeDay:
		return "Today (" + r.End.Format("Jan 02, 2006") + ")"
	case RangeMonth:
		return "This Month (" + r.Start.Format("January 2006") + ")"
	case RangeYear:
		return "This Year (" + r.Start.Format("2006") + ")"
	default:
		return "This Week (" + r.Start.Format("Jan 02") + " - " + r.End.Format("Jan 02, 2006") + ")"
	}
}
