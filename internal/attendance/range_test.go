package attendance

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRangeFor(t *testing.T) {
	// 2024-06-12 is a Wednesday.
	wed := date(2024, time.June, 12)

	tests := []struct {
		name  string
		kind  RangeKind
		ref   time.Time
		start time.Time
		end   time.Time
	}{
		{"day is just the reference", RangeDay, wed, wed, wed},
		{"week starts the previous monday", RangeWeek, wed, date(2024, time.June, 10), wed},
		{"week on a monday starts that day", RangeWeek, date(2024, time.June, 10), date(2024, time.June, 10), date(2024, time.June, 10)},
		{"week on a sunday reaches six days back", RangeWeek, date(2024, time.June, 16), date(2024, time.June, 10), date(2024, time.June, 16)},
		{"month starts the first", RangeMonth, wed, date(2024, time.June, 1), wed},
		{"year starts january first", RangeYear, wed, date(2024, time.January, 1), wed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangeFor(tt.kind, tt.ref)
			if !got.Start.Equal(tt.start) || !got.End.Equal(tt.end) {
				t.Errorf("RangeFor(%s) = [%s, %s], want [%s, %s]",
					tt.kind, got.Start, got.End, tt.start, tt.end)
			}
		})
	}
}

func TestRangeForUnknownKindDefaultsToWeek(t *testing.T) {
	got := RangeFor(RangeKind("bogus"), date(2024, time.June, 12))
	if got.Kind != RangeWeek {
		t.Fatalf("kind = %s, want %s", got.Kind, RangeWeek)
	}
	if want := date(2024, time.June, 10); !got.Start.Equal(want) {
		t.Fatalf("start = %s, want %s", got.Start, want)
	}
}

func TestParseRangeKind(t *testing.T) {
	tests := []struct {
		in   string
		want RangeKind
	}{
		{"day", RangeDay},
		{"week", RangeWeek},
		{"month", RangeMonth},
		{"year", RangeYear},
		{"", RangeWeek},
		{"hour", RangeWeek},
	}
	for _, tt := range tests {
		if got := ParseRangeKind(tt.in); got != tt.want {
			t.Errorf("ParseRangeKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRangeLabel(t *testing.T) {
	wed := date(2024, time.June, 12)

	tests := []struct {
		kind RangeKind
		want string
	}{
		{RangeDay, "Today (Jun 12, 2024)"},
		{RangeWeek, "This Week (Jun 10 - Jun 12, 2024)"},
		{RangeMonth, "This Month (June 2024)"},
		{RangeYear, "This Year (2024)"},
	}
	for _, tt := range tests {
		if got := RangeFor(tt.kind, wed).Label(); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
