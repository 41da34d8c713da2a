package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"attendease/internal/domain"
	"attendease/internal/model"
	"attendease/internal/store"
)

// Counts is a per-student tally within some window.
type Counts struct {
	Total   int
	Present int
	Absent  int
}

// Summary is one student's overall attendance figures.
type Summary struct {
	Total      int
	Present    int
	Absent     int
	Percentage float64
}

// ClassRow is one line of the teacher's range report.
type ClassRow struct {
	StudentID  int64
	RollNo     string
	Name       string
	Total      int
	Present    int
	Absent     int
	Percentage float64
}

// ClassSummary is the teacher's range report: one row per known student in
// roll-number order, plus the unweighted average over students that have at
// least one record in scope.
type ClassSummary struct {
	Kind         RangeKind
	Label        string
	Start        time.Time
	End          time.Time
	Rows         []ClassRow
	Average      float64
	TotalRecords int
}

// Store is the persistence surface the service needs.
type Store interface {
	Students(ctx context.Context) ([]model.Student, error)
	UpsertMany(ctx context.Context, teacherID int64, date time.Time, statusByStudent map[int64]string) error
	CountsByStudent(ctx context.Context, studentID int64) (total, present int, err error)
	RecordsByStudent(ctx context.Context, studentID int64, limit int) ([]model.Attendance, error)
	RangeCounts(ctx context.Context, teacherID int64, from, to time.Time) (map[int64]Counts, error)
}

// Service coordinates attendance marking and reporting. The redis cache is
// optional and best-effort; all methods work with cache == nil.
type Service struct {
	store    Store
	cache    *store.Redis
	cacheTTL time.Duration
}

// NewService creates a service backed by a store.
func NewService(s Store, cache *store.Redis, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{store: s, cache: cache, cacheTTL: cacheTTL}
}

const dateLayout = "2006-01-02"

// Mark upserts one record per (student, date) for every recognized status.
// Entries whose status is not present/absent are skipped silently. The date
// must parse before anything is written. Safe to repeat for the same date.
func (s *Service) Mark(ctx context.Context, teacherID int64, dateStr string, statusByStudent map[int64]string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, domain.Invalid("date", "please select a date")
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, domain.Invalid("date", "invalid date")
	}

	accepted := make(map[int64]string, len(statusByStudent))
	for studentID, status := range statusByStudent {
		if model.ValidAttendanceStatus(status) {
			accepted[studentID] = status
		}
	}
	if len(accepted) > 0 {
		if err := s.store.UpsertMany(ctx, teacherID, date, accepted); err != nil {
			return time.Time{}, err
		}
		s.invalidateSummaries(ctx, teacherID)
	}
	return date, nil
}

// Students lists every student in roll-number order.
func (s *Service) Students(ctx context.Context) ([]model.Student, error) {
	return s.store.Students(ctx)
}

// StudentSummary computes overall figures for one student. Percentage is 0
// when no records exist.
func (s *Service) StudentSummary(ctx context.Context, studentID int64) (Summary, error) {
	total, present, err := s.store.CountsByStudent(ctx, studentID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Total:      total,
		Present:    present,
		Absent:     total - present,
		Percentage: percentage(present, total),
	}, nil
}

// History lists a student's records newest first.
func (s *Service) History(ctx context.Context, studentID int64, limit int) ([]model.Attendance, error) {
	return s.store.RecordsByStudent(ctx, studentID, limit)
}

// ClassSummary builds the teacher's range report relative to ref.
func (s *Service) ClassSummary(ctx context.Context, teacherID int64, kind RangeKind, ref time.Time) (ClassSummary, error) {
	rng := RangeFor(kind, ref)
	key := summaryKey(teacherID, rng)

	var cached ClassSummary
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	students, err := s.store.Students(ctx)
	if err != nil {
		return ClassSummary{}, err
	}
	counts, err := s.store.RangeCounts(ctx, teacherID, rng.Start, rng.End)
	if err != nil {
		return ClassSummary{}, err
	}

	out := ClassSummary{
		Kind:  rng.Kind,
		Label: rng.Label(),
		Start: rng.Start,
		End:   rng.End,
	}
	var pctSum float64
	var scored int
	for _, st := range students {
		c := counts[st.ID]
		row := ClassRow{
			StudentID:  st.ID,
			RollNo:     st.RollNo,
			Name:       st.Name,
			Total:      c.Total,
			Present:    c.Present,
			Absent:     c.Absent,
			Percentage: percentage(c.Present, c.Total),
		}
		out.Rows = append(out.Rows, row)
		out.TotalRecords += c.Total
		if c.Total > 0 {
			pctSum += row.Percentage
			scored++
		}
	}
	if scored > 0 {
		out.Average = round1(pctSum / float64(scored))
	}

	s.cache.SetJSON(ctx, key, out, s.cacheTTL)
	return out, nil
}

// invalidateSummaries drops today's cached reports for a teacher. Ranges
// anchored on older reference dates simply age out via TTL.
func (s *Service) invalidateSummaries(ctx context.Context, teacherID int64) {
	today := time.Now().UTC()
	keys := make([]string, 0, 4)
	for _, kind := range []RangeKind{RangeDay, RangeWeek, RangeMonth, RangeYear} {
		keys = append(keys, summaryKey(teacherID, RangeFor(kind, today)))
	}
	s.cache.Delete(ctx, keys...)
}

func summaryKey(teacherID int64, rng DateRange) string {
	return fmt.Sprintf("classsum:%d:%s:%s", teacherID, rng.Kind, rng.End.Format(dateLayout))
}

// percentage is present/total*100 rounded to one decimal, 0 for empty totals.
func percentage(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(present) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
