package attendance

import (
	"context"
	"sort"
	"testing"
	"time"

	"attendease/internal/domain"
	"attendease/internal/model"
)

type fakeRecord struct {
	teacherID int64
	date      time.Time
	status    string
}

type fakeStore struct {
	students []model.Student
	records  map[int64][]fakeRecord // by student id
}

func newFakeStore(students ...model.Student) *fakeStore {
	return &fakeStore{students: students, records: make(map[int64][]fakeRecord)}
}

func (f *fakeStore) Students(ctx context.Context) ([]model.Student, error) {
	return f.students, nil
}

func (f *fakeStore) UpsertMany(ctx context.Context, teacherID int64, date time.Time, statusByStudent map[int64]string) error {
	for studentID, status := range statusByStudent {
		recs := f.records[studentID]
		replaced := false
		for i := range recs {
			if recs[i].date.Equal(date) {
				recs[i] = fakeRecord{teacherID: teacherID, date: date, status: status}
				replaced = true
			}
		}
		if !replaced {
			recs = append(recs, fakeRecord{teacherID: teacherID, date: date, status: status})
		}
		f.records[studentID] = recs
	}
	return nil
}

func (f *fakeStore) CountsByStudent(ctx context.Context, studentID int64) (total, present int, err error) {
	for _, r := range f.records[studentID] {
		total++
		if r.status == model.StatusPresent {
			present++
		}
	}
	return total, present, nil
}

func (f *fakeStore) RecordsByStudent(ctx context.Context, studentID int64, limit int) ([]model.Attendance, error) {
	recs := f.records[studentID]
	sorted := make([]fakeRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].date.After(sorted[j].date) })
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]model.Attendance, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, model.Attendance{StudentID: studentID, TeacherID: r.teacherID, Date: r.date, Status: r.status})
	}
	return out, nil
}

func (f *fakeStore) RangeCounts(ctx context.Context, teacherID int64, from, to time.Time) (map[int64]Counts, error) {
	counts := make(map[int64]Counts)
	for studentID, recs := range f.records {
		for _, r := range recs {
			if r.teacherID != teacherID || r.date.Before(from) || r.date.After(to) {
				continue
			}
			c := counts[studentID]
			c.Total++
			if r.status == model.StatusPresent {
				c.Present++
			}
			c.Absent = c.Total - c.Present
			counts[studentID] = c
		}
	}
	return counts, nil
}

func TestMarkRejectsBadDates(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, 0)

	for _, dateStr := range []string{"", "12-06-2024", "not a date"} {
		_, err := svc.Mark(context.Background(), 1, dateStr, map[int64]string{1: model.StatusPresent})
		if _, ok := domain.IsValidation(err); !ok {
			t.Errorf("Mark(%q) error = %v, want validation error", dateStr, err)
		}
	}
	if len(store.records) != 0 {
		t.Fatal("nothing should be written when the date is invalid")
	}
}

func TestMarkIsIdempotentPerStudentAndDate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, 0)
	ctx := context.Background()

	if _, err := svc.Mark(ctx, 1, "2024-06-12", map[int64]string{7: model.StatusAbsent}); err != nil {
		t.Fatalf("first Mark: %v", err)
	}
	if _, err := svc.Mark(ctx, 2, "2024-06-12", map[int64]string{7: model.StatusPresent}); err != nil {
		t.Fatalf("second Mark: %v", err)
	}

	recs := store.records[7]
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].status != model.StatusPresent || recs[0].teacherID != 2 {
		t.Errorf("record = %+v, want latest status and teacher", recs[0])
	}
}

func TestMarkSkipsUnknownStatuses(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, 0)

	_, err := svc.Mark(context.Background(), 1, "2024-06-12", map[int64]string{
		1: model.StatusPresent,
		2: "late",
		3: "",
	})
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("got records for %d students, want 1", len(store.records))
	}
	if _, ok := store.records[1]; !ok {
		t.Error("the valid entry should be stored")
	}
}

func TestStudentSummary(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, 0)
	ctx := context.Background()

	empty, err := svc.StudentSummary(ctx, 1)
	if err != nil {
		t.Fatalf("StudentSummary: %v", err)
	}
	if empty.Total != 0 || empty.Percentage != 0 {
		t.Errorf("empty summary = %+v, want zeros", empty)
	}

	days := []string{"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13"}
	statuses := []string{model.StatusPresent, model.StatusPresent, model.StatusPresent, model.StatusAbsent}
	for i, d := range days {
		if _, err := svc.Mark(ctx, 1, d, map[int64]string{1: statuses[i]}); err != nil {
			t.Fatalf("Mark(%s): %v", d, err)
		}
	}

	sum, err := svc.StudentSummary(ctx, 1)
	if err != nil {
		t.Fatalf("StudentSummary: %v", err)
	}
	if sum.Total != 4 || sum.Present != 3 || sum.Absent != 1 {
		t.Errorf("summary = %+v, want 4/3/1", sum)
	}
	if sum.Percentage != 75.0 {
		t.Errorf("percentage = %v, want 75.0", sum.Percentage)
	}
}

func TestPercentageRounding(t *testing.T) {
	tests := []struct {
		present, total int
		want           float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 1, 100},
	}
	for _, tt := range tests {
		if got := percentage(tt.present, tt.total); got != tt.want {
			t.Errorf("percentage(%d, %d) = %v, want %v", tt.present, tt.total, got, tt.want)
		}
	}
}

func TestClassSummary(t *testing.T) {
	store := newFakeStore(
		model.Student{ID: 1, RollNo: "001", Name: "Alice"},
		model.Student{ID: 2, RollNo: "002", Name: "Bob"},
		model.Student{ID: 3, RollNo: "003", Name: "Cara"},
	)
	svc := NewService(store, nil, 0)
	ctx := context.Background()

	// Alice: 2 present. Bob: 1 present, 1 absent. Cara: no records.
	marks := []struct {
		date     string
		statuses map[int64]string
	}{
		{"2024-06-11", map[int64]string{1: model.StatusPresent, 2: model.StatusPresent}},
		{"2024-06-12", map[int64]string{1: model.StatusPresent, 2: model.StatusAbsent}},
	}
	for _, m := range marks {
		if _, err := svc.Mark(ctx, 9, m.date, m.statuses); err != nil {
			t.Fatalf("Mark(%s): %v", m.date, err)
		}
	}

	sum, err := svc.ClassSummary(ctx, 9, RangeWeek, date(2024, time.June, 12))
	if err != nil {
		t.Fatalf("ClassSummary: %v", err)
	}
	if len(sum.Rows) != 3 {
		t.Fatalf("got %d rows, want one per student", len(sum.Rows))
	}
	if sum.Rows[0].Name != "Alice" || sum.Rows[2].Name != "Cara" {
		t.Errorf("rows out of roll order: %+v", sum.Rows)
	}
	if sum.Rows[0].Percentage != 100 || sum.Rows[1].Percentage != 50 {
		t.Errorf("percentages = %v, %v, want 100, 50", sum.Rows[0].Percentage, sum.Rows[1].Percentage)
	}
	if sum.Rows[2].Total != 0 || sum.Rows[2].Percentage != 0 {
		t.Errorf("student without records should show zeros, got %+v", sum.Rows[2])
	}
	// Average skips Cara, who has nothing in scope.
	if sum.Average != 75.0 {
		t.Errorf("average = %v, want 75.0", sum.Average)
	}
	if sum.TotalRecords != 4 {
		t.Errorf("total records = %d, want 4", sum.TotalRecords)
	}
}

func TestClassSummaryExcludesOtherTeachersAndDates(t *testing.T) {
	store := newFakeStore(model.Student{ID: 1, RollNo: "001", Name: "Alice"})
	svc := NewService(store, nil, 0)
	ctx := context.Background()

	if _, err := svc.Mark(ctx, 9, "2024-06-12", map[int64]string{1: model.StatusPresent}); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if _, err := svc.Mark(ctx, 9, "2024-05-01", map[int64]string{1: model.StatusAbsent}); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	sum, err := svc.ClassSummary(ctx, 9, RangeWeek, date(2024, time.June, 12))
	if err != nil {
		t.Fatalf("ClassSummary: %v", err)
	}
	if sum.Rows[0].Total != 1 {
		t.Errorf("total = %d, want only the in-range record", sum.Rows[0].Total)
	}

	other, err := svc.ClassSummary(ctx, 5, RangeWeek, date(2024, time.June, 12))
	if err != nil {
		t.Fatalf("ClassSummary: %v", err)
	}
	if other.Rows[0].Total != 0 {
		t.Errorf("another teacher should see no records, got %d", other.Rows[0].Total)
	}
}
