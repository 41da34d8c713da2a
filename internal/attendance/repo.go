package attendance

import (
	"context"
	"database/sql"
	"time"

	"attendease/internal/model"
)

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Students returns every student in roll-number order.
func (r *Repository) Students(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, roll_no, name, subject, date_joined
		FROM students
		ORDER BY roll_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.UserID, &s.RollNo, &s.Name, &s.Subject, &s.DateJoined); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// UpsertMany writes one row per student for the given date inside a single
// transaction. The unique (student_id, date) constraint makes repeated calls
// overwrite rather than duplicate, including under concurrent marking.
func (r *Repository) UpsertMany(ctx context.Context, teacherID int64, date time.Time, statusByStudent map[int64]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for studentID, status := range statusByStudent {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (student_id, teacher_id, date, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (student_id, date) DO UPDATE SET
				status = EXCLUDED.status,
				teacher_id = EXCLUDED.teacher_id,
				updated_at = NOW()
		`, studentID, teacherID, date, status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountsByStudent returns total and present record counts across all dates.
func (r *Repository) CountsByStudent(ctx context.Context, studentID int64) (total, present int, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'present')
		FROM attendance
		WHERE student_id = $1
	`, studentID)
	err = row.Scan(&total, &present)
	return total, present, err
}

// RecordsByStudent lists a student's records newest-date-first. limit <= 0
// means no limit.
func (r *Repository) RecordsByStudent(ctx context.Context, studentID int64, limit int) ([]model.Attendance, error) {
	query := `
		SELECT id, student_id, teacher_id, date, status, created_at, updated_at
		FROM attendance
		WHERE student_id = $1
		ORDER BY date DESC
	`
	args := []any{studentID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Attendance
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.StudentID, &a.TeacherID, &a.Date, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// RangeCounts aggregates a teacher's records per student within [from, to].
func (r *Repository) RangeCounts(ctx context.Context, teacherID int64, from, to time.Time) (map[int64]Counts, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'present')
		FROM attendance
		WHERE teacher_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY student_id
	`, teacherID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]Counts)
	for rows.Next() {
		var studentID int64
		var c Counts
		if err := rows.Scan(&studentID, &c.Total, &c.Present); err != nil {
			return nil, err
		}
		c.Absent = c.Total - c.Present
		counts[studentID] = c
	}
	return counts, rows.Err()
}
