package leave

import (
	"context"
	"database/sql"

	"attendease/internal/model"
)

// Repository persists leave requests in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending request.
func (r *Repository) Create(ctx context.Context, l model.Leave) (model.Leave, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO leaves (student_id, date, reason, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, l.StudentID, l.Date, l.Reason, l.Status).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// ByID fetches one request; (nil, nil) when absent.
func (r *Repository) ByID(ctx context.Context, id int64) (*model.Leave, error) {
	var l model.Leave
	err := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, date, reason, status, approval, approved_by, created_at, updated_at
		FROM leaves
		WHERE id = $1
	`, id).Scan(&l.ID, &l.StudentID, &l.Date, &l.Reason, &l.Status, &l.Approval, &l.ApprovedBy, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Decide records a teacher's verdict on a request. Deciding again overwrites
// the previous verdict.
func (r *Repository) Decide(ctx context.Context, id int64, status, approval string, teacherID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE leaves
		SET status = $2, approval = $3, approved_by = $4, updated_at = NOW()
		WHERE id = $1
	`, id, status, approval, teacherID)
	return err
}

// ListByStudent returns one student's requests newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID int64) ([]model.Leave, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, date, reason, status, approval, approved_by, created_at, updated_at
		FROM leaves
		WHERE student_id = $1
		ORDER BY created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLeaves(rows)
}

// ListAll returns every request newest first, with the owning student's roll
// number and name for the review page.
func (r *Repository) ListAll(ctx context.Context) ([]Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.student_id, l.date, l.reason, l.status, l.approval, l.approved_by,
		       l.created_at, l.updated_at, s.roll_no, s.name
		FROM leaves l
		JOIN students s ON s.id = l.student_id
		ORDER BY l.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []Request
	for rows.Next() {
		var q Request
		if err := rows.Scan(&q.ID, &q.StudentID, &q.Date, &q.Reason, &q.Status, &q.Approval,
			&q.ApprovedBy, &q.CreatedAt, &q.UpdatedAt, &q.RollNo, &q.StudentName); err != nil {
			return nil, err
		}
		reqs = append(reqs, q)
	}
	return reqs, rows.Err()
}

func scanLeaves(rows *sql.Rows) ([]model.Leave, error) {
	var leaves []model.Leave
	for rows.Next() {
		var l model.Leave
		if err := rows.Scan(&l.ID, &l.StudentID, &l.Date, &l.Reason, &l.Status, &l.Approval,
			&l.ApprovedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}
