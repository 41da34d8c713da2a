package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"attendease/internal/domain"
	"attendease/internal/model"
)

// Repository persists identities and profiles in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const uniqueViolation = "23505"

// mapConstraint converts a unique-violation into the ValidationError the form
// layer expects. Other errors pass through untouched.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return domain.Invalid("username", "username already taken")
	case "students_roll_no_key":
		return domain.Invalid("roll_no", "roll number already registered")
	}
	return domain.Invalid("", "duplicate value")
}

// CreateStudent inserts the user and student rows in one transaction so a
// failed profile insert leaves no orphaned identity.
func (r *Repository) CreateStudent(ctx context.Context, u model.User, s model.Student) (model.User, model.Student, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, model.Student{}, err
	}
	defer tx.Rollback()

	if err := insertUser(ctx, tx, &u); err != nil {
		return model.User{}, model.Student{}, mapConstraint(err)
	}
	s.UserID = u.ID
	row := tx.QueryRowContext(ctx, `
		INSERT INTO students (user_id, roll_no, name, subject)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_joined
	`, s.UserID, s.RollNo, s.Name, s.Subject)
	if err := row.Scan(&s.ID, &s.DateJoined); err != nil {
		return model.User{}, model.Student{}, mapConstraint(err)
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, model.Student{}, err
	}
	return u, s, nil
}

// CreateTeacher inserts the user and teacher rows in one transaction.
func (r *Repository) CreateTeacher(ctx context.Context, u model.User, t model.Teacher) (model.User, model.Teacher, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, model.Teacher{}, err
	}
	defer tx.Rollback()

	if err := insertUser(ctx, tx, &u); err != nil {
		return model.User{}, model.Teacher{}, mapConstraint(err)
	}
	t.UserID = u.ID
	row := tx.QueryRowContext(ctx, `
		INSERT INTO teachers (user_id, name, subject)
		VALUES ($1, $2, $3)
		RETURNING id
	`, t.UserID, t.Name, t.Subject)
	if err := row.Scan(&t.ID); err != nil {
		return model.User{}, model.Teacher{}, mapConstraint(err)
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, model.Teacher{}, err
	}
	return u, t, nil
}

func insertUser(ctx context.Context, tx *sql.Tx, u *model.User) error {
	row := tx.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Username, u.Email, u.PasswordHash)
	return row.Scan(&u.ID, &u.CreatedAt)
}

// UserByUsername returns a user or nil when absent.
func (r *Repository) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1
	`, username)
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// StudentByUserID returns the student profile owned by a user, or nil.
func (r *Repository) StudentByUserID(ctx context.Context, userID int64) (*model.Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, roll_no, name, subject, date_joined
		FROM students WHERE user_id = $1
	`, userID)
	var s model.Student
	if err := row.Scan(&s.ID, &s.UserID, &s.RollNo, &s.Name, &s.Subject, &s.DateJoined); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// TeacherByUserID returns the teacher profile owned by a user, or nil.
func (r *Repository) TeacherByUserID(ctx context.Context, userID int64) (*model.Teacher, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, subject
		FROM teachers WHERE user_id = $1
	`, userID)
	var t model.Teacher
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
