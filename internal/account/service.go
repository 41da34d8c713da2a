package account

import (
	"context"
	"strings"

	"attendease/internal/auth"
	"attendease/internal/domain"
	"attendease/internal/model"
)

// Store is the persistence surface the service needs; *Repository implements
// it against Postgres, tests supply an in-memory fake.
type Store interface {
	CreateStudent(ctx context.Context, u model.User, s model.Student) (model.User, model.Student, error)
	CreateTeacher(ctx context.Context, u model.User, t model.Teacher) (model.User, model.Teacher, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	StudentByUserID(ctx context.Context, userID int64) (*model.Student, error)
	TeacherByUserID(ctx context.Context, userID int64) (*model.Teacher, error)
}

// Service handles registration, login checks, and profile resolution.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

const minRollNoLen = 3

// StudentInput carries the student registration form fields.
type StudentInput struct {
	Username string
	Email    string
	Password string
	RollNo   string
	Name     string
	Subject  string
}

// TeacherInput carries the teacher registration form fields.
type TeacherInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Subject  string
}

// RegisterStudent validates the form, then creates identity and profile
// atomically. Uniqueness races are reported by the store as ValidationError.
func (s *Service) RegisterStudent(ctx context.Context, in StudentInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.RollNo = strings.TrimSpace(in.RollNo)
	in.Name = strings.TrimSpace(in.Name)

	if in.Username == "" {
		return nil, domain.Invalid("username", "username is required")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "password is required")
	}
	if in.Name == "" {
		return nil, domain.Invalid("name", "name is required")
	}
	if len(in.RollNo) < minRollNoLen {
		return nil, domain.Invalid("roll_no", "roll number must be at least 3 characters")
	}
	if existing, err := s.store.UserByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Invalid("username", "username already taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	var subject *string
	if v := strings.TrimSpace(in.Subject); v != "" {
		subject = &v
	}
	u, _, err := s.store.CreateStudent(ctx,
		model.User{Username: in.Username, Email: in.Email, PasswordHash: hash},
		model.Student{RollNo: in.RollNo, Name: in.Name, Subject: subject},
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RegisterTeacher validates the form, then creates identity and profile
// atomically.
func (s *Service) RegisterTeacher(ctx context.Context, in TeacherInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Subject = strings.TrimSpace(in.Subject)

	if in.Username == "" {
		return nil, domain.Invalid("username", "username is required")
	}
	if in.Password == "" {
		return nil, domain.Invalid("password", "password is required")
	}
	if in.Name == "" {
		return nil, domain.Invalid("name", "name is required")
	}
	if in.Subject == "" {
		return nil, domain.Invalid("subject", "subject is required")
	}
	if existing, err := s.store.UserByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Invalid("username", "username already taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, _, err := s.store.CreateTeacher(ctx,
		model.User{Username: in.Username, Email: in.Email, PasswordHash: hash},
		model.Teacher{Name: in.Name, Subject: in.Subject},
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Authenticate checks credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// Profile is the role-specific record linked to an identity. Exactly one of
// Student and Teacher is set.
type Profile struct {
	Student *model.Student
	Teacher *model.Teacher
}

// Role names the profile kind.
func (p Profile) Role() string {
	switch {
	case p.Student != nil:
		return "student"
	case p.Teacher != nil:
		return "teacher"
	}
	return ""
}

// ResolveProfile returns the profile owned by an identity. Identities with
// neither profile (e.g. database superusers) get ErrProfileNotFound.
func (s *Service) ResolveProfile(ctx context.Context, userID int64) (Profile, error) {
	st, err := s.store.StudentByUserID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if st != nil {
		return Profile{Student: st}, nil
	}
	t, err := s.store.TeacherByUserID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if t != nil {
		return Profile{Teacher: t}, nil
	}
	return Profile{}, domain.ErrProfileNotFound
}
