package account

import (
	"context"
	"errors"
	"testing"

	"attendease/internal/domain"
	"attendease/internal/model"
)

type fakeStore struct {
	users    map[string]model.User
	students map[int64]model.Student
	teachers map[int64]model.Teacher
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]model.User),
		students: make(map[int64]model.Student),
		teachers: make(map[int64]model.Teacher),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateStudent(ctx context.Context, u model.User, s model.Student) (model.User, model.Student, error) {
	if _, exists := f.users[u.Username]; exists {
		return model.User{}, model.Student{}, domain.Invalid("username", "username already taken")
	}
	u.ID = f.id()
	s.ID = f.id()
	s.UserID = u.ID
	f.users[u.Username] = u
	f.students[u.ID] = s
	return u, s, nil
}

func (f *fakeStore) CreateTeacher(ctx context.Context, u model.User, t model.Teacher) (model.User, model.Teacher, error) {
	if _, exists := f.users[u.Username]; exists {
		return model.User{}, model.Teacher{}, domain.Invalid("username", "username already taken")
	}
	u.ID = f.id()
	t.ID = f.id()
	t.UserID = u.ID
	f.users[u.Username] = u
	f.teachers[u.ID] = t
	return u, t, nil
}

func (f *fakeStore) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeStore) StudentByUserID(ctx context.Context, userID int64) (*model.Student, error) {
	s, ok := f.students[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) TeacherByUserID(ctx context.Context, userID int64) (*model.Teacher, error) {
	t, ok := f.teachers[userID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func TestRegisterStudentValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	base := StudentInput{Username: "asha", Password: "secret", RollNo: "101", Name: "Asha"}

	tests := []struct {
		name   string
		mutate func(*StudentInput)
	}{
		{"missing username", func(in *StudentInput) { in.Username = " " }},
		{"missing password", func(in *StudentInput) { in.Password = "" }},
		{"missing name", func(in *StudentInput) { in.Name = "" }},
		{"roll number too short", func(in *StudentInput) { in.RollNo = "12" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := svc.RegisterStudent(ctx, in); err == nil {
				t.Error("expected a validation error")
			} else if _, ok := domain.IsValidation(err); !ok {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}

	u, err := svc.RegisterStudent(ctx, base)
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	if u.Username != "asha" {
		t.Errorf("username = %q, want asha", u.Username)
	}
}

func TestRegisterStudentDuplicateUsername(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	in := StudentInput{Username: "asha", Password: "secret", RollNo: "101", Name: "Asha"}
	if _, err := svc.RegisterStudent(ctx, in); err != nil {
		t.Fatalf("first RegisterStudent: %v", err)
	}
	in.RollNo = "102"
	if _, err := svc.RegisterStudent(ctx, in); err == nil {
		t.Error("a duplicate username should be rejected")
	}
}

func TestRegisterTeacherRequiresSubject(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	in := TeacherInput{Username: "ravi", Password: "secret", Name: "Ravi"}
	if _, err := svc.RegisterTeacher(ctx, in); err == nil {
		t.Error("a teacher without a subject should be rejected")
	}
	in.Subject = "Math"
	if _, err := svc.RegisterTeacher(ctx, in); err != nil {
		t.Errorf("RegisterTeacher: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	if _, err := svc.RegisterStudent(ctx, StudentInput{
		Username: "asha", Password: "secret", RollNo: "101", Name: "Asha",
	}); err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "asha", "secret"); err != nil {
		t.Errorf("Authenticate with good password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "asha", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "secret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestResolveProfile(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	st, err := svc.RegisterStudent(ctx, StudentInput{
		Username: "asha", Password: "secret", RollNo: "101", Name: "Asha",
	})
	if err != nil {
		t.Fatalf("RegisterStudent: %v", err)
	}
	te, err := svc.RegisterTeacher(ctx, TeacherInput{
		Username: "ravi", Password: "secret", Name: "Ravi", Subject: "Math",
	})
	if err != nil {
		t.Fatalf("RegisterTeacher: %v", err)
	}

	p, err := svc.ResolveProfile(ctx, st.ID)
	if err != nil {
		t.Fatalf("ResolveProfile(student): %v", err)
	}
	if p.Role() != "student" || p.Student == nil {
		t.Errorf("profile = %+v, want student", p)
	}

	p, err = svc.ResolveProfile(ctx, te.ID)
	if err != nil {
		t.Fatalf("ResolveProfile(teacher): %v", err)
	}
	if p.Role() != "teacher" || p.Teacher == nil {
		t.Errorf("profile = %+v, want teacher", p)
	}

	if _, err := svc.ResolveProfile(ctx, 9999); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("error = %v, want ErrProfileNotFound", err)
	}
}
