package model

import "time"

// Attendance statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Leave statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// User is the login identity. A user owns at most one Student or Teacher
// profile; superuser accounts may own neither.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Student profile, one-to-one with a User.
type Student struct {
	ID         int64
	UserID     int64
	RollNo     string
	Name       string
	Subject    *string
	DateJoined time.Time
}

// Teacher profile, one-to-one with a User.
type Teacher struct {
	ID      int64
	UserID  int64
	Name    string
	Subject string
}

// Attendance is one student's status on one calendar date. At most one row
// exists per (student, date); later writes overwrite status and teacher.
type Attendance struct {
	ID        int64
	StudentID int64
	TeacherID int64
	Date      time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Leave is a student leave request: pending until a teacher approves or
// rejects it. ApprovedBy is nulled if that teacher is removed.
type Leave struct {
	ID         int64
	StudentID  int64
	Date       time.Time
	Reason     string
	Status     string
	Approval   string
	ApprovedBy *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidLeaveDecision reports whether s is a terminal leave status.
func ValidLeaveDecision(s string) bool {
	return s == LeaveApproved || s == LeaveRejected
}

// ValidAttendanceStatus reports whether s is a recordable status.
func ValidAttendanceStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent
}
