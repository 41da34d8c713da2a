// Package leave implements the leave-request workflow: students apply,
// teachers approve or reject.
package leave

import (
	"context"
	"strings"
	"time"

	"attendease/internal/domain"
	"attendease/internal/model"
)

const maxReasonLen = 500

// Request is a leave joined with the owning student, for review pages.
type Request struct {
	model.Leave
	RollNo      string
	StudentName string
}

// Breakdown partitions one student's requests by status, newest first within
// each partition.
type Breakdown struct {
	Pending  []model.Leave
	Approved []model.Leave
	Rejected []model.Leave
}

// Total is the number of requests across all partitions.
func (b Breakdown) Total() int {
	return len(b.Pending) + len(b.Approved) + len(b.Rejected)
}

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, l model.Leave) (model.Leave, error)
	ByID(ctx context.Context, id int64) (*model.Leave, error)
	Decide(ctx context.Context, id int64, status, approval string, teacherID int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]model.Leave, error)
	ListAll(ctx context.Context) ([]Request, error)
}

// Service coordinates applications and decisions.
type Service struct {
	store        Store
	lockTerminal bool
}

// NewService creates a service. When lockTerminal is set, approved and
// rejected requests refuse further decisions; otherwise a later decision
// overwrites the earlier one.
func NewService(store Store, lockTerminal bool) *Service {
	return &Service{store: store, lockTerminal: lockTerminal}
}

// Apply files a new request. It is always created pending regardless of any
// status a caller might try to smuggle in.
func (s *Service) Apply(ctx context.Context, studentID int64, dateStr, reason string) (model.Leave, error) {
	if dateStr == "" {
		return model.Leave{}, domain.Invalid("date", "please select a date")
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return model.Leave{}, domain.Invalid("date", "invalid date")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return model.Leave{}, domain.Invalid("reason", "reason is required")
	}
	if len(reason) > maxReasonLen {
		return model.Leave{}, domain.Invalid("reason", "reason must be 500 characters or fewer")
	}
	return s.store.Create(ctx, model.Leave{
		StudentID: studentID,
		Date:      date,
		Reason:    reason,
		Status:    model.LeavePending,
	})
}

// Decide applies a teacher's verdict. decision must be approved or rejected.
func (s *Service) Decide(ctx context.Context, teacherID, leaveID int64, decision, note string) (*model.Leave, error) {
	if !model.ValidLeaveDecision(decision) {
		return nil, domain.Invalid("status", "decision must be approved or rejected")
	}
	l, err := s.store.ByID(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &domain.NotFoundError{Entity: "leave", ID: leaveID}
	}
	if s.lockTerminal && l.Status != model.LeavePending {
		return nil, domain.Invalid("status", "request already decided")
	}
	note = strings.TrimSpace(note)
	if err := s.store.Decide(ctx, leaveID, decision, note, teacherID); err != nil {
		return nil, err
	}
	l.Status = decision
	l.Approval = note
	l.ApprovedBy = &teacherID
	return l, nil
}

// Request returns one leave for the approval page.
func (s *Service) Request(ctx context.Context, leaveID int64) (*model.Leave, error) {
	l, err := s.store.ByID(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &domain.NotFoundError{Entity: "leave", ID: leaveID}
	}
	return l, nil
}

// ForStudent returns a student's requests partitioned by status. The store
// already orders newest first, so each partition keeps that order.
func (s *Service) ForStudent(ctx context.Context, studentID int64) (Breakdown, error) {
	leaves, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return Breakdown{}, err
	}
	var b Breakdown
	for _, l := range leaves {
		switch l.Status {
		case model.LeaveApproved:
			b.Approved = append(b.Approved, l)
		case model.LeaveRejected:
			b.Rejected = append(b.Rejected, l)
		default:
			b.Pending = append(b.Pending, l)
		}
	}
	return b, nil
}

// All returns every request for the teacher review page.
func (s *Service) All(ctx context.Context) ([]Request, error) {
	return s.store.ListAll(ctx)
}
