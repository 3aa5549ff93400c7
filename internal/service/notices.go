package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/mail"
	"github.com/campuslib/campuslib-server/internal/store"
)

// NoticeService runs the reminder and overdue email sweeps. Sweeps are
// triggered by admin endpoints, not background loops, so a failed run can
// simply be retried.
type NoticeService struct {
	store     store.Store
	transport mail.Transport
	logger    *slog.Logger
}

// NewNoticeService creates a new notice service.
func NewNoticeService(store store.Store, transport mail.Transport, logger *slog.Logger) *NoticeService {
	return &NoticeService{
		store:     store,
		transport: transport,
		logger:    logger,
	}
}

// SweepResult counts what one sweep did. Failed sends are logged and counted,
// never propagated.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// SendReminders emails every student whose active loan falls due within the
// reminder window, 3 to 6 hours from now.
func (s *NoticeService) SendReminders(ctx context.Context) (*SweepResult, error) {
	now := time.Now()
	from := now.Add(domain.ReminderWindowMinHours * time.Hour)
	to := now.Add(domain.ReminderWindowMaxHours * time.Hour)

	loans, err := s.store.ActiveLoansDueBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loans in reminder window: %w", err)
	}

	result := &SweepResult{Scanned: len(loans)}
	for _, loan := range loans {
		// The query window already bounds due times; re-check against the
		// loan itself so a record on the edge never fires out of window.
		if !loan.InReminderWindow(now) {
			continue
		}
		s.dispatch(ctx, loan, result, func(student *domain.Student, book *domain.Book) mail.Message {
			return mail.Reminder(student, book, loan, now)
		})
	}

	s.logger.Info("reminder sweep finished",
		"scanned", result.Scanned, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// SendOverdueNotices emails every student holding a loan past its due time.
func (s *NoticeService) SendOverdueNotices(ctx context.Context) (*SweepResult, error) {
	now := time.Now()

	loans, err := s.store.OverdueLoans(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("overdue loans: %w", err)
	}

	result := &SweepResult{Scanned: len(loans)}
	for _, loan := range loans {
		s.dispatch(ctx, loan, result, func(student *domain.Student, book *domain.Book) mail.Message {
			return mail.Overdue(student, book, loan)
		})
	}

	s.logger.Info("overdue sweep finished",
		"scanned", result.Scanned, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// dispatch resolves the loan's student and book, renders the message, and
// sends it. Any failure counts against the sweep and processing continues.
func (s *NoticeService) dispatch(ctx context.Context, loan *domain.Borrow, result *SweepResult, render func(*domain.Student, *domain.Book) mail.Message) {
	student, err := s.store.GetStudent(ctx, loan.StudentID)
	if err != nil {
		s.logger.Error("notice skipped, cannot resolve student",
			"borrow_id", loan.ID, "student_id", loan.StudentID, "error", err)
		result.Failed++
		return
	}
	book, err := s.store.GetBook(ctx, loan.BookID)
	if err != nil {
		s.logger.Error("notice skipped, cannot resolve book",
			"borrow_id", loan.ID, "book_id", loan.BookID, "error", err)
		result.Failed++
		return
	}

	if err := s.transport.Send(ctx, render(student, book)); err != nil {
		s.logger.Error("notice send failed",
			"borrow_id", loan.ID, "to", student.Email, "error", err)
		result.Failed++
		return
	}
	result.Sent++
}
