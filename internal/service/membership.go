package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	domainerrors "github.com/campuslib/campuslib-server/internal/errors"
	"github.com/campuslib/campuslib-server/internal/store"
	"github.com/campuslib/campuslib-server/internal/util"
	"github.com/campuslib/campuslib-server/internal/validation"
)

// MembershipService serves student creation and borrowing history.
type MembershipService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewMembershipService creates a new membership service.
func NewMembershipService(store store.Store, logger *slog.Logger) *MembershipService {
	return &MembershipService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// CreateStudentRequest carries the admin student creation payload.
type CreateStudentRequest struct {
	First string `json:"first" validate:"required,max=64"`
	Last  string `json:"last" validate:"required,max=64"`
	TUPID string `json:"tup_id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// CreateStudent validates and inserts a membership record. The TUP ID is
// normalized before storage so lookups can rely on the canonical form.
func (s *MembershipService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*domain.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tupID, err := util.NormalizeTUPID(req.TUPID)
	if err != nil {
		return nil, domainerrors.Validationf("tup_id: %v", err)
	}

	student := &domain.Student{
		CreatedAt: time.Now(),
		First:     req.First,
		Last:      req.Last,
		TUPID:     tupID,
		Email:     req.Email,
	}

	if err := s.store.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("student with that TUP ID or email already exists")
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info("student created", "student_id", student.ID, "tup_id", student.TUPID)
	return student, nil
}

// HistoryEntry is one loan in a student's borrowing history.
type HistoryEntry struct {
	BookTitle     string    `json:"book_title"`
	BorrowedDate  time.Time `json:"borrowed_date"`
	DueDate       time.Time `json:"due_date"`
	DurationHours int       `json:"duration_hours"`
	Status        string    `json:"status"`
}

// StudentHistory returns every loan of a student, newest first, with a
// derived status string per entry.
func (s *MembershipService) StudentHistory(ctx context.Context, rawTUPID string) ([]HistoryEntry, error) {
	tupID, err := util.NormalizeTUPID(rawTUPID)
	if err != nil {
		return nil, domainerrors.Validationf("tup_id: %v", err)
	}

	student, err := s.store.GetStudentByTUPID(ctx, tupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("student %s not found", tupID)
		}
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	loans, err := s.store.LoansForStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("loans for student: %w", err)
	}

	now := time.Now()
	entries := make([]HistoryEntry, 0, len(loans))
	for _, loan := range loans {
		book, err := s.store.GetBook(ctx, loan.BookID)
		if err != nil {
			return nil, fmt.Errorf("resolve book %d: %w", loan.BookID, err)
		}
		entries = append(entries, HistoryEntry{
			BookTitle:     book.Title,
			BorrowedDate:  loan.BorrowedAt,
			DueDate:       loan.DueAt,
			DurationHours: loan.DurationHours,
			Status:        loan.Status(now),
		})
	}
	return entries, nil
}
