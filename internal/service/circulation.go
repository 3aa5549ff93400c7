// Package service provides the business logic layer for circulation, catalog,
// membership, and notice dispatch.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	domainerrors "github.com/campuslib/campuslib-server/internal/errors"
	"github.com/campuslib/campuslib-server/internal/id"
	"github.com/campuslib/campuslib-server/internal/mail"
	"github.com/campuslib/campuslib-server/internal/store"
	"github.com/campuslib/campuslib-server/internal/util"
	"github.com/campuslib/campuslib-server/internal/validation"
)

const (
	ActionBorrow = "borrow"
	ActionReturn = "return"
)

// CirculationPolicy carries the configured limits applied to every request.
type CirculationPolicy struct {
	DailyBorrowLimit    int
	MaxActivePerStudent int
	LoanDurationHours   int
}

// ledgerPolicy projects the admission limits the loan ledger enforces.
func (p CirculationPolicy) ledgerPolicy() store.LoanPolicy {
	return store.LoanPolicy{
		DailyBorrowLimit:    p.DailyBorrowLimit,
		MaxActivePerStudent: p.MaxActivePerStudent,
	}
}

// CirculationService processes batch borrow/return requests against the loan
// ledger. It is the only writer path for borrow records.
type CirculationService struct {
	store     store.Store
	transport mail.Transport
	policy    CirculationPolicy
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCirculationService creates a new circulation service.
func NewCirculationService(store store.Store, transport mail.Transport, policy CirculationPolicy, logger *slog.Logger) *CirculationService {
	return &CirculationService{
		store:     store,
		transport: transport,
		policy:    policy,
		validator: validation.New(),
		logger:    logger,
	}
}

// CirculationRequest is one batch of borrow or return actions for a single
// student.
type CirculationRequest struct {
	Action  string  `json:"action" validate:"required,oneof=borrow return"`
	TUPID   string  `json:"tup_id" validate:"required"`
	BookIDs []int64 `json:"book_ids" validate:"required,min=1"`
}

// ItemResult is the structured verdict for one book id in a batch.
type ItemResult struct {
	BookID  int64  `json:"book_id"`
	OK      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// CirculationResult mirrors the input order: one human-readable line and one
// structured detail per book id.
type CirculationResult struct {
	Results []string     `json:"results"`
	Details []ItemResult `json:"details"`
}

// Process validates the request, resolves the student once, and runs every
// book id through the ledger. Item failures never abort the batch; every id
// gets a verdict in input order.
func (s *CirculationService) Process(ctx context.Context, req CirculationRequest) (*CirculationResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tupID, err := util.NormalizeTUPID(req.TUPID)
	if err != nil {
		return nil, domainerrors.Validationf("tup_id: %v", err)
	}

	result := &CirculationResult{
		Results: make([]string, 0, len(req.BookIDs)),
		Details: make([]ItemResult, 0, len(req.BookIDs)),
	}

	student, err := s.store.GetStudentByTUPID(ctx, tupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// An unknown student still gets a verdict per book id so the
			// batch envelope keeps its shape for mixed clients.
			for _, bookID := range req.BookIDs {
				item := ItemResult{
					BookID:  bookID,
					Code:    string(domainerrors.CodeNotFound),
					Message: fmt.Sprintf("❌ Book %d: student %s not found", bookID, tupID),
				}
				result.Results = append(result.Results, item.Message)
				result.Details = append(result.Details, item)
			}
			return result, nil
		}
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	for _, bookID := range req.BookIDs {
		var item ItemResult
		switch req.Action {
		case ActionBorrow:
			item = s.borrowOne(ctx, student, bookID)
		case ActionReturn:
			item = s.returnOne(ctx, student, bookID)
		}
		result.Results = append(result.Results, item.Message)
		result.Details = append(result.Details, item)
	}

	return result, nil
}

// borrowOne admits a single loan. Every occurrence of a book id is evaluated
// independently against the ledger's current state, so a duplicate id in one
// batch succeeds once and rejects after.
func (s *CirculationService) borrowOne(ctx context.Context, student *domain.Student, bookID int64) ItemResult {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return s.itemFailure(bookID, fmt.Sprintf("Book %d", bookID), err)
	}

	loanID, err := id.Generate("brw")
	if err != nil {
		return s.itemFailure(bookID, book.Title, err)
	}

	borrow := domain.NewBorrow(loanID, book.ID, student.ID, time.Now(), s.policy.LoanDurationHours)
	if err := s.store.CreateLoan(ctx, borrow, s.policy.ledgerPolicy()); err != nil {
		return s.itemFailure(bookID, book.Title, err)
	}

	s.logger.Info("loan created",
		"borrow_id", borrow.ID,
		"book_id", book.ID,
		"tup_id", student.TUPID,
		"due_at", borrow.DueAt,
	)

	s.sendConfirmation(ctx, student, book, borrow)

	return ItemResult{
		BookID: bookID,
		OK:     true,
		Message: fmt.Sprintf("✅ Borrowed: %s (due %s)",
			book.Title, borrow.DueAt.Format("Jan 2, 3:04 PM")),
	}
}

func (s *CirculationService) returnOne(ctx context.Context, student *domain.Student, bookID int64) ItemResult {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return s.itemFailure(bookID, fmt.Sprintf("Book %d", bookID), err)
	}

	borrow, err := s.store.ReturnLoan(ctx, book.ID, student.ID)
	if err != nil {
		return s.itemFailure(bookID, book.Title, err)
	}

	s.logger.Info("loan returned",
		"borrow_id", borrow.ID,
		"book_id", book.ID,
		"tup_id", student.TUPID,
	)

	return ItemResult{
		BookID:  bookID,
		OK:      true,
		Message: fmt.Sprintf("✅ Returned: %s", book.Title),
	}
}

// sendConfirmation fires the borrow confirmation. Delivery is not
// transactional with loan state: failures are logged and the loan stands.
func (s *CirculationService) sendConfirmation(ctx context.Context, student *domain.Student, book *domain.Book, borrow *domain.Borrow) {
	msg := mail.Confirmation(student, book, borrow)
	if err := s.transport.Send(ctx, msg); err != nil {
		s.logger.Error("confirmation email failed",
			"borrow_id", borrow.ID,
			"to", student.Email,
			"error", err,
		)
	}
}

// itemFailure maps a ledger error onto a glyph line and reason code. The
// already-done shapes (duplicate borrow, return with nothing active) get the
// warning glyph; hard rejections get the failure glyph.
func (s *CirculationService) itemFailure(bookID int64, title string, err error) ItemResult {
	item := ItemResult{BookID: bookID}
	switch {
	case errors.Is(err, store.ErrNotFound):
		item.Code = string(domainerrors.CodeNotFound)
		item.Message = fmt.Sprintf("❌ %s: not found", title)
	case errors.Is(err, store.ErrStudentLoanLimit):
		item.Code = string(domainerrors.CodeStudentLoanLimit)
		item.Message = fmt.Sprintf("❌ %s: you already have %d books out", title, s.policy.MaxActivePerStudent)
	case errors.Is(err, store.ErrDailyLimitReached):
		item.Code = string(domainerrors.CodeDailyLimitReached)
		item.Message = fmt.Sprintf("❌ %s: the library reached today's borrowing limit", title)
	case errors.Is(err, store.ErrNoCopiesAvailable):
		item.Code = string(domainerrors.CodeNoCopiesAvailable)
		item.Message = fmt.Sprintf("❌ %s: no copies available", title)
	case errors.Is(err, store.ErrAlreadyBorrowed):
		item.Code = string(domainerrors.CodeAlreadyBorrowed)
		item.Message = fmt.Sprintf("⚠️ %s: you already borrowed this book", title)
	case errors.Is(err, store.ErrNothingToReturn):
		item.Code = string(domainerrors.CodeNothingToReturn)
		item.Message = fmt.Sprintf("⚠️ %s: no active loan to return", title)
	default:
		s.logger.Error("circulation item failed", "book_id", bookID, "error", err)
		item.Code = string(domainerrors.CodeInternal)
		item.Message = fmt.Sprintf("❌ %s: could not process this item", title)
	}
	return item
}
