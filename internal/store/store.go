// Package store defines the persistence contracts for the campus library:
// the catalog (books), the membership roll (students), and the loan ledger
// (borrow records). Implementations live in subpackages; internal/store/sqlite
// is the production one.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
)

// Sentinel errors returned by store implementations. The five ledger errors
// map 1:1 onto the circulation reason codes surfaced per request item.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	ErrStudentLoanLimit  = errors.New("student loan limit reached")
	ErrDailyLimitReached = errors.New("daily borrowing limit reached")
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrAlreadyBorrowed   = errors.New("book already borrowed by student")
	ErrNothingToReturn   = errors.New("no active loan to return")
)

// LoanPolicy carries the circulation limits the ledger enforces at admission
// time. Values come from configuration, never from data.
type LoanPolicy struct {
	// DailyBorrowLimit caps distinct students starting a loan per calendar
	// day. One student borrowing three books in a day counts once.
	DailyBorrowLimit int
	// MaxActivePerStudent caps concurrently active loans per student.
	MaxActivePerStudent int
}

// Catalog holds Book records and per-book copy counts.
type Catalog interface {
	// CreateBook inserts a book and assigns its ID.
	CreateBook(ctx context.Context, book *domain.Book) error
	// GetBook retrieves a book by ID. Returns ErrNotFound if absent.
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	// ListBooks returns the whole catalog ordered by title.
	ListBooks(ctx context.Context) ([]*domain.Book, error)
}

// Membership holds Student records. Identity fields are immutable once
// created, so there is no update operation.
type Membership interface {
	// CreateStudent inserts a student and assigns its ID. Returns
	// ErrAlreadyExists if the tup_id or email is taken.
	CreateStudent(ctx context.Context, student *domain.Student) error
	// GetStudent retrieves a student by ID. Returns ErrNotFound if absent.
	GetStudent(ctx context.Context, id int64) (*domain.Student, error)
	// GetStudentByTUPID retrieves a student by institutional ID.
	GetStudentByTUPID(ctx context.Context, tupID string) (*domain.Student, error)
	// ListStudents returns all students ordered by last name.
	ListStudents(ctx context.Context) ([]*domain.Student, error)
}

// LoanLedger owns the Borrow lifecycle. Records are created by CreateLoan,
// flipped to returned exactly once by ReturnLoan, and never deleted.
type LoanLedger interface {
	// CreateLoan persists borrow after evaluating all admission predicates.
	// The checks and the insert happen inside one atomic unit so concurrent
	// requests cannot both be admitted past the same limit. Rejections are
	// reported as ErrStudentLoanLimit, ErrDailyLimitReached,
	// ErrNoCopiesAvailable, or ErrAlreadyBorrowed.
	CreateLoan(ctx context.Context, borrow *domain.Borrow, policy LoanPolicy) error
	// ReturnLoan marks the single active loan for (book, student) as
	// returned. Returns ErrNothingToReturn if no active loan exists.
	ReturnLoan(ctx context.Context, bookID, studentID int64) (*domain.Borrow, error)

	// Read-only aggregates.
	ActiveLoanCountForBook(ctx context.Context, bookID int64) (int, error)
	ActiveLoanCountForStudent(ctx context.Context, studentID int64) (int, error)
	// TodayDistinctBorrowers counts distinct students who started a loan on
	// the calendar day containing now (server-local midnight boundaries).
	TodayDistinctBorrowers(ctx context.Context, now time.Time) (int, error)

	// Read contract consumed by presentation collaborators.
	ActiveLoans(ctx context.Context) ([]*domain.Borrow, error)
	OverdueLoans(ctx context.Context, now time.Time) ([]*domain.Borrow, error)
	ActiveLoansForBook(ctx context.Context, bookID int64) ([]*domain.Borrow, error)
	ActiveLoansDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Borrow, error)
	LoansForStudent(ctx context.Context, studentID int64) ([]*domain.Borrow, error)
}

// Store is the full persistence surface.
type Store interface {
	Catalog
	Membership
	LoanLedger

	Close() error
}
