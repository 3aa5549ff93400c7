package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/store"
)

// borrowColumns is the ordered list of columns selected in loan queries.
// Must match the scan order in scanBorrow.
const borrowColumns = `id, book_id, student_id, borrowed_at, due_at, duration_hours, returned`

// scanBorrow scans a sql.Row (or sql.Rows via its Scan method) into a domain.Borrow.
func scanBorrow(scanner interface{ Scan(dest ...any) error }) (*domain.Borrow, error) {
	var b domain.Borrow

	var (
		borrowedAt string
		dueAt      string
		returned   int
	)

	err := scanner.Scan(
		&b.ID,
		&b.BookID,
		&b.StudentID,
		&borrowedAt,
		&dueAt,
		&b.DurationHours,
		&returned,
	)
	if err != nil {
		return nil, err
	}

	b.BorrowedAt, err = parseTime(borrowedAt)
	if err != nil {
		return nil, err
	}
	b.DueAt, err = parseTime(dueAt)
	if err != nil {
		return nil, err
	}
	b.Returned = returned != 0

	return &b, nil
}

// CreateLoan evaluates every admission predicate and inserts the loan record
// inside a single write transaction. The store opens with _txlock=immediate,
// so the transaction holds the write lock from the first statement: two
// concurrent borrow requests cannot both read a count below a limit and both
// insert past it.
//
// Predicates run in the order the rejection reasons are defined: student
// active-loan cap, daily distinct-borrower cap, per-book copy availability,
// duplicate active loan.
func (s *Store) CreateLoan(ctx context.Context, borrow *domain.Borrow, policy store.LoanPolicy) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var quantity int
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM books WHERE id = ?`, borrow.BookID).Scan(&quantity)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}

	var studentActive int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows WHERE student_id = ? AND returned = 0`,
		borrow.StudentID).Scan(&studentActive)
	if err != nil {
		return err
	}
	if studentActive >= policy.MaxActivePerStudent {
		return store.ErrStudentLoanLimit
	}

	// Distinct borrowers, not distinct loans: a student starting a third
	// loan today still counts once against the daily cap.
	dayStart, dayEnd := dayBounds(borrow.BorrowedAt)
	var borrowersToday int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT student_id) FROM borrows
		WHERE borrowed_at >= ? AND borrowed_at < ?`,
		formatTime(dayStart), formatTime(dayEnd)).Scan(&borrowersToday)
	if err != nil {
		return err
	}
	if borrowersToday >= policy.DailyBorrowLimit {
		return store.ErrDailyLimitReached
	}

	var bookActive int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows WHERE book_id = ? AND returned = 0`,
		borrow.BookID).Scan(&bookActive)
	if err != nil {
		return err
	}
	if bookActive >= quantity {
		return store.ErrNoCopiesAvailable
	}

	var duplicate int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM borrows
		WHERE book_id = ? AND student_id = ? AND returned = 0`,
		borrow.BookID, borrow.StudentID).Scan(&duplicate)
	if err != nil {
		return err
	}
	if duplicate > 0 {
		return store.ErrAlreadyBorrowed
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO borrows (id, book_id, student_id, borrowed_at, due_at, duration_hours, returned)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		borrow.ID,
		borrow.BookID,
		borrow.StudentID,
		formatTime(borrow.BorrowedAt),
		formatTime(borrow.DueAt),
		borrow.DurationHours,
		boolToInt(borrow.Returned),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ReturnLoan marks the single active loan for (book, student) as returned and
// returns the updated record. Returns store.ErrNothingToReturn if no active
// loan exists for the pair.
func (s *Store) ReturnLoan(ctx context.Context, bookID, studentID int64) (*domain.Borrow, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+borrowColumns+` FROM borrows
		WHERE book_id = ? AND student_id = ? AND returned = 0
		ORDER BY borrowed_at LIMIT 1`,
		bookID, studentID)

	borrow, err := scanBorrow(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNothingToReturn
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE borrows SET returned = 1 WHERE id = ?`, borrow.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	borrow.Returned = true
	return borrow, nil
}

// ActiveLoanCountForBook returns how many copies of a book are in circulation.
func (s *Store) ActiveLoanCountForBook(ctx context.Context, bookID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows WHERE book_id = ? AND returned = 0`,
		bookID).Scan(&count)
	return count, err
}

// ActiveLoanCountForStudent returns how many loans a student currently holds.
func (s *Store) ActiveLoanCountForStudent(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows WHERE student_id = ? AND returned = 0`,
		studentID).Scan(&count)
	return count, err
}

// TodayDistinctBorrowers counts distinct students who started a loan on the
// calendar day containing now.
func (s *Store) TodayDistinctBorrowers(ctx context.Context, now time.Time) (int, error) {
	dayStart, dayEnd := dayBounds(now)

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT student_id) FROM borrows
		WHERE borrowed_at >= ? AND borrowed_at < ?`,
		formatTime(dayStart), formatTime(dayEnd)).Scan(&count)
	return count, err
}

// ActiveLoans returns all unreturned loans ordered by due date ascending.
func (s *Store) ActiveLoans(ctx context.Context) ([]*domain.Borrow, error) {
	return s.queryBorrows(ctx,
		`SELECT `+borrowColumns+` FROM borrows WHERE returned = 0 ORDER BY due_at`)
}

// OverdueLoans returns unreturned loans past their due time, ordered by due
// date ascending.
func (s *Store) OverdueLoans(ctx context.Context, now time.Time) ([]*domain.Borrow, error) {
	return s.queryBorrows(ctx, `
		SELECT `+borrowColumns+` FROM borrows
		WHERE returned = 0 AND due_at < ? ORDER BY due_at`,
		formatTime(now))
}

// ActiveLoansForBook returns the unreturned loans for one book.
func (s *Store) ActiveLoansForBook(ctx context.Context, bookID int64) ([]*domain.Borrow, error) {
	return s.queryBorrows(ctx, `
		SELECT `+borrowColumns+` FROM borrows
		WHERE book_id = ? AND returned = 0 ORDER BY borrowed_at`,
		bookID)
}

// ActiveLoansDueBetween returns unreturned loans with a due time in
// [from, to], ordered by due date ascending. Used by the reminder sweep.
func (s *Store) ActiveLoansDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Borrow, error) {
	return s.queryBorrows(ctx, `
		SELECT `+borrowColumns+` FROM borrows
		WHERE returned = 0 AND due_at >= ? AND due_at <= ? ORDER BY due_at`,
		formatTime(from), formatTime(to))
}

// LoansForStudent returns a student's full loan history, newest first.
func (s *Store) LoansForStudent(ctx context.Context, studentID int64) ([]*domain.Borrow, error) {
	return s.queryBorrows(ctx, `
		SELECT `+borrowColumns+` FROM borrows
		WHERE student_id = ? ORDER BY borrowed_at DESC`,
		studentID)
}

func (s *Store) queryBorrows(ctx context.Context, query string, args ...any) ([]*domain.Borrow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var borrows []*domain.Borrow
	for rows.Next() {
		borrow, err := scanBorrow(rows)
		if err != nil {
			return nil, err
		}
		borrows = append(borrows, borrow)
	}
	return borrows, rows.Err()
}
