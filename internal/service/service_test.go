package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/id"
	"github.com/campuslib/campuslib-server/internal/mail"
	"github.com/campuslib/campuslib-server/internal/store/sqlite"
)

var testCirculationPolicy = CirculationPolicy{
	DailyBorrowLimit:    100,
	MaxActivePerStudent: 3,
	LoanDurationHours:   24,
}

// fakeTransport records every message instead of delivering it.
type fakeTransport struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (f *fakeTransport) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("transport down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeTransport) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func seedBook(t *testing.T, s *sqlite.Store, title string, quantity int) *domain.Book {
	t.Helper()
	book := &domain.Book{
		Title:           title,
		Authors:         []string{"Test Author"},
		PublicationYear: 2020,
		Quantity:        quantity,
	}
	book.InitTimestamps()
	if err := s.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return book
}

func seedStudent(t *testing.T, s *sqlite.Store, tupID string) *domain.Student {
	t.Helper()
	student := &domain.Student{
		CreatedAt: time.Now(),
		First:     "Juan",
		Last:      "Dela Cruz",
		TUPID:     tupID,
		Email:     tupID + "@example.edu",
	}
	if err := s.CreateStudent(context.Background(), student); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return student
}

// seedLoanDue inserts an active loan with a fixed due time, bypassing the
// engine so sweeps can be tested against arbitrary clocks.
func seedLoanDue(t *testing.T, s *sqlite.Store, book *domain.Book, student *domain.Student, dueAt time.Time) *domain.Borrow {
	t.Helper()
	loan := domain.NewBorrow(id.MustGenerate("brw"), book.ID, student.ID, dueAt.Add(-24*time.Hour), 24)
	loan.DueAt = dueAt
	err := s.CreateLoan(context.Background(), loan, testCirculationPolicy.ledgerPolicy())
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return loan
}
