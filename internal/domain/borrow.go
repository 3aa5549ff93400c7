package domain

import (
	"fmt"
	"time"
)

// Loan status strings as surfaced on book pages, student history, and the
// admin dashboard.
const (
	StatusReturned = "Returned"
	StatusOverdue  = "Overdue"
)

// Reminder window bounds in hours before the due time. A return reminder is
// only worth sending when the deadline is close but not yet missed.
const (
	ReminderWindowMinHours = 3
	ReminderWindowMaxHours = 6
)

// Borrow is one loan-ledger record: a single physical copy of a book in the
// hands of a single student. Records are never deleted; a successful return
// flips Returned exactly once.
type Borrow struct {
	ID            string    `json:"id"`
	BookID        int64     `json:"book_id"`
	StudentID     int64     `json:"student_id"`
	BorrowedAt    time.Time `json:"borrowed_at"`
	DueAt         time.Time `json:"due_at"`
	DurationHours int       `json:"duration_hours"`
	Returned      bool      `json:"returned"`
}

// NewBorrow creates a loan record starting at borrowedAt. Durations below
// one hour are clamped to one hour; DueAt is always exactly
// borrowedAt + duration.
func NewBorrow(id string, bookID, studentID int64, borrowedAt time.Time, durationHours int) *Borrow {
	if durationHours < 1 {
		durationHours = 1
	}
	return &Borrow{
		ID:            id,
		BookID:        bookID,
		StudentID:     studentID,
		BorrowedAt:    borrowedAt,
		DueAt:         borrowedAt.Add(time.Duration(durationHours) * time.Hour),
		DurationHours: durationHours,
	}
}

// HoursLeft returns the signed number of hours until the due time.
// Negative once the loan is overdue.
func (b *Borrow) HoursLeft(now time.Time) float64 {
	return b.DueAt.Sub(now).Hours()
}

// Overdue reports whether the loan is past due and still out.
func (b *Borrow) Overdue(now time.Time) bool {
	return !b.Returned && b.DueAt.Before(now)
}

// InReminderWindow reports whether a return reminder should fire: the loan is
// still out and due in 3 to 6 hours.
func (b *Borrow) InReminderWindow(now time.Time) bool {
	if b.Returned {
		return false
	}
	left := b.HoursLeft(now)
	return left >= ReminderWindowMinHours && left <= ReminderWindowMaxHours
}

// Status derives the display status purely from now, the due time, and the
// returned flag: "Returned", "Overdue", or "<hours>h left" with one decimal.
func (b *Borrow) Status(now time.Time) string {
	if b.Returned {
		return StatusReturned
	}
	if b.DueAt.Before(now) {
		return StatusOverdue
	}
	return fmt.Sprintf("%.1fh left", b.HoursLeft(now))
}
