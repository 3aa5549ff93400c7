package domain

import (
	"testing"
	"time"
)

func TestNewBorrow_DueAt(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	b := NewBorrow("brw-1", 1, 1, start, 24)
	if got, want := b.DueAt, start.Add(24*time.Hour); !got.Equal(want) {
		t.Errorf("DueAt: got %v, want %v", got, want)
	}
	if b.DurationHours != 24 {
		t.Errorf("DurationHours: got %d, want 24", b.DurationHours)
	}
}

func TestNewBorrow_ClampsDurationToOneHour(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	for _, hours := range []int{0, -5} {
		b := NewBorrow("brw-1", 1, 1, start, hours)
		if b.DurationHours != 1 {
			t.Errorf("duration %d: got %d, want 1", hours, b.DurationHours)
		}
		if got, want := b.DueAt, start.Add(time.Hour); !got.Equal(want) {
			t.Errorf("duration %d: DueAt got %v, want %v", hours, got, want)
		}
	}
}

func TestBorrow_Status(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueAt    time.Time
		returned bool
		want     string
	}{
		{"returned", now.Add(-time.Hour), true, StatusReturned},
		{"overdue", now.Add(-time.Hour), false, StatusOverdue},
		{"due in 2.5h", now.Add(150 * time.Minute), false, "2.5h left"},
		{"due in 24h", now.Add(24 * time.Hour), false, "24.0h left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Borrow{DueAt: tt.dueAt, Returned: tt.returned}
			if got := b.Status(now); got != tt.want {
				t.Errorf("Status: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBorrow_InReminderWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueAt    time.Time
		returned bool
		want     bool
	}{
		{"due in 4h", now.Add(4 * time.Hour), false, true},
		{"due in 3h", now.Add(3 * time.Hour), false, true},
		{"due in 6h", now.Add(6 * time.Hour), false, true},
		{"due in 2h, too close", now.Add(2 * time.Hour), false, false},
		{"due in 7h, too early", now.Add(7 * time.Hour), false, false},
		{"overdue", now.Add(-time.Hour), false, false},
		{"already returned", now.Add(4 * time.Hour), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Borrow{DueAt: tt.dueAt, Returned: tt.returned}
			if got := b.InReminderWindow(now); got != tt.want {
				t.Errorf("InReminderWindow: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBorrow_Overdue(t *testing.T) {
	now := time.Now()

	overdue := &Borrow{DueAt: now.Add(-time.Minute)}
	if !overdue.Overdue(now) {
		t.Error("expected overdue")
	}

	returned := &Borrow{DueAt: now.Add(-time.Minute), Returned: true}
	if returned.Overdue(now) {
		t.Error("returned loan should never be overdue")
	}

	current := &Borrow{DueAt: now.Add(time.Minute)}
	if current.Overdue(now) {
		t.Error("loan due in the future should not be overdue")
	}
}

func TestBook_AvailableCopies(t *testing.T) {
	b := &Book{Quantity: 3}

	if got := b.AvailableCopies(1); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	if got := b.AvailableCopies(3); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	// Quantity can be lowered below the number of copies in circulation.
	if got := b.AvailableCopies(5); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestBook_Display(t *testing.T) {
	b := &Book{
		Title:           "The Go Programming Language",
		Authors:         []string{"Alan Donovan", "Brian Kernighan"},
		PublicationYear: 2015,
	}
	want := "The Go Programming Language by Alan Donovan, Brian Kernighan (2015)"
	if got := b.Display(); got != want {
		t.Errorf("Display: got %q, want %q", got, want)
	}
}
