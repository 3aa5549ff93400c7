// Package mail renders and delivers circulation notices.
package mail

import (
	"fmt"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
)

// dueDateLayout matches the long-form timestamps students see in notices,
// e.g. "January 02, 2026 at 03:04 PM".
const dueDateLayout = "January 02, 2006 at 03:04 PM"

// Message is a rendered plain-text email ready for a Transport.
type Message struct {
	To      string
	Subject string
	Body    string
}

const confirmationBody = `TUP Student Library
---------------------
Book has been borrowed!

Hi %s,

You have successfully borrowed: %s📖

⏱️
Due Date: %s
Duration: %d hours

Please return the book on %s to avoid overdue fees.

Thank you!
- TUP Student Library Group`

const reminderBody = `TUP Student Library
---------------------
Return Reminder.

Hi %s,

Your borrowed book (%s) is due soon.

Due in %s hours -> %s

Please return it in due time.

Thank you!
- TUP Student Library Group`

const overdueBody = `TUP Student Library
---------------------
OVERDUE BOOK!!

Hi %s,

Your borrowed book (%s) is now overdue.

You have failed to return the book on %s.

Please return it immediately.
Further action will be taken if book has not been properly returned.

Thank you!
- TUP Student Library Group`

// Confirmation renders the borrow confirmation sent right after a loan is
// created.
func Confirmation(student *domain.Student, book *domain.Book, borrow *domain.Borrow) Message {
	due := borrow.DueAt.Format(dueDateLayout)
	return Message{
		To:      student.Email,
		Subject: fmt.Sprintf("You borrowed: %s", book.Title),
		Body: fmt.Sprintf(confirmationBody,
			student.First, book.Title, due, borrow.DurationHours, due),
	}
}

// Reminder renders the return reminder for a loan approaching its due time.
// The hours-left figure is computed against now so the text matches what the
// sweep saw when it selected the loan.
func Reminder(student *domain.Student, book *domain.Book, borrow *domain.Borrow, now time.Time) Message {
	return Message{
		To:      student.Email,
		Subject: "Reminder to Return Book Soon!",
		Body: fmt.Sprintf(reminderBody,
			student.First, book.Title,
			fmt.Sprintf("%.1f", borrow.HoursLeft(now)),
			borrow.DueAt.Format(dueDateLayout)),
	}
}

// Overdue renders the overdue notice for a loan past its due time.
func Overdue(student *domain.Student, book *domain.Book, borrow *domain.Borrow) Message {
	return Message{
		To:      student.Email,
		Subject: "Overdue Notice.",
		Body: fmt.Sprintf(overdueBody,
			student.First, book.Title, borrow.DueAt.Format(dueDateLayout)),
	}
}
