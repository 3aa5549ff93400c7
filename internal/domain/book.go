// Package domain contains the core business entities for the campus library:
// the catalog (books, authors, subjects), the membership roll (students), and
// the loan ledger (borrow records).
package domain

import (
	"strconv"
	"strings"
	"time"
)

// Book represents one title in the catalog. Quantity is the number of
// physical copies the library owns; availability is derived from the ledger,
// never stored.
type Book struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `json:"title"`
	Authors         []string  `json:"authors"`
	Subjects        []string  `json:"subjects,omitempty"`
	PublicationYear int       `json:"publication_year"`
	Description     string    `json:"description,omitempty"`
	CoverImage      string    `json:"cover_image,omitempty"`
	CoverURL        string    `json:"cover_url,omitempty"`
	Quantity        int       `json:"quantity"`
}

// InitTimestamps sets creation and update times to now.
func (b *Book) InitTimestamps() {
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Display returns a human-readable one-line description of the book,
// e.g. `The Go Programming Language by Donovan, Kernighan (2015)`.
func (b *Book) Display() string {
	var sb strings.Builder
	sb.WriteString(b.Title)
	if len(b.Authors) > 0 {
		sb.WriteString(" by ")
		sb.WriteString(strings.Join(b.Authors, ", "))
	}
	if b.PublicationYear != 0 {
		sb.WriteString(" (")
		sb.WriteString(strconv.Itoa(b.PublicationYear))
		sb.WriteString(")")
	}
	return sb.String()
}

// AvailableCopies returns how many copies remain on the shelf given the
// number of active loans. Never negative.
func (b *Book) AvailableCopies(activeLoans int) int {
	available := b.Quantity - activeLoans
	if available < 0 {
		return 0
	}
	return available
}
