package domain

import (
	"fmt"
	"time"
)

// Student represents one member of the campus library. Identity fields
// (institutional ID, email) are immutable once the record is created.
type Student struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	First     string    `json:"first"`
	Last      string    `json:"last"`
	TUPID     string    `json:"tup_id"`
	Email     string    `json:"email"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.First + " " + s.Last
}

// Display returns a human-readable identification line,
// e.g. `Ada Lovelace (TUPM-25-0042)`.
func (s *Student) Display() string {
	return fmt.Sprintf("%s %s (%s)", s.First, s.Last, s.TUPID)
}
