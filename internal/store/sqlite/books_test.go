package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/store"
)

// makeTestBook creates a domain.Book with sensible defaults for testing.
func makeTestBook(title string, quantity int) *domain.Book {
	b := &domain.Book{
		Title:           title,
		Authors:         []string{"Test Author"},
		Subjects:        []string{"Testing"},
		PublicationYear: 2020,
		Quantity:        quantity,
	}
	b.InitTimestamps()
	return b
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := &domain.Book{
		Title:           "Introduction to Algorithms",
		Authors:         []string{"Cormen", "Leiserson", "Rivest", "Stein"},
		Subjects:        []string{"Computer Science", "Mathematics"},
		PublicationYear: 2009,
		Description:     "The standard algorithms text.",
		CoverImage:      "clrs.png",
		Quantity:        4,
	}
	book.InitTimestamps()

	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if book.ID == 0 {
		t.Fatal("CreateBook did not assign an ID")
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}

	if got.Title != book.Title {
		t.Errorf("Title: got %q, want %q", got.Title, book.Title)
	}
	if got.PublicationYear != 2009 {
		t.Errorf("PublicationYear: got %d, want 2009", got.PublicationYear)
	}
	if got.Description != book.Description {
		t.Errorf("Description: got %q, want %q", got.Description, book.Description)
	}
	if got.CoverImage != "clrs.png" {
		t.Errorf("CoverImage: got %q, want %q", got.CoverImage, "clrs.png")
	}
	if got.Quantity != 4 {
		t.Errorf("Quantity: got %d, want 4", got.Quantity)
	}
	if len(got.Authors) != 4 || got.Authors[0] != "Cormen" || got.Authors[3] != "Stein" {
		t.Errorf("Authors: got %v, want ordered %v", got.Authors, book.Authors)
	}
	if len(got.Subjects) != 2 || got.Subjects[0] != "Computer Science" {
		t.Errorf("Subjects: got %v, want %v", got.Subjects, book.Subjects)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), 9999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBook_SharedAuthors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := makeTestBook("Book One", 1)
	first.Authors = []string{"Shared Author"}
	second := makeTestBook("Book Two", 1)
	second.Authors = []string{"Shared Author"}

	if err := s.CreateBook(ctx, first); err != nil {
		t.Fatalf("CreateBook first: %v", err)
	}
	if err := s.CreateBook(ctx, second); err != nil {
		t.Fatalf("CreateBook second: %v", err)
	}

	// Both books link to the same author row.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM authors WHERE name = 'Shared Author'").Scan(&count); err != nil {
		t.Fatalf("count authors: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one author row, got %d", count)
	}
}

func TestListBooks_OrderedByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"Zebra Stripes", "Aardvark Habits", "Middle March"} {
		if err := s.CreateBook(ctx, makeTestBook(title, 1)); err != nil {
			t.Fatalf("CreateBook %q: %v", title, err)
		}
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("expected 3 books, got %d", len(books))
	}
	if books[0].Title != "Aardvark Habits" || books[2].Title != "Zebra Stripes" {
		t.Errorf("unexpected order: %q, %q, %q", books[0].Title, books[1].Title, books[2].Title)
	}
}

func TestBookTimestampsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := makeTestBook("Timestamps", 1)
	created := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	book.CreatedAt = created
	book.UpdatedAt = created

	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, created)
	}
}
