// Package main provides a tool to seed the database with a sample catalog
// and membership roll for local development.
//
// Usage:
//
//	DATABASE_PATH=~/CampusLibrary/library.db go run ./cmd/seed
//	go run ./cmd/seed --with-loans  # Also create a few active loans
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/id"
	"github.com/campuslib/campuslib-server/internal/store"
	"github.com/campuslib/campuslib-server/internal/store/sqlite"
)

var withLoans = flag.Bool("with-loans", false, "Create a few active loans for dashboard testing")

func main() {
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/CampusLibrary/library.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	books := seedBooks(ctx, s)
	students := seedStudents(ctx, s)

	if *withLoans {
		seedLoans(ctx, s, books, students)
	}

	fmt.Println("Done.")
}

func seedBooks(ctx context.Context, s *sqlite.Store) []*domain.Book {
	samples := []*domain.Book{
		{
			Title:           "Noli Me Tangere",
			Authors:         []string{"Jose Rizal"},
			Subjects:        []string{"Fiction", "History"},
			PublicationYear: 1887,
			Description:     "Rizal's first novel.",
			Quantity:        3,
		},
		{
			Title:           "El Filibusterismo",
			Authors:         []string{"Jose Rizal"},
			Subjects:        []string{"Fiction", "History"},
			PublicationYear: 1891,
			Quantity:        2,
		},
		{
			Title:           "The Go Programming Language",
			Authors:         []string{"Alan A. A. Donovan", "Brian W. Kernighan"},
			Subjects:        []string{"Computing"},
			PublicationYear: 2015,
			Quantity:        5,
		},
		{
			Title:           "Calculus: Early Transcendentals",
			Authors:         []string{"James Stewart"},
			Subjects:        []string{"Mathematics"},
			PublicationYear: 2015,
			Quantity:        4,
		},
	}

	var created []*domain.Book
	for _, book := range samples {
		book.InitTimestamps()
		if err := s.CreateBook(ctx, book); err != nil {
			log.Printf("Skipping %q: %v", book.Title, err)
			continue
		}
		fmt.Printf("Created book %d: %s\n", book.ID, book.Title)
		created = append(created, book)
	}
	return created
}

func seedStudents(ctx context.Context, s *sqlite.Store) []*domain.Student {
	samples := []*domain.Student{
		{First: "Juan", Last: "Dela Cruz", TUPID: "TUPM-24-0101", Email: "juan.delacruz@example.edu"},
		{First: "Maria", Last: "Santos", TUPID: "TUPM-25-0417", Email: "maria.santos@example.edu"},
		{First: "Jose", Last: "Reyes", TUPID: "TUPM-25-1203", Email: "jose.reyes@example.edu"},
	}

	var created []*domain.Student
	for _, student := range samples {
		student.CreatedAt = time.Now()
		if err := s.CreateStudent(ctx, student); err != nil {
			log.Printf("Skipping %s: %v", student.TUPID, err)
			continue
		}
		fmt.Printf("Created student %s (%s)\n", student.TUPID, student.FullName())
		created = append(created, student)
	}
	return created
}

func seedLoans(ctx context.Context, s *sqlite.Store, books []*domain.Book, students []*domain.Student) {
	if len(books) == 0 || len(students) == 0 {
		log.Println("Nothing to lend: no books or students created")
		return
	}

	policy := store.LoanPolicy{DailyBorrowLimit: 100, MaxActivePerStudent: 3}

	for i, student := range students {
		book := books[i%len(books)]
		loan := domain.NewBorrow(id.MustGenerate("brw"), book.ID, student.ID, time.Now(), 24)
		if err := s.CreateLoan(ctx, loan, policy); err != nil {
			log.Printf("Loan for %s skipped: %v", student.TUPID, err)
			continue
		}
		fmt.Printf("Lent %q to %s, due %s\n", book.Title, student.TUPID, loan.DueAt.Format(time.RFC822))
	}
}
