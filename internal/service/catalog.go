package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuslib/campuslib-server/internal/domain"
	domainerrors "github.com/campuslib/campuslib-server/internal/errors"
	"github.com/campuslib/campuslib-server/internal/store"
	"github.com/campuslib/campuslib-server/internal/validation"
)

// Shelf status strings shown next to a book.
const (
	ShelfAvailable = "Available"
	ShelfBorrowed  = "Borrowed"
)

// CatalogService serves book reads and admin book creation.
type CatalogService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// BookSummary is the list-view shape.
type BookSummary struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CoverImage string `json:"cover_image,omitempty"`
	Status     string `json:"status"`
}

// CurrentBorrow describes one active loan of a book.
type CurrentBorrow struct {
	Borrower     string    `json:"borrower"`
	BorrowedDate time.Time `json:"borrowed_date"`
	DueDate      time.Time `json:"due_date"`
	Status       string    `json:"status"`
}

// BookDetails is the detail-view shape.
type BookDetails struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Authors         []string        `json:"author"`
	PublicationYear int             `json:"publication_year"`
	Subjects        []string        `json:"subject"`
	Description     string          `json:"description,omitempty"`
	CoverImage      string          `json:"cover_image,omitempty"`
	Quantity        int             `json:"quantity"`
	Available       int             `json:"available"`
	Status          string          `json:"status"`
	CurrentBorrows  []CurrentBorrow `json:"current_borrow"`
}

// ListBooks returns the whole catalog with a shelf status per book.
func (s *CatalogService) ListBooks(ctx context.Context) ([]BookSummary, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	summaries := make([]BookSummary, 0, len(books))
	for _, book := range books {
		active, err := s.store.ActiveLoanCountForBook(ctx, book.ID)
		if err != nil {
			return nil, fmt.Errorf("active loans for book %d: %w", book.ID, err)
		}
		summaries = append(summaries, BookSummary{
			ID:         book.ID,
			Title:      book.Title,
			CoverImage: book.CoverImage,
			Status:     shelfStatus(book, active),
		})
	}
	return summaries, nil
}

// GetBookDetails returns one book with its current borrows and remaining-time
// status per loan.
func (s *CatalogService) GetBookDetails(ctx context.Context, bookID int64) (*BookDetails, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %d not found", bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	borrows, err := s.store.ActiveLoansForBook(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("active loans: %w", err)
	}

	now := time.Now()
	current := make([]CurrentBorrow, 0, len(borrows))
	for _, b := range borrows {
		borrower, err := s.store.GetStudent(ctx, b.StudentID)
		if err != nil {
			return nil, fmt.Errorf("resolve borrower: %w", err)
		}
		current = append(current, CurrentBorrow{
			Borrower:     borrower.TUPID,
			BorrowedDate: b.BorrowedAt,
			DueDate:      b.DueAt,
			Status:       b.Status(now),
		})
	}

	return &BookDetails{
		ID:              book.ID,
		Title:           book.Title,
		Authors:         book.Authors,
		PublicationYear: book.PublicationYear,
		Subjects:        book.Subjects,
		Description:     book.Description,
		CoverImage:      book.CoverImage,
		Quantity:        book.Quantity,
		Available:       book.AvailableCopies(len(borrows)),
		Status:          shelfStatus(book, len(borrows)),
		CurrentBorrows:  current,
	}, nil
}

// CreateBookRequest carries the admin book creation payload.
type CreateBookRequest struct {
	Title           string   `json:"title" validate:"required,max=64"`
	Authors         []string `json:"author" validate:"required,min=1,dive,required,max=64"`
	PublicationYear int      `json:"publication_year" validate:"required,gt=0"`
	Subjects        []string `json:"subject" validate:"omitempty,dive,required,max=64"`
	Description     string   `json:"description"`
	CoverImage      string   `json:"cover_image"`
	CoverURL        string   `json:"cover_url" validate:"omitempty,url"`
	Quantity        int      `json:"quantity" validate:"required,gt=0"`
}

// CreateBook validates and inserts a catalog record.
func (s *CatalogService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:           req.Title,
		Authors:         req.Authors,
		Subjects:        req.Subjects,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		CoverImage:      req.CoverImage,
		CoverURL:        req.CoverURL,
		Quantity:        req.Quantity,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title, "quantity", book.Quantity)
	return book, nil
}

// shelfStatus reports Available while any copy remains on the shelf.
func shelfStatus(book *domain.Book, activeLoans int) string {
	if book.AvailableCopies(activeLoans) > 0 {
		return ShelfAvailable
	}
	return ShelfBorrowed
}
