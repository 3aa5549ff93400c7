package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, publication_year,
	description, cover_image, cover_url, quantity`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Book. Authors and subjects are loaded separately.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt   string
		updatedAt   string
		description sql.NullString
		coverImage  sql.NullString
		coverURL    sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&b.PublicationYear,
		&description,
		&coverImage,
		&coverURL,
		&b.Quantity,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		b.Description = description.String
	}
	if coverImage.Valid {
		b.CoverImage = coverImage.String
	}
	if coverURL.Valid {
		b.CoverURL = coverURL.String
	}

	return &b, nil
}

// CreateBook inserts a book row along with its author and subject links in a
// transaction, and assigns the generated ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO books (
			created_at, updated_at, title, publication_year,
			description, cover_image, cover_url, quantity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.PublicationYear,
		nullString(book.Description),
		nullString(book.CoverImage),
		nullString(book.CoverURL),
		book.Quantity,
	)
	if err != nil {
		return err
	}

	book.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	if err := linkNames(ctx, tx, "authors", "book_authors", "author_id", book.ID, book.Authors); err != nil {
		return err
	}
	if err := linkNames(ctx, tx, "subjects", "book_subjects", "subject_id", book.ID, book.Subjects); err != nil {
		return err
	}

	return tx.Commit()
}

// linkNames upserts the named rows (authors or subjects) and links them to
// the book, preserving input order via the position column.
func linkNames(ctx context.Context, tx *sql.Tx, nameTable, linkTable, linkColumn string, bookID int64, names []string) error {
	for pos, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+nameTable+` (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return err
		}

		var nameID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM `+nameTable+` WHERE name = ?`, name).Scan(&nameID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+linkTable+` (book_id, `+linkColumn+`, position) VALUES (?, ?, ?)
			 ON CONFLICT DO NOTHING`, bookID, nameID, pos); err != nil {
			return err
		}
	}
	return nil
}

// GetBook retrieves a book by ID, including its authors and subjects.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadBookNames(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks returns the whole catalog ordered by title.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, book := range books {
		if err := s.loadBookNames(ctx, book); err != nil {
			return nil, err
		}
	}
	return books, nil
}

// loadBookNames populates a book's authors and subjects in link order.
func (s *Store) loadBookNames(ctx context.Context, book *domain.Book) error {
	var err error
	book.Authors, err = s.queryNames(ctx, `
		SELECT a.name FROM authors a
		JOIN book_authors ba ON ba.author_id = a.id
		WHERE ba.book_id = ? ORDER BY ba.position`, book.ID)
	if err != nil {
		return err
	}

	book.Subjects, err = s.queryNames(ctx, `
		SELECT sub.name FROM subjects sub
		JOIN book_subjects bs ON bs.subject_id = sub.id
		WHERE bs.book_id = ? ORDER BY bs.position`, book.ID)
	return err
}

func (s *Store) queryNames(ctx context.Context, query string, bookID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
