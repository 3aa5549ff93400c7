package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/store"
)

// studentColumns is the ordered list of columns selected in student queries.
// Must match the scan order in scanStudent.
const studentColumns = `id, created_at, first_name, last_name, tup_id, email`

// scanStudent scans a sql.Row (or sql.Rows via its Scan method) into a domain.Student.
func scanStudent(scanner interface{ Scan(dest ...any) error }) (*domain.Student, error) {
	var st domain.Student
	var createdAt string

	err := scanner.Scan(
		&st.ID,
		&createdAt,
		&st.First,
		&st.Last,
		&st.TUPID,
		&st.Email,
	)
	if err != nil {
		return nil, err
	}

	st.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

// CreateStudent inserts a student row and assigns the generated ID.
// Returns store.ErrAlreadyExists on a duplicate tup_id or email.
func (s *Store) CreateStudent(ctx context.Context, student *domain.Student) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO students (created_at, first_name, last_name, tup_id, email)
		VALUES (?, ?, ?, ?, ?)`,
		formatTime(student.CreatedAt),
		student.First,
		student.Last,
		student.TUPID,
		student.Email,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	student.ID, err = res.LastInsertId()
	return err
}

// GetStudent retrieves a student by ID.
// Returns store.ErrNotFound if the student does not exist.
func (s *Store) GetStudent(ctx context.Context, id int64) (*domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = ?`, id)

	student, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudentByTUPID retrieves a student by institutional ID.
// Returns store.ErrNotFound if the student does not exist.
func (s *Store) GetStudentByTUPID(ctx context.Context, tupID string) (*domain.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE tup_id = ?`, tupID)

	student, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// ListStudents returns all students ordered by last name.
func (s *Store) ListStudents(ctx context.Context) ([]*domain.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*domain.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}
