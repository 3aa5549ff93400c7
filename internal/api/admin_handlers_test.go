package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslib/campuslib-server/internal/domain"
	"github.com/campuslib/campuslib-server/internal/service"
)

func TestCreateBookEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/admin/books",
		`{"title":"Noli Me Tangere","author":["Jose Rizal"],"publication_year":1887,"subject":["Fiction"],"quantity":3}`)
	require.Equal(t, http.StatusCreated, w.Code)

	book := decodeEnvelope[domain.Book](t, w)
	assert.NotZero(t, book.ID)
	assert.Equal(t, "Noli Me Tangere", book.Title)

	w = ts.do(t, http.MethodGet, "/api/v1/books", "")
	books := decodeEnvelope[[]service.BookSummary](t, w)
	require.Len(t, books, 1)
}

func TestCreateBookEndpoint_Invalid(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/admin/books", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateStudentEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/admin/students",
		`{"first":"Maria","last":"Santos","tup_id":"TUPM-25-0417","email":"maria@example.edu"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	student := decodeEnvelope[domain.Student](t, w)
	assert.Equal(t, "TUPM-25-0417", student.TUPID)

	// Duplicates are rejected.
	w = ts.do(t, http.MethodPost, "/api/v1/admin/students",
		`{"first":"Maria","last":"Santos","tup_id":"TUPM-25-0417","email":"maria@example.edu"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	book := ts.seedBook(t, "Florante at Laura", 1)
	student := ts.seedStudent(t, "TUPM-25-0001")

	body := fmt.Sprintf(`{"action":"borrow","tup_id":%q,"book_ids":[%d]}`, student.TUPID, book.ID)
	w := ts.do(t, http.MethodPost, "/api/v1/circulation", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/admin/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	dash := decodeEnvelope[service.Dashboard](t, w)
	require.Len(t, dash.ActiveLoans, 1)
	assert.Equal(t, student.TUPID, dash.ActiveLoans[0].Borrower)
	assert.Empty(t, dash.OverdueLoans)
	assert.Equal(t, 1, dash.DailyUsage.Borrowers)
	assert.Equal(t, testPolicy.DailyBorrowLimit-1, dash.DailyUsage.Remaining)
}

func TestNoticeSweepEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/admin/notices/reminders", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeEnvelope[service.SweepResult](t, w)
	assert.Equal(t, 0, res.Scanned)

	w = ts.do(t, http.MethodPost, "/api/v1/admin/notices/overdue", "")
	require.Equal(t, http.StatusOK, w.Code)
	res = decodeEnvelope[service.SweepResult](t, w)
	assert.Equal(t, 0, res.Sent)
}
