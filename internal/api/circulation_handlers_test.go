package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCirculation_BorrowAndReturn(t *testing.T) {
	ts := setupTestServer(t)
	book := ts.seedBook(t, "The Hobbit", 1)
	student := ts.seedStudent(t, "TUPM-25-0001")

	body := fmt.Sprintf(`{"action":"borrow","tup_id":%q,"book_ids":[%d]}`, student.TUPID, book.ID)
	w := ts.do(t, http.MethodPost, "/api/v1/circulation", body)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope[CirculationResponse](t, w)
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Results, 1)
	assert.True(t, strings.HasPrefix(resp.Results[0], "✅"), "got %q", resp.Results[0])
	require.Len(t, resp.Details, 1)
	assert.True(t, resp.Details[0].OK)

	body = fmt.Sprintf(`{"action":"return","tup_id":%q,"book_ids":[%d]}`, student.TUPID, book.ID)
	w = ts.do(t, http.MethodPost, "/api/v1/circulation", body)
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeEnvelope[CirculationResponse](t, w)
	assert.Contains(t, resp.Results[0], "Returned")
}

func TestCirculation_MixedVerdictsInOneBatch(t *testing.T) {
	ts := setupTestServer(t)
	book := ts.seedBook(t, "Emma", 1)
	student := ts.seedStudent(t, "TUPM-25-0001")

	body := fmt.Sprintf(`{"action":"borrow","tup_id":%q,"book_ids":[%d,777]}`, student.TUPID, book.ID)
	w := ts.do(t, http.MethodPost, "/api/v1/circulation", body)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope[CirculationResponse](t, w)
	require.Len(t, resp.Details, 2)
	assert.True(t, resp.Details[0].OK)
	assert.False(t, resp.Details[1].OK)
	assert.Equal(t, "NOT_FOUND", resp.Details[1].Code)
}

func TestCirculation_UnknownStudentStaysItemLevel(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedBook(t, "Dracula", 1)

	w := ts.do(t, http.MethodPost, "/api/v1/circulation",
		`{"action":"borrow","tup_id":"TUPM-25-9999","book_ids":[1]}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope[CirculationResponse](t, w)
	require.Len(t, resp.Details, 1)
	assert.False(t, resp.Details[0].OK)
	assert.Equal(t, "NOT_FOUND", resp.Details[0].Code)
	assert.Contains(t, resp.Results[0], "student TUPM-25-9999 not found")
}

func TestCirculation_InvalidBody(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/circulation", `{"action":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/circulation",
		`{"action":"renew","tup_id":"TUPM-25-0001","book_ids":[1]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

