package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/campuslib/campuslib-server/internal/errors"
	"github.com/campuslib/campuslib-server/internal/store/sqlite"
)

func newTestCirculation(t *testing.T) (*CirculationService, *sqlite.Store, *fakeTransport) {
	t.Helper()
	st := newTestStore(t)
	transport := &fakeTransport{}
	svc := NewCirculationService(st, transport, testCirculationPolicy, testLogger())
	return svc, st, transport
}

func TestProcess_BorrowThenReturn(t *testing.T) {
	svc, st, transport := newTestCirculation(t)
	ctx := context.Background()

	book := seedBook(t, st, "The Eye of the World", 1)
	student := seedStudent(t, st, "TUPM-25-0001")

	res, err := svc.Process(ctx, CirculationRequest{
		Action:  ActionBorrow,
		TUPID:   student.TUPID,
		BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.True(t, strings.HasPrefix(res.Results[0], "✅"), "got %q", res.Results[0])
	assert.True(t, res.Details[0].OK)
	assert.Empty(t, res.Details[0].Code)

	// Confirmation email fired once, to the borrower.
	msgs := transport.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, student.Email, msgs[0].To)
	assert.Contains(t, msgs[0].Subject, book.Title)

	res, err = svc.Process(ctx, CirculationRequest{
		Action:  ActionReturn,
		TUPID:   student.TUPID,
		BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)
	assert.True(t, res.Details[0].OK)
	assert.Contains(t, res.Results[0], "Returned")

	// Returns fire no email.
	assert.Len(t, transport.messages(), 1)
}

func TestProcess_ItemFailuresDoNotAbortBatch(t *testing.T) {
	svc, st, _ := newTestCirculation(t)
	ctx := context.Background()

	book := seedBook(t, st, "Dune", 1)
	student := seedStudent(t, st, "TUPM-25-0001")

	res, err := svc.Process(ctx, CirculationRequest{
		Action:  ActionBorrow,
		TUPID:   student.TUPID,
		BookIDs: []int64{book.ID, 9999, book.ID},
	})
	require.NoError(t, err)
	require.Len(t, res.Details, 3)

	// First occurrence admitted; unknown id fails; duplicate occurrence is
	// evaluated against the new state and rejected as already borrowed.
	assert.True(t, res.Details[0].OK)
	assert.False(t, res.Details[1].OK)
	assert.Equal(t, string(domainerrors.CodeNotFound), res.Details[1].Code)
	assert.False(t, res.Details[2].OK)
	assert.Equal(t, string(domainerrors.CodeAlreadyBorrowed), res.Details[2].Code)
	assert.True(t, strings.HasPrefix(res.Results[2], "⚠️"), "got %q", res.Results[2])
}

func TestProcess_StudentLoanLimit(t *testing.T) {
	svc, st, _ := newTestCirculation(t)
	ctx := context.Background()

	student := seedStudent(t, st, "TUPM-25-0001")
	var ids []int64
	for _, title := range []string{"A", "B", "C", "D"} {
		ids = append(ids, seedBook(t, st, title, 1).ID)
	}

	res, err := svc.Process(ctx, CirculationRequest{
		Action:  ActionBorrow,
		TUPID:   student.TUPID,
		BookIDs: ids,
	})
	require.NoError(t, err)
	require.Len(t, res.Details, 4)
	for i := 0; i < 3; i++ {
		assert.True(t, res.Details[i].OK, "item %d", i)
	}
	assert.Equal(t, string(domainerrors.CodeStudentLoanLimit), res.Details[3].Code)
}

func TestProcess_NoCopiesAvailable(t *testing.T) {
	svc, st, _ := newTestCirculation(t)
	ctx := context.Background()

	book := seedBook(t, st, "Hamlet", 1)
	alice := seedStudent(t, st, "TUPM-25-0001")
	bob := seedStudent(t, st, "TUPM-25-0002")

	_, err := svc.Process(ctx, CirculationRequest{
		Action: ActionBorrow, TUPID: alice.TUPID, BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)

	res, err := svc.Process(ctx, CirculationRequest{
		Action: ActionBorrow, TUPID: bob.TUPID, BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainerrors.CodeNoCopiesAvailable), res.Details[0].Code)

	// The copy frees up on return.
	_, err = svc.Process(ctx, CirculationRequest{
		Action: ActionReturn, TUPID: alice.TUPID, BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)

	res, err = svc.Process(ctx, CirculationRequest{
		Action: ActionBorrow, TUPID: bob.TUPID, BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)
	assert.True(t, res.Details[0].OK)
}

func TestProcess_ReturnWithNothingActive(t *testing.T) {
	svc, st, _ := newTestCirculation(t)

	book := seedBook(t, st, "Ulysses", 1)
	student := seedStudent(t, st, "TUPM-25-0001")

	res, err := svc.Process(context.Background(), CirculationRequest{
		Action: ActionReturn, TUPID: student.TUPID, BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainerrors.CodeNothingToReturn), res.Details[0].Code)
	assert.True(t, strings.HasPrefix(res.Results[0], "⚠️"), "got %q", res.Results[0])
}

func TestProcess_UnknownStudentFailsEveryItem(t *testing.T) {
	svc, st, tr := newTestCirculation(t)
	seedBook(t, st, "Emma", 1)

	result, err := svc.Process(context.Background(), CirculationRequest{
		Action: ActionBorrow, TUPID: "TUPM-25-9999", BookIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	require.Len(t, result.Details, 2)
	for i, item := range result.Details {
		assert.False(t, item.OK)
		assert.Equal(t, string(domainerrors.CodeNotFound), item.Code)
		assert.Contains(t, item.Message, "student TUPM-25-9999 not found")
		assert.Equal(t, item.Message, result.Results[i])
	}

	// No loan was created and no email sent.
	count, err := st.ActiveLoanCountForBook(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, tr.messages())
}

func TestProcess_InvalidRequest(t *testing.T) {
	svc, _, _ := newTestCirculation(t)

	tests := []struct {
		name string
		req  CirculationRequest
	}{
		{"unknown action", CirculationRequest{Action: "renew", TUPID: "TUPM-25-0001", BookIDs: []int64{1}}},
		{"missing tup_id", CirculationRequest{Action: ActionBorrow, BookIDs: []int64{1}}},
		{"empty book_ids", CirculationRequest{Action: ActionBorrow, TUPID: "TUPM-25-0001"}},
		{"malformed tup_id", CirculationRequest{Action: ActionBorrow, TUPID: "25-0001", BookIDs: []int64{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Process(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestProcess_MailFailureDoesNotRollBackLoan(t *testing.T) {
	svc, st, transport := newTestCirculation(t)
	transport.fail = true
	ctx := context.Background()

	book := seedBook(t, st, "Middlemarch", 1)
	student := seedStudent(t, st, "TUPM-25-0001")

	res, err := svc.Process(ctx, CirculationRequest{
		Action: ActionBorrow, TUPID: student.TUPID, BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)
	assert.True(t, res.Details[0].OK)

	count, err := st.ActiveLoanCountForBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProcess_TUPIDNormalized(t *testing.T) {
	svc, st, _ := newTestCirculation(t)

	book := seedBook(t, st, "Persuasion", 1)
	seedStudent(t, st, "TUPM-25-0001")

	res, err := svc.Process(context.Background(), CirculationRequest{
		Action: ActionBorrow, TUPID: " tupm-25-0001 ", BookIDs: []int64{book.ID},
	})
	require.NoError(t, err)
	assert.True(t, res.Details[0].OK)
}
