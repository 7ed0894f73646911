package comment

import (
	"net/http"
	"testing"

	"bookapi/internal/book"
	"bookapi/internal/entity"
	"bookapi/internal/filestore"
	"bookapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mux      *http.ServeMux
	books    *filestore.Collection
	comments *filestore.Collection
}

func newFixture(t *testing.T, comments ...entity.Record) fixture {
	t.Helper()
	books := testutil.NewCollection(t, "books.json", testutil.TestBook("A1"))
	commentCol := testutil.NewCollection(t, "comments.json", comments...)

	bookSvc := book.NewService(book.NewFileRepo(books))
	mux := http.NewServeMux()
	book.NewHTTPHandler(bookSvc).Register(mux, "/books")
	NewHTTPHandler(NewService(NewFileRepo(commentCol), bookSvc)).Register(mux, "/books")

	return fixture{mux: mux, books: books, comments: commentCol}
}

func TestHTTPHandler_CreateThenList(t *testing.T) {
	f := newFixture(t)

	w := testutil.Serve(f.mux, testutil.NewRequest(http.MethodPost, "/books/A1/comments", map[string]any{
		"comment": "Great pacing",
		"rate":    4,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	created := testutil.DecodeRecord(t, w)
	assert.NotEmpty(t, created["id"])
	assert.NotEmpty(t, created["date"])
	assert.Equal(t, "A1", created["asin"])
	assert.Equal(t, "Great pacing", created["comment"])

	w = testutil.Serve(f.mux, testutil.NewRequest(http.MethodGet, "/books/A1/comments", nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := testutil.DecodeRecords(t, w.Body)
	require.Len(t, list, 1)
	assert.Equal(t, created["id"], list[0]["id"])
}

func TestHTTPHandler_Create_UnknownBook(t *testing.T) {
	f := newFixture(t)

	w := testutil.Serve(f.mux, testutil.NewRequest(http.MethodPost, "/books/nope/comments", map[string]any{"comment": "?"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ASIN should be in our database")
	assert.Empty(t, testutil.ReadCollection(t, f.comments))
}

func TestHTTPHandler_List_UnknownBookIsEmpty(t *testing.T) {
	f := newFixture(t)

	w := testutil.Serve(f.mux, testutil.NewRequest(http.MethodGet, "/books/nope/comments", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHTTPHandler_Update(t *testing.T) {
	f := newFixture(t, entity.Record{"id": "c1", "asin": "A1", "comment": "old", "rate": 2})

	w := testutil.Serve(f.mux, testutil.NewRequest(http.MethodPut, "/books/c1/comments", map[string]any{"comment": "new"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated", w.Body.String())

	records := testutil.ReadCollection(t, f.comments)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0]["comment"])
	assert.Equal(t, "A1", records[0]["asin"])
	assert.NotNil(t, records[0]["rate"])
}

func TestHTTPHandler_Update_ByBookASINIsNotFound(t *testing.T) {
	f := newFixture(t, entity.Record{"id": "c1", "asin": "A1"})

	w := testutil.Serve(f.mux, testutil.NewRequest(http.MethodPut, "/books/A1/comments", map[string]any{"comment": "new"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Comment A1 not found")
}

func TestHTTPHandler_Delete(t *testing.T) {
	f := newFixture(t,
		entity.Record{"id": "c1", "asin": "A1"},
		entity.Record{"id": "c2", "asin": "A1"},
	)

	w := testutil.Serve(f.mux, testutil.NewRequest(http.MethodDelete, "/books/c1/comments", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted", w.Body.String())
	assert.Len(t, testutil.ReadCollection(t, f.comments), 1)

	w = testutil.Serve(f.mux, testutil.NewRequest(http.MethodDelete, "/books/unknown/comments", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.ReadCollection(t, f.comments), 1)
}

func TestHTTPHandler_BookDeleteLeavesComments(t *testing.T) {
	f := newFixture(t, entity.Record{"id": "c1", "asin": "A1"})

	w := testutil.Serve(f.mux, testutil.NewRequest(http.MethodDelete, "/books/A1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Serve(f.mux, testutil.NewRequest(http.MethodGet, "/books/A1/comments", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.DecodeRecords(t, w.Body), 1)
}
