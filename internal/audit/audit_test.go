package audit

import (
	"context"
	"errors"
	"testing"

	"bookapi/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockBooks struct {
	mock.Mock
}

func (m *mockBooks) List(ctx context.Context) ([]entity.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Record), args.Error(1)
}

type mockComments struct {
	mock.Mock
}

func (m *mockComments) All(ctx context.Context) ([]entity.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Record), args.Error(1)
}

func TestOrphans(t *testing.T) {
	books := new(mockBooks)
	comments := new(mockComments)
	books.On("List", mock.Anything).Return([]entity.Record{{"asin": "A1"}, {"asin": "A2"}}, nil)
	comments.On("All", mock.Anything).Return([]entity.Record{
		{"id": "c1", "asin": "A1"},
		{"id": "c2", "asin": "GONE"},
		{"id": "c3"},
	}, nil)

	orphans, err := New(books, comments, zap.NewNop()).Orphans(context.Background())
	require.NoError(t, err)
	require.Len(t, orphans, 2)
	assert.Equal(t, "c2", orphans[0]["id"])
	assert.Equal(t, "c3", orphans[1]["id"])

	books.AssertExpectations(t)
	comments.AssertExpectations(t)
}

func TestOrphans_CommentsErrorIsWrapped(t *testing.T) {
	books := new(mockBooks)
	comments := new(mockComments)
	boom := errors.New("parse comments.json")
	books.On("List", mock.Anything).Return([]entity.Record{}, nil)
	comments.On("All", mock.Anything).Return(nil, boom)

	_, err := New(books, comments, zap.NewNop()).Orphans(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRun_LogsOrphans(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	books := new(mockBooks)
	comments := new(mockComments)
	books.On("List", mock.Anything).Return([]entity.Record{}, nil)
	comments.On("All", mock.Anything).Return([]entity.Record{{"id": "c9", "asin": "A1"}}, nil)

	New(books, comments, zap.New(core)).Run(context.Background())

	entries := logs.FilterMessage("comments reference deleted books").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["count"])
}

func TestRun_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	books := new(mockBooks)
	books.On("List", mock.Anything).Return(nil, errors.New("read books.json: no such file"))

	New(books, new(mockComments), zap.New(core)).Run(context.Background())

	assert.Equal(t, 1, logs.FilterMessage("orphan comment audit failed").Len())
}

func TestSchedule_InvalidSpec(t *testing.T) {
	a := New(new(mockBooks), new(mockComments), zap.NewNop())

	_, err := a.Schedule(context.Background(), "every tuesday-ish")
	assert.Error(t, err)
}

func TestSchedule_StopsWithContext(t *testing.T) {
	a := New(new(mockBooks), new(mockComments), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	wait, err := a.Schedule(ctx, "@every 1h")
	require.NoError(t, err)

	cancel()
	wait()
}
