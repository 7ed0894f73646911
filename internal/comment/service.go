package comment

import (
	"context"
	"time"

	"bookapi/internal/entity"

	"github.com/google/uuid"
)

// Service provides comment business logic.
type Service struct {
	repo  Repository
	books BookFinder
	now   func() time.Time
	newID func() string
}

// NewService creates a comment service. books is consulted before a comment
// is created; nothing checks it again afterwards.
func NewService(repo Repository, books BookFinder) *Service {
	return &Service{
		repo:  repo,
		books: books,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// ListForBook returns the comments whose asin is asin. An unknown book
// yields an empty list.
func (s *Service) ListForBook(ctx context.Context, asin string) ([]entity.Record, error) {
	return s.repo.ListByASIN(ctx, asin)
}

// Create stores a comment on the book asin. The body's fields are kept;
// asin, date and id are set by the server and override the body.
func (s *Service) Create(ctx context.Context, asin string, body entity.Record) (entity.Record, error) {
	ok, err := s.books.Exists(ctx, asin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBookNotFound
	}

	rec := entity.Merge(body, entity.Record{
		entity.FieldASIN: asin,
		entity.FieldDate: FormatDate(s.now()),
		entity.FieldID:   s.newID(),
	})
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update shallow-merges patch over the comment with the given id. The id
// and asin of a comment cannot be changed this way.
func (s *Service) Update(ctx context.Context, id string, patch entity.Record) (entity.Record, error) {
	p := patch.Clone()
	delete(p, entity.FieldID)
	delete(p, entity.FieldASIN)
	return s.repo.Update(ctx, id, p)
}

// Delete removes the comment with id. Deleting an unknown id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
