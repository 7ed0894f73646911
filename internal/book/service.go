package book

import (
	"context"
	"errors"

	"bookapi/internal/entity"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the whole collection in stored order.
func (s *Service) List(ctx context.Context) ([]entity.Record, error) {
	return s.repo.List(ctx)
}

// Get returns the book with the given asin.
func (s *Service) Get(ctx context.Context, asin string) (entity.Record, error) {
	return s.repo.Get(ctx, asin)
}

// Exists reports whether a book with asin is stored.
func (s *Service) Exists(ctx context.Context, asin string) (bool, error) {
	_, err := s.repo.Get(ctx, asin)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create validates body and appends it to the collection. Returns a
// *ValidationError listing missing fields, or ErrDuplicateASIN.
func (s *Service) Create(ctx context.Context, body entity.Record) (entity.Record, error) {
	if err := validateCreate(newCreateRequest(body)); err != nil {
		return nil, err
	}

	rec := body.Clone()
	if rec.Has(entity.FieldPrice) {
		rec[entity.FieldPrice] = CoercePrice(rec[entity.FieldPrice])
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update shallow-merges patch over the stored book. Fields missing from
// patch keep their value, so this behaves as a partial update. The asin in
// patch is ignored: it is the identity key and cannot change.
func (s *Service) Update(ctx context.Context, asin string, patch entity.Record) (entity.Record, error) {
	p := patch.Clone()
	delete(p, entity.FieldASIN)
	if p.Has(entity.FieldPrice) {
		p[entity.FieldPrice] = CoercePrice(p[entity.FieldPrice])
	}
	return s.repo.Update(ctx, asin, p)
}

// Delete removes the book with asin. Comments on it are left in place.
func (s *Service) Delete(ctx context.Context, asin string) error {
	return s.repo.Delete(ctx, asin)
}
