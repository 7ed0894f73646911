package comment

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=comment

import (
	"context"

	"bookapi/internal/entity"
)

// Repository defines the contract for comment storage.
type Repository interface {
	ListByASIN(ctx context.Context, asin string) ([]entity.Record, error)
	Create(ctx context.Context, rec entity.Record) error
	Update(ctx context.Context, id string, patch entity.Record) (entity.Record, error)
	Delete(ctx context.Context, id string) error
	// All returns every comment regardless of book, for maintenance jobs.
	All(ctx context.Context) ([]entity.Record, error)
}

// BookFinder answers whether a book exists. book.Service satisfies it.
type BookFinder interface {
	Exists(ctx context.Context, asin string) (bool, error)
}
