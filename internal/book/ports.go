package book

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

import (
	"context"

	"bookapi/internal/entity"
)

// Repository defines the contract for book storage.
// Records are identified by their "asin" field.
type Repository interface {
	List(ctx context.Context) ([]entity.Record, error)
	Get(ctx context.Context, asin string) (entity.Record, error)
	Create(ctx context.Context, rec entity.Record) error
	Update(ctx context.Context, asin string, patch entity.Record) (entity.Record, error)
	Delete(ctx context.Context, asin string) error
}
