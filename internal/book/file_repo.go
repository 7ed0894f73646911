package book

import (
	"context"

	"bookapi/internal/entity"
	"bookapi/internal/filestore"
)

// FileRepo stores books in a JSON array file.
type FileRepo struct {
	col *filestore.Collection
}

func NewFileRepo(col *filestore.Collection) *FileRepo {
	return &FileRepo{col: col}
}

func indexOf(records []entity.Record, asin string) int {
	for i, rec := range records {
		if key, ok := rec.Key(entity.FieldASIN); ok && key == asin {
			return i
		}
	}
	return -1
}

func (r *FileRepo) List(ctx context.Context) ([]entity.Record, error) {
	return r.col.Load(ctx)
}

func (r *FileRepo) Get(ctx context.Context, asin string) (entity.Record, error) {
	records, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(records, asin)
	if i < 0 {
		return nil, ErrNotFound
	}
	return records[i], nil
}

func (r *FileRepo) Create(ctx context.Context, rec entity.Record) error {
	asin, keyed := rec.Key(entity.FieldASIN)
	return r.col.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		if keyed && indexOf(records, asin) >= 0 {
			return nil, ErrDuplicateASIN
		}
		return append(records, rec), nil
	})
}

func (r *FileRepo) Update(ctx context.Context, asin string, patch entity.Record) (entity.Record, error) {
	var updated entity.Record
	err := r.col.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		i := indexOf(records, asin)
		if i < 0 {
			return nil, ErrNotFound
		}
		updated = entity.Merge(records[i], patch)
		records[i] = updated
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *FileRepo) Delete(ctx context.Context, asin string) error {
	return r.col.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		kept := records[:0]
		for _, rec := range records {
			if key, ok := rec.Key(entity.FieldASIN); !ok || key != asin {
				kept = append(kept, rec)
			}
		}
		if len(kept) == len(records) {
			return nil, ErrNotFound
		}
		return kept, nil
	})
}
