package comment

import (
	"context"

	"bookapi/internal/entity"
	"bookapi/internal/filestore"
)

// FileRepo stores comments in a JSON array file.
type FileRepo struct {
	col *filestore.Collection
}

func NewFileRepo(col *filestore.Collection) *FileRepo {
	return &FileRepo{col: col}
}

func matches(rec entity.Record, field, value string) bool {
	key, ok := rec.Key(field)
	return ok && key == value
}

func (r *FileRepo) All(ctx context.Context) ([]entity.Record, error) {
	return r.col.Load(ctx)
}

func (r *FileRepo) ListByASIN(ctx context.Context, asin string) ([]entity.Record, error) {
	records, err := r.col.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []entity.Record{}
	for _, rec := range records {
		if matches(rec, entity.FieldASIN, asin) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *FileRepo) Create(ctx context.Context, rec entity.Record) error {
	return r.col.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		return append(records, rec), nil
	})
}

func (r *FileRepo) Update(ctx context.Context, id string, patch entity.Record) (entity.Record, error) {
	var updated entity.Record
	err := r.col.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		for i, rec := range records {
			if matches(rec, entity.FieldID, id) {
				updated = entity.Merge(rec, patch)
				records[i] = updated
				return records, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete rewrites the file without the comment. The file is rewritten even
// when no comment matched.
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	return r.col.Update(ctx, func(records []entity.Record) ([]entity.Record, error) {
		kept := make([]entity.Record, 0, len(records))
		for _, rec := range records {
			if !matches(rec, entity.FieldID, id) {
				kept = append(kept, rec)
			}
		}
		return kept, nil
	})
}
