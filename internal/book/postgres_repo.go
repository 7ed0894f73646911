package book

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bookapi/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo stores each book as a JSONB document. The seq column keeps
// insertion order so List matches the file-backed repository.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func decodeDoc(raw []byte) (entity.Record, error) {
	rec, err := entity.DecodeRecord(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode book document: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]entity.Record, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT doc FROM books ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []entity.Record{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rec, err := decodeDoc(raw)
		if err != nil {
			return nil, err
		}
		books = append(books, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *PostgresRepo) Get(ctx context.Context, asin string) (entity.Record, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM books WHERE asin = $1`, asin).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(raw)
}

func (r *PostgresRepo) Create(ctx context.Context, rec entity.Record) error {
	asin, _ := rec.Key(entity.FieldASIN)
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		INSERT INTO books (asin, doc)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (asin) DO NOTHING
	`, asin, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateASIN
	}
	return nil
}

// Update relies on jsonb concatenation, which is a shallow merge with the
// right-hand side winning.
func (r *PostgresRepo) Update(ctx context.Context, asin string, patch entity.Record) (entity.Record, error) {
	doc, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var raw []byte
	err = r.db.QueryRow(ctx, `
		UPDATE books SET doc = doc || $2::jsonb, updated_at = now()
		WHERE asin = $1
		RETURNING doc
	`, asin, doc).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeDoc(raw)
}

func (r *PostgresRepo) Delete(ctx context.Context, asin string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE asin = $1`, asin)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
