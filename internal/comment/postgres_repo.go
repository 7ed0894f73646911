package comment

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

// PostgresRepo stores comments as JSONB documents keyed by id, with the
// book asin copied into its own column for lookups.
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

func (r *PostgresRepo) query(ctx context.Context, sql string, args ...any) ([]entity.Record, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Record{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		rec, err := entity.DecodeRecord(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode comment document: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepo) All(ctx context.Context) ([]entity.Record, error) {
	return r.query(ctx, `SELECT doc FROM comments ORDER BY seq`)
}

func (r *PostgresRepo) ListByASIN(ctx context.Context, asin string) ([]entity.Record, error) {
	return r.query(ctx, `SELECT doc FROM comments WHERE asin = $1 ORDER BY seq`, asin)
}

func (r *PostgresRepo) Create(ctx context.Context, rec entity.Record) error {
	id, _ := rec.Key(entity.FieldID)
	asin, _ := rec.Key(entity.FieldASIN)
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err = r.db.Exec(ctx, `INSERT INTO comments (id, asin, doc) VALUES ($1, $2, $3::jsonb)`, id, asin, doc)
	return err
}

func (r *PostgresRepo) Update(ctx context.Context, id string, patch entity.Record) (entity.Record, error) {
	doc, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var raw []byte
	err = r.db.QueryRow(ctx, `
		UPDATE comments SET doc = doc || $2::jsonb
		WHERE id = $1
		RETURNING doc
	`, id, doc).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec, err := entity.DecodeRecord(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode comment document: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}
