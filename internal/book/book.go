package book

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"bookapi/internal/entity"
)

var (
	// ErrNotFound is returned when no book has the requested asin.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateASIN is returned when creating a book whose asin is taken.
	ErrDuplicateASIN = errors.New("ASIN should be unique")
)

// FieldError describes one missing or invalid field of a create request.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every field problem found in one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid book: " + strings.Join(msgs, "; ")
}

// CreateRequest is the part of a book body that validation looks at.
// The stored record keeps every field of the body, not only these.
type CreateRequest struct {
	ASIN     any `json:"asin" validate:"present,text"`
	Title    any `json:"title" validate:"present"`
	Category any `json:"category" validate:"present"`
	Img      any `json:"img" validate:"present"`
}

func newCreateRequest(rec entity.Record) CreateRequest {
	return CreateRequest{
		ASIN:     rec[entity.FieldASIN],
		Title:    rec[entity.FieldTitle],
		Category: rec[entity.FieldCategory],
		Img:      rec[entity.FieldImg],
	}
}

// ListResponse is the body of GET on the collection.
type ListResponse struct {
	NumberOfItems int             `json:"numberOfItems"`
	Data          []entity.Record `json:"data"`
}

// CoercePrice converts a price value to a float64. Numeric strings are
// parsed; anything that is not a finite number becomes nil (JSON null).
func CoercePrice(v any) any {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case json.Number:
		n, err := p.Float64()
		if err != nil {
			return nil
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
