package book

import (
	"errors"
	"fmt"
	"net/http"

	"bookapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book routes under prefix ("" mounts at the root).
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	if prefix != "" {
		mux.Handle("GET "+prefix, httpx.Handle(h.List))
		mux.Handle("POST "+prefix, httpx.Handle(h.Create))
	}
	mux.Handle("GET "+prefix+"/{$}", httpx.Handle(h.List))
	mux.Handle("POST "+prefix+"/{$}", httpx.Handle(h.Create))
	mux.Handle("GET "+prefix+"/{asin}", httpx.Handle(h.Get))
	mux.Handle("PUT "+prefix+"/{asin}", httpx.Handle(h.Update))
	mux.Handle("DELETE "+prefix+"/{asin}", httpx.Handle(h.Delete))
}

func notFound(asin string) error {
	return httpx.NotFound(fmt.Sprintf("Book with asin %s not found", asin))
}

// List handles GET /books
// @Summary List books
// @Description Returns every book with the item count. No paging or filters.
// @Tags books
// @Produce json
// @Success 200 {object} book.ListResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) error {
	books, err := h.service.List(r.Context())
	if err != nil {
		return httpx.Internal(fmt.Errorf("while reading books list a problem occurred: %w", err))
	}
	httpx.JSON(w, http.StatusOK, ListResponse{NumberOfItems: len(books), Data: books})
	return nil
}

// Get handles GET /books/{asin}
// @Summary Get book by ASIN
// @Tags books
// @Produce json
// @Param asin path string true "Book ASIN"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{asin} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) error {
	asin := r.PathValue("asin")
	book, err := h.service.Get(r.Context(), asin)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(asin)
		}
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusOK, book)
	return nil
}

// Create handles POST /books
// @Summary Create a book
// @Description asin, title, category and img are required; price is coerced to a number.
// @Tags books
// @Accept json
// @Produce plain
// @Success 201 {string} string "Created"
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.DecodeJSONRecord(r)
	if err != nil {
		return err
	}

	if _, err := h.service.Create(r.Context(), body); err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			details := make([]httpx.ErrorDetail, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				details = append(details, httpx.ErrorDetail{Field: f.Field, Message: f.Message})
			}
			return httpx.Validation(details)
		case errors.Is(err, ErrDuplicateASIN):
			return httpx.BadRequest(ErrDuplicateASIN.Error())
		default:
			return httpx.Internal(err)
		}
	}

	httpx.Text(w, http.StatusCreated, "Created")
	return nil
}

// Update handles PUT /books/{asin}
// @Summary Update a book
// @Description Shallow-merges the body over the stored book; omitted fields are kept.
// @Tags books
// @Accept json
// @Produce plain
// @Param asin path string true "Book ASIN"
// @Success 200 {string} string "Updated"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{asin} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) error {
	asin := r.PathValue("asin")
	body, err := httpx.DecodeJSONRecord(r)
	if err != nil {
		return err
	}

	if _, err := h.service.Update(r.Context(), asin, body); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(asin)
		}
		return httpx.Internal(err)
	}

	httpx.Text(w, http.StatusOK, "Updated")
	return nil
}

// Delete handles DELETE /books/{asin}
// @Summary Delete a book
// @Description Comments that reference the book are not removed.
// @Tags books
// @Produce plain
// @Param asin path string true "Book ASIN"
// @Success 200 {string} string "Deleted"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /books/{asin} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	asin := r.PathValue("asin")
	if err := h.service.Delete(r.Context(), asin); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(asin)
		}
		return httpx.Internal(err)
	}

	httpx.Text(w, http.StatusOK, "Deleted")
	return nil
}
