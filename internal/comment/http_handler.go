package comment

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

// Register mounts the comment routes under prefix.
//
// All four routes share the path {prefix}/{id}/comments. For GET and POST
// the value is a book asin; for PUT and DELETE it is matched against the
// comment's own id.
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.Handle("GET "+prefix+"/{id}/comments", httpx.Handle(h.List))
	mux.Handle("POST "+prefix+"/{id}/comments", httpx.Handle(h.Create))
	mux.Handle("PUT "+prefix+"/{id}/comments", httpx.Handle(h.Update))
	mux.Handle("DELETE "+prefix+"/{id}/comments", httpx.Handle(h.Delete))
}

// List handles GET /books/{asin}/comments
// @Summary List comments for a book
// @Tags comments
// @Produce json
// @Param id path string true "Book ASIN"
// @Success 200 {array} map[string]interface{}
// @Router /books/{id}/comments [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) error {
	comments, err := h.service.ListForBook(r.Context(), r.PathValue("id"))
	if err != nil {
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusOK, comments)
	return nil
}

// Create handles POST /books/{asin}/comments
// @Summary Comment on a book
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Book ASIN"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} httpx.ErrorResponse
// @Router /books/{id}/comments [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.DecodeJSONRecord(r)
	if err != nil {
		return err
	}

	created, err := h.service.Create(r.Context(), r.PathValue("id"), body)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return httpx.BadRequest(ErrBookNotFound.Error())
		}
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusOK, created)
	return nil
}

// Update handles PUT /books/{id}/comments, where id is a comment id.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	body, err := httpx.DecodeJSONRecord(r)
	if err != nil {
		return err
	}

	if _, err := h.service.Update(r.Context(), id, body); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httpx.NotFound(fmt.Sprintf("Comment %s not found", id))
		}
		return httpx.Internal(err)
	}
	httpx.Text(w, http.StatusOK, "Updated")
	return nil
}

// Delete handles DELETE /books/{id}/comments, where id is a comment id.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		return httpx.Internal(err)
	}
	httpx.Text(w, http.StatusOK, "deleted")
	return nil
}
