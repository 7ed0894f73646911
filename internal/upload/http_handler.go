package upload

import (
	"errors"
	"net/http"

	"bookapi/internal/httpx"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// maxMemory is how much of a multipart body is buffered in RAM before
// spilling to temp files.
const maxMemory = 8 << 20

type HTTPHandler struct {
	store    *Store
	maxBytes int64
}

// NewHTTPHandler returns the upload handler. Bodies above maxBytes are
// rejected with 413; zero or less disables the handler's own cap.
func NewHTTPHandler(store *Store, maxBytes int64) *HTTPHandler {
	return &HTTPHandler{store: store, maxBytes: maxBytes}
}

// Route is the method and path the upload is mounted on under prefix.
func Route(prefix string) string {
	return "POST " + prefix + "/upload"
}

func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.Handle(Route(prefix), httpx.Handle(h.Upload))
}

// Upload handles POST /books/upload
// @Summary Upload a book image
// @Tags books
// @Accept mpfd
// @Produce plain
// @Param avatar formData file true "Image file"
// @Success 200 {string} string "OK"
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/upload [post]
func (h *HTTPHandler) Upload(w http.ResponseWriter, r *http.Request) error {
	if h.maxBytes > 0 {
		if r.ContentLength > h.maxBytes {
			return httpx.PayloadTooLarge("Upload too large")
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httpx.PayloadTooLarge("Upload too large")
		}
		return httpx.BadRequest("Expected a multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		return httpx.BadRequest("Missing file field \"" + FieldName + "\"")
	}
	defer file.Close()

	n, err := h.store.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			return httpx.BadRequest("Invalid file name")
		}
		return httpx.Internal(err)
	}

	httpx.LoggerFrom(r).Info("image uploaded",
		zap.String("file", header.Filename),
		zap.String("size", humanize.Bytes(uint64(n))),
	)
	httpx.Text(w, http.StatusOK, "OK")
	return nil
}
