package httpx

import (
	"errors"
	"net/http"

	"bookapi/internal/entity"
)

// DecodeJSONRecord reads the request body as one JSON object. A body cut off
// by http.MaxBytesReader is a 413; anything else that is not an object is a 400.
func DecodeJSONRecord(r *http.Request) (entity.Record, error) {
	rec, err := entity.DecodeRecord(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, PayloadTooLarge("Request body too large")
		}
		return nil, BadRequest("Request body must be a JSON object")
	}
	return rec, nil
}
