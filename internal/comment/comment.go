// Package comment stores reader comments attached to books by asin.
package comment

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no comment has the requested id.
	ErrNotFound = errors.New("comment not found")
	// ErrBookNotFound is returned when commenting on an asin that is not stored.
	ErrBookNotFound = errors.New("ASIN should be in our database")
)

// DateLayout matches what a JSON-encoded JavaScript Date looks like, which is
// the format existing comment files already hold.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate renders t in DateLayout, in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
