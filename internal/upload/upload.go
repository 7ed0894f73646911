// Package upload saves book images posted as multipart form files.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidName is returned for filenames that do not name a file.
var ErrInvalidName = errors.New("invalid file name")

// FieldName is the multipart field the image is read from.
const FieldName = "avatar"

// Store writes files into a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the target directory.
func (s *Store) Dir() string {
	return s.dir
}

// Ensure creates the target directory.
func (s *Store) Ensure() error {
	return os.MkdirAll(s.dir, 0o755)
}

// CleanName reduces a client-supplied filename to its last path element.
// Both slash styles are treated as separators.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	base := filepath.Base(filepath.FromSlash(name))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", ErrInvalidName
	}
	return base, nil
}

// Save copies r into the directory under name and returns the bytes written.
// An existing file with the same name is overwritten.
func (s *Store) Save(name string, r io.Reader) (int64, error) {
	clean, err := CleanName(name)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(filepath.Join(s.dir, clean))
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", clean, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", clean, err)
	}
	return n, nil
}
