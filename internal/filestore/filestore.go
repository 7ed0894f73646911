// Package filestore keeps collections of records as JSON arrays on disk.
//
// Every call reads or rewrites the whole file. There is no index and no cache.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bookapi/internal/entity"
)

// Read parses the file at path as a JSON array of records.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func Read(path string) ([]entity.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []entity.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if records == nil {
		records = []entity.Record{}
	}
	return records, nil
}

// Write replaces the file at path with records serialized as a JSON array.
// The new content is written to a temporary file next to path and renamed
// over it, so readers see either the old or the new array.
func Write(path string, records []entity.Record) error {
	if records == nil {
		records = []entity.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Collection is one JSON array file with a writer lock.
//
// Update calls on the same Collection are serialized, so two requests in this
// process cannot overwrite each other's changes. Other processes writing the
// same file are not coordinated with; the last rename wins.
type Collection struct {
	path string
	mu   sync.Mutex
}

// NewCollection returns a collection stored at path.
func NewCollection(path string) *Collection {
	return &Collection{path: path}
}

// Path returns the backing file path.
func (c *Collection) Path() string {
	return c.path
}

// Ensure creates the parent directory and an empty array file when the file
// does not exist yet. An existing file is left untouched.
func (c *Collection) Ensure() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if _, err := os.Stat(c.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", c.path, err)
	}
	return Write(c.path, nil)
}

// Load reads the whole collection.
func (c *Collection) Load(ctx context.Context) ([]entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Read(c.path)
}

// Save overwrites the whole collection.
func (c *Collection) Save(ctx context.Context, records []entity.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Write(c.path, records)
}

// Update reads the collection, passes it to fn and writes back what fn
// returns. If fn returns an error nothing is written and the error is
// returned unchanged.
func (c *Collection) Update(ctx context.Context, fn func([]entity.Record) ([]entity.Record, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := Read(c.path)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return Write(c.path, next)
}
