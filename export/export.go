// Package export writes records as individual JSON files, one per record,
// named after the record ID.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/pevans/tagesfed/records"
)

// Dir is a directory of exported records.
type Dir struct {
	path string
}

// ReadError describes a failure to read a single record file.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ListResult contains the records read back from the directory and any
// per-file errors that occurred.
type ListResult struct {
	Records []records.Record
	Errors  []ReadError
}

// NewDir opens the export directory at path, creating it if needed.
func NewDir(path string) (*Dir, error) {
	// 0700: owner-only access
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	return &Dir{path: path}, nil
}

// Path returns the directory's location.
func (d *Dir) Path() string {
	return d.path
}

func (d *Dir) filename(id uuid.UUID) string {
	return filepath.Join(d.path, id.String()+".json")
}

// Write saves r as <id>.json, replacing an earlier export of the same record.
func (d *Dir) Write(r records.Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// 0600: owner-only read/write
	if err := os.WriteFile(d.filename(r.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// WriteAll writes every record, stopping at the first failure. It returns
// the number written.
func (d *Dir) WriteAll(rs []records.Record) (int, error) {
	for i, r := range rs {
		if err := d.Write(r); err != nil {
			return i, err
		}
	}
	return len(rs), nil
}

// List returns all exported records ordered by URL. Corrupted files are
// collected in the result's Errors slice rather than failing the whole
// operation; a non-nil error means the directory itself is unreadable.
func (d *Dir) List() (*ListResult, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export directory: %w", err)
	}

	result := &ListResult{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		r, err := readRecord(filepath.Join(d.path, entry.Name()))
		if err != nil {
			result.Errors = append(result.Errors, ReadError{
				Filename: entry.Name(),
				Err:      err,
			})
			continue
		}

		result.Records = append(result.Records, *r)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].URL < result.Records[j].URL
	})

	return result, nil
}

// Get reads the exported record with the given ID. A missing file returns
// records.ErrRecordNotFound.
func (d *Dir) Get(id uuid.UUID) (*records.Record, error) {
	r, err := readRecord(d.filename(id))
	if os.IsNotExist(err) {
		return nil, records.ErrRecordNotFound
	}
	return r, err
}

// Delete removes the exported record with the given ID.
func (d *Dir) Delete(id uuid.UUID) error {
	if err := os.Remove(d.filename(id)); err != nil {
		if os.IsNotExist(err) {
			return records.ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func readRecord(filename string) (*records.Record, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var r records.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return &r, nil
}
