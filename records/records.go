// Package records persists extracted records in SQLite. A record is keyed by
// its kind and page URL, which is how the pipeline recognizes pages it has
// already scraped.
package records

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/tagesfed/scraper"
)

// Custom errors for record operations
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("record with this kind and URL already exists")
	ErrInvalidKind     = errors.New("kind must be archive, teaser, or article")
)

// Kind names the document type a record was extracted from.
type Kind string

const (
	KindArchive Kind = "archive"
	KindTeaser  Kind = "teaser"
	KindArticle Kind = "article"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindArchive, KindTeaser, KindArticle:
		return true
	}
	return false
}

// Record is an extraction result together with where and when it was
// extracted.
type Record struct {
	ID          uuid.UUID      `json:"id"`
	Kind        Kind           `json:"kind"`
	URL         string         `json:"url"`
	Fields      scraper.Record `json:"fields"`
	ExtractedAt time.Time      `json:"extracted_at"`
}

// New returns a record with a fresh ID.
func New(kind Kind, url string, fields scraper.Record, extractedAt time.Time) *Record {
	return &Record{
		ID:          uuid.New(),
		Kind:        kind,
		URL:         url,
		Fields:      fields,
		ExtractedAt: extractedAt,
	}
}

// Filter represents filtering options for listing records.
type Filter struct {
	Kind   *Kind // Filter by kind
	Limit  int   // Pagination limit
	Offset int   // Pagination offset
}

// Store manages extracted records using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the record database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; concurrent pipeline workers share one
	// connection instead of failing with "database is locked".
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		record_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		url TEXT NOT NULL,
		fields TEXT NOT NULL,
		extracted_at TEXT NOT NULL,
		UNIQUE (kind, url)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts r. A second record with the same kind and URL is rejected
// with ErrDuplicateRecord.
func (s *Store) Save(r *Record) error {
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}

	fields, err := json.Marshal(r.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	query := `
		INSERT INTO records (record_id, kind, url, fields, extracted_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		r.ID.String(),
		string(r.Kind),
		r.URL,
		string(fields),
		formatTime(r.ExtractedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// Get retrieves a record by ID.
func (s *Store) Get(id uuid.UUID) (*Record, error) {
	query := `
		SELECT record_id, kind, url, fields, extracted_at
		FROM records
		WHERE record_id = ?
	`

	var idStr, kind, url, fields, extractedAt string
	err := s.db.QueryRow(query, id.String()).Scan(&idStr, &kind, &url, &fields, &extractedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}

	return scanRecord(idStr, kind, url, fields, extractedAt)
}

// Exists reports whether a record of kind has already been stored for url.
func (s *Store) Exists(kind Kind, url string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM records WHERE kind = ? AND url = ?",
		string(kind), url,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query record: %w", err)
	}
	return n > 0, nil
}

// List lists records, newest extraction first.
func (s *Store) List(filter Filter) ([]Record, error) {
	query := `
		SELECT record_id, kind, url, fields, extracted_at
		FROM records
	`

	var args []any
	if filter.Kind != nil {
		query += " WHERE kind = ?"
		args = append(args, string(*filter.Kind))
	}

	query += " ORDER BY extracted_at DESC, url ASC"

	// SQLite only accepts OFFSET after a LIMIT.
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var idStr, kind, url, fields, extractedAt string
		if err := rows.Scan(&idStr, &kind, &url, &fields, &extractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r, err := scanRecord(idStr, kind, url, fields, extractedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// Delete deletes a record.
func (s *Store) Delete(id uuid.UUID) error {
	result, err := s.db.Exec("DELETE FROM records WHERE record_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func scanRecord(idStr, kind, url, fields, extractedAt string) (*Record, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record ID: %w", err)
	}

	var values scraper.Record
	if err := json.Unmarshal([]byte(fields), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
	}

	return &Record{
		ID:          id,
		Kind:        Kind(kind),
		URL:         url,
		Fields:      values,
		ExtractedAt: parseTime(extractedAt),
	}, nil
}

// timeLayout is fixed width so extracted_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}
