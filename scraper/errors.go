package scraper

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrConfigFormat    = errors.New("malformed scraping config")
	ErrConfigReference = errors.New("invalid scraping config reference")
	ErrTagNotFound     = errors.New("tag not found")
)

// ConfigFormatError reports a config source that did not decode to the
// expected structure.
type ConfigFormatError struct {
	Path string
	Err  error
}

func (e *ConfigFormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed scraping config: %v", e.Err)
	}
	return fmt.Sprintf("malformed scraping config %s: %v", e.Path, e.Err)
}

func (e *ConfigFormatError) Unwrap() error { return e.Err }

func (e *ConfigFormatError) Is(target error) bool { return target == ErrConfigFormat }

// ConfigReferenceError reports a config that decoded but is inconsistent:
// no fields, duplicate ids, or groups naming undefined fields.
type ConfigReferenceError struct {
	Path   string
	Reason string
}

func (e *ConfigReferenceError) Error() string {
	if e.Path == "" {
		return "invalid scraping config: " + e.Reason
	}
	return fmt.Sprintf("invalid scraping config %s: %s", e.Path, e.Reason)
}

func (e *ConfigReferenceError) Is(target error) bool { return target == ErrConfigReference }

// TagNotFoundError reports a plain field whose descriptor matched nothing.
// It is fatal to the record being extracted.
type TagNotFoundError struct {
	FieldID string
	Tag     TagDescriptor
}

func (e *TagNotFoundError) Error() string {
	return fmt.Sprintf("no element found for field %q matching %s", e.FieldID, e.Tag)
}

func (e *TagNotFoundError) Is(target error) bool { return target == ErrTagNotFound }
