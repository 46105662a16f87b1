package scraper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a config source.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format by file extension. Anything other than
// .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// rawTag mirrors {name, attrs} in the config file.
type rawTag struct {
	Name  string            `yaml:"name" json:"name"`
	Attrs map[string]string `yaml:"attrs" json:"attrs"`
}

type rawField struct {
	ID          string `yaml:"id" json:"id"`
	ContentType string `yaml:"content_type" json:"content_type"`
	Multiple    string `yaml:"multiple" json:"multiple"`
	Tag         rawTag `yaml:"tag" json:"tag"`
}

type rawGroup struct {
	ID       string   `yaml:"id" json:"id"`
	Tag      rawTag   `yaml:"tag" json:"tag"`
	Contains []string `yaml:"contains" json:"contains"`
}

type rawScraping struct {
	Tags      []rawField `yaml:"tags" json:"tags"`
	Groups    []rawGroup `yaml:"groups" json:"groups"`
	Delimiter string     `yaml:"delimiter" json:"delimiter"`
}

type rawStringInTag struct {
	IncludeString string `yaml:"include_string" json:"include_string"`
	Tag           rawTag `yaml:"tag" json:"tag"`
}

type rawValidation struct {
	ExistingTags          []rawTag         `yaml:"existing_tags" json:"existing_tags"`
	ExistingStringsInTags []rawStringInTag `yaml:"existing_strings_in_tags" json:"existing_strings_in_tags"`
}

type rawConfig struct {
	Validation *rawValidation `yaml:"validation" json:"validation"`
	Scraping   *rawScraping   `yaml:"scraping" json:"scraping"`
}

// Read parses the file at path into a raw nested mapping without
// interpreting it. A file that does not decode to a mapping yields a
// *ConfigFormatError.
func Read(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw, err := ParseRaw(data, FormatFromPath(path))
	if err != nil {
		return nil, withPath(err, path)
	}
	return raw, nil
}

// ParseRaw decodes data into a raw nested mapping.
func ParseRaw(data []byte, format Format) (map[string]any, error) {
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ConfigFormatError{Err: err}
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ConfigFormatError{Err: err}
		}
	}

	raw, ok := doc.(map[string]any)
	if !ok {
		return nil, &ConfigFormatError{Err: fmt.Errorf("top level is %T, not a mapping", doc)}
	}
	return raw, nil
}

// Load reads the file at path and maps it into a validated Config. Errors
// are *ConfigFormatError or *ConfigReferenceError, except for file system
// failures which are returned wrapped as-is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, withPath(err, path)
	}
	return cfg, nil
}

// Parse maps in-memory config data into a validated Config.
func Parse(data []byte, format Format) (*Config, error) {
	// The mapping check comes first so a list or scalar document reports the
	// same error as Read does.
	if _, err := ParseRaw(data, format); err != nil {
		return nil, err
	}

	var raw rawConfig
	if err := decodeStrict(data, format, &raw); err != nil {
		return nil, &ConfigFormatError{Err: err}
	}

	cfg, err := raw.toConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeStrict rejects unknown keys so typos fail at load time rather than
// silently dropping a field.
func decodeStrict(data []byte, format Format, out *rawConfig) error {
	if format == FormatJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (r rawConfig) toConfig() (*Config, error) {
	cfg := &Config{}

	if r.Validation != nil {
		vc := &ValidationConfig{}
		for _, t := range r.Validation.ExistingTags {
			vc.Rules = append(vc.Rules, TagExists(t.descriptor()))
		}
		for _, s := range r.Validation.ExistingStringsInTags {
			vc.Rules = append(vc.Rules, TagContainsText(s.Tag.descriptor(), s.IncludeString))
		}
		cfg.Validation = vc
	}

	if r.Scraping == nil {
		return cfg, nil
	}

	cfg.Scraping.Delimiter = r.Scraping.Delimiter
	for _, t := range r.Scraping.Tags {
		multiple, err := parseMultiMatch(t.Multiple)
		if err != nil {
			return nil, &ConfigFormatError{Err: fmt.Errorf("field %q: %w", t.ID, err)}
		}

		content := TextContent()
		if t.ContentType != "" {
			content = AttributeContent(t.ContentType)
		}

		cfg.Scraping.Fields = append(cfg.Scraping.Fields, FieldSpec{
			ID:       t.ID,
			Tag:      t.Tag.descriptor(),
			Content:  content,
			Multiple: multiple,
		})
	}

	for _, g := range r.Scraping.Groups {
		cfg.Scraping.Groups = append(cfg.Scraping.Groups, GroupSpec{
			ID:      g.ID,
			Tag:     g.Tag.descriptor(),
			Members: append([]string(nil), g.Contains...),
		})
	}

	return cfg, nil
}

func (t rawTag) descriptor() TagDescriptor {
	return TagDescriptor{Name: t.Name, Attrs: cloneAttrs(t.Attrs)}
}

func parseMultiMatch(s string) (MultiMatch, error) {
	switch s {
	case "", "join":
		return MultiJoin, nil
	case "list":
		return MultiList, nil
	default:
		return MultiJoin, fmt.Errorf("unknown multiple policy %q (want join or list)", s)
	}
}

// withPath stamps the source path onto config errors.
func withPath(err error, path string) error {
	var formatErr *ConfigFormatError
	if errors.As(err, &formatErr) {
		formatErr.Path = path
		return formatErr
	}
	var refErr *ConfigReferenceError
	if errors.As(err, &refErr) {
		refErr.Path = path
		return refErr
	}
	return err
}
