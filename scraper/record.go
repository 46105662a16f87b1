package scraper

import (
	"encoding/json"
	"fmt"
)

// Record maps field and group ids to extracted values. A value is one of:
//   - string: a single match, or several matches joined (MultiJoin)
//   - []string: the matches of a MultiList field
//   - []Record: one entry per group container, in document order
//   - nil: the element exists but has no extractable content
type Record map[string]any

// Text returns the value for id when it is a string.
func (r Record) Text(id string) (string, bool) {
	s, ok := r[id].(string)
	return s, ok
}

// Strings returns the value for id as a slice: a joined or single string
// becomes a one-element slice, nil becomes an empty slice.
func (r Record) Strings(id string) []string {
	switch v := r[id].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	default:
		return []string{}
	}
}

// Group returns the container records for a group id.
func (r Record) Group(id string) []Record {
	g, _ := r[id].([]Record)
	return g
}

// UnmarshalJSON restores the value types Extract produces, so a record
// written with encoding/json reads back with working accessors.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Record, len(raw))
	for id, v := range raw {
		restored, err := restoreValue(v)
		if err != nil {
			return fmt.Errorf("failed to decode value %q: %w", id, err)
		}
		out[id] = restored
	}
	*r = out
	return nil
}

func restoreValue(v any) (any, error) {
	list, ok := v.([]any)
	if !ok {
		switch v.(type) {
		case nil, string:
			return v, nil
		}
		return nil, fmt.Errorf("unexpected %T", v)
	}

	// An empty list is a group without containers; list fields are never
	// empty.
	if len(list) == 0 {
		return []Record{}, nil
	}

	if _, isString := list[0].(string); isString {
		values := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("mixed list element %T", item)
			}
			values = append(values, s)
		}
		return values, nil
	}

	instances := make([]Record, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected group element %T", item)
		}
		instance := make(Record, len(m))
		for id, member := range m {
			restored, err := restoreValue(member)
			if err != nil {
				return nil, err
			}
			instance[id] = restored
		}
		instances = append(instances, instance)
	}
	return instances, nil
}
