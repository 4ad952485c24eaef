package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Reserved keys in the flattened form of a record. Every other key belongs
// to the payload.
const (
	KeyID     = "id"
	KeyParent = "parent"
)

// Metadata is the caller's payload attached to a record. The store never
// reads or modifies it.
type Metadata map[string]any

// Record is a caller-owned entity: a unique identifier, an optional parent
// identifier (the zero ID for roots) and an arbitrary payload.
type Record struct {
	ID     ID
	Parent ID
	Meta   Metadata
}

// IsRoot reports whether the record has no parent.
func (r Record) IsRoot() bool { return r.Parent.IsZero() }

// Map flattens the record into a single map: the payload plus the "id" and
// "parent" keys (parent is nil for roots). This is the shape used by the
// JSON, TOML and YAML codecs.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Meta)+2)
	maps.Copy(m, r.Meta)
	m[KeyID] = r.ID.Value()
	m[KeyParent] = r.Parent.Value()
	return m
}

// RecordFromMap builds a record from its flattened form. The "id" key is
// required; a missing or null "parent" makes the record a root. Remaining
// keys are copied into Meta, which stays nil when there are none.
func RecordFromMap(m map[string]any) (Record, error) {
	raw, ok := m[KeyID]
	if !ok {
		return Record{}, fmt.Errorf("%w: missing %q field", ErrInvalidID, KeyID)
	}
	id, err := IDFrom(raw)
	if err != nil {
		return Record{}, err
	}
	if id.IsZero() {
		return Record{}, fmt.Errorf("%w: empty %q field", ErrInvalidID, KeyID)
	}
	parent, err := IDFrom(m[KeyParent])
	if err != nil {
		return Record{}, fmt.Errorf("parent of %v: %w", id, err)
	}

	rec := Record{ID: id, Parent: parent}
	for k, v := range m {
		if k == KeyID || k == KeyParent {
			continue
		}
		if rec.Meta == nil {
			rec.Meta = make(Metadata, len(m)-1)
		}
		rec.Meta[k] = v
	}
	return rec, nil
}

// MarshalJSON writes the flattened form, e.g.
// {"id": 4, "parent": "X", "label": "Child 4"}.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON reads the flattened form. Numbers in the payload decode as
// json.Number so that large integers survive unchanged.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return err
	}
	rec, err := RecordFromMap(m)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// IDs extracts the identifier of each record, preserving order.
func IDs(records []Record) []ID {
	ids := make([]ID, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
