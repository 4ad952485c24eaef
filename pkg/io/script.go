package io

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// OpKind names a mutation in a script.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpUpdate OpKind = "update"
	OpRemove OpKind = "remove"
)

// opKey is the script key that selects the mutation.
const opKey = "op"

// Op is one step of a mutation script. For [OpRemove] only Record.ID is
// used.
type Op struct {
	Kind   OpKind
	Record tree.Record
}

func (o Op) String() string {
	return fmt.Sprintf("%s %v", o.Kind, o.Record.ID)
}

// ReadScript reads a mutation script from the file at path. TOML files hold
// [[ops]] tables; YAML files a sequence of mappings or an "ops" key. Any
// other extension is read as a JSON array.
func ReadScript(path string) ([]Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ops, err := DecodeScript(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ops, nil
}

// DecodeScript decodes a mutation script from r in the given format.
func DecodeScript(r io.Reader, format string) ([]Op, error) {
	var raw []map[string]any
	switch strings.ToLower(format) {
	case FormatTOML:
		var doc struct {
			Ops []map[string]any `toml:"ops"`
		}
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		raw = doc.Ops
	case FormatYAML, "yml":
		var doc yaml.Node
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("decode: %w", err)
		}
		if err := decodeYAMLOps(&doc, &raw); err != nil {
			return nil, err
		}
	default:
		items, err := readJSONMaps(r)
		if err != nil {
			return nil, err
		}
		raw = items
	}

	ops := make([]Op, 0, len(raw))
	for i, m := range raw {
		op, err := opFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func decodeYAMLOps(doc *yaml.Node, out *[]map[string]any) error {
	var seq []map[string]any
	if err := doc.Decode(&seq); err == nil {
		*out = seq
		return nil
	}
	var wrapped struct {
		Ops []map[string]any `yaml:"ops"`
	}
	if err := doc.Decode(&wrapped); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	*out = wrapped.Ops
	return nil
}

func opFromMap(m map[string]any) (Op, error) {
	kind, _ := m[opKey].(string)
	op := Op{Kind: OpKind(strings.ToLower(kind))}

	fields := maps.Clone(m)
	delete(fields, opKey)

	switch op.Kind {
	case OpAdd, OpUpdate:
		rec, err := tree.RecordFromMap(fields)
		if err != nil {
			return Op{}, err
		}
		op.Record = rec
	case OpRemove:
		id, err := tree.IDFrom(fields[tree.KeyID])
		if err != nil {
			return Op{}, err
		}
		if id.IsZero() {
			return Op{}, fmt.Errorf("%w: remove without %q", tree.ErrInvalidID, tree.KeyID)
		}
		op.Record = tree.Record{ID: id}
	default:
		return Op{}, fmt.Errorf("unknown op %q (want add, update or remove)", kind)
	}
	return op, nil
}

// Apply runs ops against s in order. It stops at the first failing
// operation and returns the number of operations applied together with an
// error naming the failing step; earlier operations stay applied.
func Apply(s *tree.Store, ops []Op) (int, error) {
	for i, op := range ops {
		var err error
		switch op.Kind {
		case OpAdd:
			err = s.Add(op.Record)
		case OpUpdate:
			err = s.Update(op.Record)
		case OpRemove:
			s.Remove(op.Record.ID)
		default:
			err = fmt.Errorf("unknown op %q", op.Kind)
		}
		if err != nil {
			return i, fmt.Errorf("op %d (%s): %w", i, op, err)
		}
	}
	return len(ops), nil
}
