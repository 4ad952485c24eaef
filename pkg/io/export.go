package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Write encodes records to w in the given format. The output can be read
// back with [Read] in the same format.
func Write(records []tree.Record, w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(records, w)
	case FormatTOML:
		return WriteTOML(records, w)
	case FormatYAML, "yml":
		return WriteYAML(records, w)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// WriteJSON encodes records as an indented JSON array of flat objects.
// Roots are written with "parent": null.
func WriteJSON(records []tree.Record, w io.Writer) error {
	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = r.Map()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes records as [[items]] tables. TOML has no null, so the
// parent key is left out for roots.
func WriteTOML(records []tree.Record, w io.Writer) error {
	items := make([]map[string]any, len(records))
	for i, r := range records {
		m := plainMap(r)
		if r.IsRoot() {
			delete(m, tree.KeyParent)
		}
		items[i] = m
	}
	if err := toml.NewEncoder(w).Encode(map[string]any{itemsKey: items}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes records as a YAML sequence of mappings.
func WriteYAML(records []tree.Record, w io.Writer) error {
	items := make([]map[string]any, len(records))
	for i, r := range records {
		items[i] = plainMap(r)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Export writes records to the file at path, encoded according to its
// extension. The path "-" writes JSON to standard output.
func Export(records []tree.Record, path string) error {
	if path == "-" {
		return WriteJSON(records, os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(records, f, FormatOf(path)); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// plainMap flattens r and turns json.Number payload values back into Go
// numbers, which the TOML and YAML encoders would otherwise quote.
func plainMap(r tree.Record) map[string]any {
	m := r.Map()
	for k, v := range m {
		m[k] = plain(v)
	}
	return m
}

func plain(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	}
	return v
}
