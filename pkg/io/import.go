package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Takheer/mstroy-test/pkg/tree"
)

// Supported encodings.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Formats lists the encodings understood by [Read] and [Write].
var Formats = []string{FormatJSON, FormatTOML, FormatYAML}

// itemsKey names the top-level array in TOML files and, optionally, YAML
// files.
const itemsKey = "items"

// FormatOf infers the encoding from a file extension. Unknown extensions
// fall back to JSON.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Read decodes records from r in the given format.
func Read(r io.Reader, format string) ([]tree.Record, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatYAML, "yml":
		return ReadYAML(r)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ReadJSON decodes a JSON array of flat record objects from r.
//
// Numbers decode as json.Number, so integer ids and large integer payload
// values are kept exactly. ReadJSON returns an error if the input is not an
// array of objects or if a record's id is missing or not a valid id.
// Errors name the index of the offending record.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]tree.Record, error) {
	items, err := readJSONMaps(r)
	if err != nil {
		return nil, err
	}
	return fromMaps(items)
}

func readJSONMaps(r io.Reader) ([]map[string]any, error) {
	var items []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return items, nil
}

// ReadTOML decodes the [[items]] tables of a TOML document from r.
func ReadTOML(r io.Reader) ([]tree.Record, error) {
	var doc struct {
		Items []map[string]any `toml:"items"`
	}
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return fromMaps(doc.Items)
}

// ReadYAML decodes a YAML sequence of records from r. A mapping with an
// "items" key holding the sequence is accepted too.
func ReadYAML(r io.Reader) ([]tree.Record, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if m, ok := doc.(map[string]any); ok {
		doc = m[itemsKey]
	}
	if doc == nil {
		return nil, nil
	}
	seq, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("decode: expected a sequence of records, got %T", doc)
	}

	items := make([]map[string]any, len(seq))
	for i, v := range seq {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: expected a mapping, got %T", i, v)
		}
		items[i] = m
	}
	return fromMaps(items)
}

// Import reads the file at path and decodes it according to its
// extension (see [FormatOf]). The path "-" reads JSON from standard input.
func Import(path string) ([]tree.Record, error) {
	if path == "-" {
		return ReadJSON(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func fromMaps(items []map[string]any) ([]tree.Record, error) {
	records := make([]tree.Record, 0, len(items))
	for i, m := range items {
		rec, err := tree.RecordFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
