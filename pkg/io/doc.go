// Package io reads and writes flat record lists and mutation scripts.
//
// # Overview
//
// A tree store is built from a flat list of records, each carrying an id,
// an optional parent id and a free-form payload. This package moves that
// list between files and [tree.Record] values in three encodings:
//
//   - JSON: an array of flat objects
//   - TOML: an array of [[items]] tables
//   - YAML: a sequence, or a mapping with an "items" key
//
// # Record Format
//
// Every record is a flat object. The "id" key is required and may be an
// integer or a string. "parent" names the parent's id and is omitted or
// null for roots. Every other key is payload and ends up in
// [tree.Record.Meta]:
//
//	[
//	  {"id": 1, "parent": null, "label": "Child 1"},
//	  {"id": "X", "parent": 1, "label": "Child 2"},
//	  {"id": 4, "parent": "X", "label": "Child 4"}
//	]
//
// The same list in TOML:
//
//	[[items]]
//	id = 1
//	label = "Child 1"
//
//	[[items]]
//	id = "X"
//	parent = 1
//	label = "Child 2"
//
// # Import
//
// Use [Import] to read a file, choosing the decoder from its extension, or
// [ReadJSON], [ReadTOML] and [ReadYAML] to read from any io.Reader:
//
//	records, err := io.Import("records.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := tree.New(records, tree.Options{})
//
// Import only decodes. Structural checks (duplicate ids, unknown parents,
// cycles) happen when the records are handed to [tree.New].
//
// # Export
//
// [Write] encodes records in any of the three formats and [Export] writes
// them to a file, again choosing the encoding from the extension. Numbers
// decoded from JSON stay exact across a round trip.
//
// # Mutation Scripts
//
// A script is an ordered list of operations applied to an existing store.
// Each operation is a record with an extra "op" key set to "add", "update"
// or "remove":
//
//	[[ops]]
//	op = "add"
//	id = 9
//	parent = 4
//	label = "Child 9"
//
//	[[ops]]
//	op = "remove"
//	id = "X"
//
// [ReadScript] decodes a script and [Apply] runs it, stopping at the first
// failing operation.
package io
